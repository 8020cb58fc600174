package course

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/codementor/codementor-api/internal/auth"
	"github.com/codementor/codementor-api/internal/config"
)

type Handler struct {
	service CourseService
}

func NewHandler(s CourseService) *Handler {
	return &Handler{service: s}
}

// userIDFromRequest returns the authenticated user id, or nil for anonymous
// requests. Catalog endpoints accept both.
func userIDFromRequest(r *http.Request) *uuid.UUID {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		return nil
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	return &id
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	items, err := h.service.ListCourses(r.Context(), userIDFromRequest(r))
	if err != nil {
		log.WithError(err).Error("Failed to list courses")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, items)
}

func (h *Handler) GetCourseDetail(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		http.Error(w, "course slug required", http.StatusBadRequest)
		return
	}

	detail, err := h.service.GetCourseDetail(r.Context(), slug, userIDFromRequest(r))
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			http.Error(w, "course not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to load course detail")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{"course": detail})
}
