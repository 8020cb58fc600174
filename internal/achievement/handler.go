package achievement

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/codementor/codementor-api/internal/auth"
	"github.com/codementor/codementor-api/internal/config"
)

type Handler struct {
	service AchievementService
}

func NewHandler(s AchievementService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var userID *uuid.UUID
	if claims, err := auth.GetUserClaimsFromContext(r.Context()); err == nil {
		if id, err := uuid.Parse(claims.UserID); err == nil {
			userID = &id
		}
	}

	views, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("Failed to list achievements")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, views)
}
