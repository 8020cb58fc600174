package progress

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/codementor/codementor-api/internal/auth"
	"github.com/codementor/codementor-api/internal/config"
	"github.com/codementor/codementor-api/internal/course"
	"github.com/codementor/codementor-api/internal/survey"
)

type Handler struct {
	service ProgressService
}

func NewHandler(s ProgressService) *Handler {
	return &Handler{service: s}
}

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(claims.UserID)
}

// writeServiceError maps domain sentinels to HTTP statuses. Anything
// unrecognized is a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, course.ErrCourseNotFound):
		http.Error(w, "course not found", http.StatusNotFound)
	case errors.Is(err, course.ErrLessonNotFound):
		http.Error(w, "lesson not found", http.StatusNotFound)
	case errors.Is(err, course.ErrMaterialNotFound):
		http.Error(w, "material not found", http.StatusNotFound)
	case errors.Is(err, survey.ErrSurveyNotFound):
		http.Error(w, "survey not found", http.StatusNotFound)
	case errors.Is(err, survey.ErrQuestionNotFound):
		http.Error(w, "question not found", http.StatusNotFound)
	case errors.Is(err, ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotEnrolled):
		http.Error(w, "not enrolled in course", http.StatusNotFound)
	default:
		config.WithContext(r.Context()).WithError(err).Error(action)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	slug := chi.URLParam(r, "slug")
	uc, err := h.service.Enroll(r.Context(), userID, slug)
	if err != nil {
		writeServiceError(w, r, err, "Failed to enroll in course")
		return
	}

	config.JSON(w, http.StatusOK, uc)
}

func (h *Handler) GetLessonDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	lessonID, err := uuid.Parse(chi.URLParam(r, "lessonID"))
	if err != nil {
		http.Error(w, "invalid lesson id", http.StatusBadRequest)
		return
	}

	detail, err := h.service.GetLessonDetail(r.Context(), userID, chi.URLParam(r, "slug"), lessonID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load lesson detail")
		return
	}

	config.JSON(w, http.StatusOK, detail)
}

func (h *Handler) CompleteMaterial(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	lessonID, err := uuid.Parse(chi.URLParam(r, "lessonID"))
	if err != nil {
		http.Error(w, "invalid lesson id", http.StatusBadRequest)
		return
	}
	materialID, err := uuid.Parse(chi.URLParam(r, "materialID"))
	if err != nil {
		http.Error(w, "invalid material id", http.StatusBadRequest)
		return
	}

	if err := h.service.CompleteMaterial(r.Context(), userID, chi.URLParam(r, "slug"), lessonID, materialID); err != nil {
		writeServiceError(w, r, err, "Failed to complete material")
		return
	}

	config.JSON(w, http.StatusOK, map[string]string{"status": string(MaterialCompleted)})
}

func (h *Handler) SubmitSurveyAnswers(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	lessonID, err := uuid.Parse(chi.URLParam(r, "lessonID"))
	if err != nil {
		http.Error(w, "invalid lesson id", http.StatusBadRequest)
		return
	}
	surveyID, err := uuid.Parse(chi.URLParam(r, "surveyID"))
	if err != nil {
		http.Error(w, "invalid survey id", http.StatusBadRequest)
		return
	}

	var req SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.service.SubmitSurveyAnswers(r.Context(), userID, chi.URLParam(r, "slug"), lessonID, surveyID, req.Questions)
	if err != nil {
		writeServiceError(w, r, err, "Failed to submit survey answers")
		return
	}

	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	view, err := h.service.CourseProgress(r.Context(), userID, chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to compute course progress")
		return
	}

	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) ListCourseProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	views, err := h.service.ListCourseProgress(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to list course progress")
		return
	}

	config.JSON(w, http.StatusOK, views)
}
