package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/codementor/codementor-api/internal/auth"
	"github.com/codementor/codementor-api/internal/config"
)

type Handler struct {
	repo UserRepository
}

func NewHandler(repo UserRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		log.WithError(err).Warn("Invalid user id in token claims")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := h.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to load user profile")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{"user": u})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	claims, err := auth.GetUserClaimsFromContext(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		FirstName          *string `json:"first_name"`
		LastName           *string `json:"last_name"`
		LearningObjectives *string `json:"learning_objectives"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("Failed to load user for update")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if payload.FirstName != nil {
		u.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		u.LastName = *payload.LastName
	}
	if payload.LearningObjectives != nil {
		u.LearningObjectives = *payload.LearningObjectives
	}

	if err := h.repo.Update(u); err != nil {
		log.WithError(err).Error("Failed to update user profile")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, map[string]interface{}{"user": u})
}
