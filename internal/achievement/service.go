package achievement

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/codementor/codementor-api/internal/config"
	"github.com/codementor/codementor-api/internal/user"
)

// Ledger exposes the historical counts the predicates evaluate. Implemented
// by the progress package.
type Ledger interface {
	Snapshot(ctx context.Context, userID uuid.UUID) (LedgerSnapshot, error)
}

// Outcome of a single achievement check.
type Outcome string

const (
	OutcomeAlreadyHeld Outcome = "already_held"
	OutcomeNewlyHeld   Outcome = "newly_held"
	OutcomeNotHeld     Outcome = "not_held"
)

type AchievementService interface {
	// CheckForUser evaluates one achievement for one user, awarding at most
	// once per pair.
	CheckForUser(ctx context.Context, a *Achievement, userID uuid.UUID) (Outcome, error)
	// SweepUser re-evaluates every active achievement for the user. A
	// missing user is a no-op; sweeps are idempotent and safe to repeat.
	SweepUser(ctx context.Context, userID uuid.UUID) error
	ListForUser(ctx context.Context, userID *uuid.UUID) ([]*AchievementView, error)
}

type AchievementView struct {
	ID          uuid.UUID `json:"id"`
	Code        Code      `json:"code"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Awarded     *bool     `json:"awarded,omitempty"`
}

type achievementService struct {
	repo     AchievementRepository
	userRepo user.UserRepository
	ledger   Ledger
}

func NewService(repo AchievementRepository, userRepo user.UserRepository, ledger Ledger) AchievementService {
	return &achievementService{
		repo:     repo,
		userRepo: userRepo,
		ledger:   ledger,
	}
}

func (s *achievementService) CheckForUser(ctx context.Context, a *Achievement, userID uuid.UUID) (Outcome, error) {
	held, err := s.repo.HasAward(userID, a.ID)
	if err != nil {
		return "", err
	}
	if held {
		return OutcomeAlreadyHeld, nil
	}

	snapshot, err := s.ledger.Snapshot(ctx, userID)
	if err != nil {
		return "", err
	}

	return s.checkSnapshot(ctx, a, userID, snapshot)
}

func (s *achievementService) checkSnapshot(ctx context.Context, a *Achievement, userID uuid.UUID, snapshot LedgerSnapshot) (Outcome, error) {
	log := config.WithContext(ctx)

	if !Qualifies(a.Code, snapshot) {
		return OutcomeNotHeld, nil
	}

	created, err := s.repo.CreateAward(&UserAchievement{
		UserID:        userID,
		AchievementID: a.ID,
	})
	if err != nil {
		return "", err
	}
	if !created {
		// A concurrent sweep won the insert race.
		return OutcomeAlreadyHeld, nil
	}

	log.WithField("user_id", userID).WithField("code", a.Code).Info("Achievement awarded")
	return OutcomeNewlyHeld, nil
}

func (s *achievementService) SweepUser(ctx context.Context, userID uuid.UUID) error {
	log := config.WithContext(ctx)

	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			log.WithField("user_id", userID).Warn("Sweep requested for unknown user, skipping")
			return nil
		}
		return err
	}

	achievements, err := s.repo.ListActive()
	if err != nil {
		log.WithError(err).Error("Failed to list active achievements")
		return err
	}

	awarded, err := s.repo.ListAwardedCodes(userID)
	if err != nil {
		return err
	}

	snapshot, err := s.ledger.Snapshot(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to load ledger snapshot")
		return err
	}

	for _, a := range achievements {
		if awarded[a.Code] {
			continue
		}
		if _, err := s.checkSnapshot(ctx, a, userID, snapshot); err != nil {
			log.WithError(err).WithField("code", a.Code).Error("Achievement check failed")
			return err
		}
	}
	return nil
}

func (s *achievementService) ListForUser(ctx context.Context, userID *uuid.UUID) ([]*AchievementView, error) {
	achievements, err := s.repo.ListActive()
	if err != nil {
		return nil, err
	}

	var awarded map[Code]bool
	if userID != nil {
		awarded, err = s.repo.ListAwardedCodes(*userID)
		if err != nil {
			return nil, err
		}
	}

	views := make([]*AchievementView, 0, len(achievements))
	for _, a := range achievements {
		v := &AchievementView{
			ID:          a.ID,
			Code:        a.Code,
			Title:       a.Title,
			Description: a.Description,
		}
		if awarded != nil {
			has := awarded[a.Code]
			v.Awarded = &has
		}
		views = append(views, v)
	}
	return views, nil
}
