package achievement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SweepIntent is the outbox row recording, inside the triggering
// transaction, that a user's achievements should be re-evaluated. Intents are
// dispatched to the queue after commit; the worker marks them processed.
// Intents left pending (a crashed dispatch, a dropped queue message) are
// re-enqueued by the worker's reaper, so delivery is at least once.
type SweepIntent struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Reason      string         `gorm:"type:text;not null" json:"reason"`
	Payload     datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	ProcessedAt *time.Time     `gorm:"index" json:"processed_at,omitempty"`
}

// Sweep intent reasons, one per event class that can change a qualifying
// count.
const (
	SweepReasonEnrolled        = "enrolled"
	SweepReasonSurveyCompleted = "survey_completed"
	SweepReasonLessonCompleted = "lesson_completed"
)

type OutboxRepository interface {
	// CreateInTx records a sweep intent inside the caller's transaction, so
	// a rolled-back write never produces a sweep.
	CreateInTx(tx *gorm.DB, intent *SweepIntent) error
	MarkProcessed(id uuid.UUID, at time.Time) error
	// ListStale returns unprocessed intents older than the cutoff, for
	// re-enqueueing.
	ListStale(cutoff time.Time, limit int) ([]*SweepIntent, error)
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) CreateInTx(tx *gorm.DB, intent *SweepIntent) error {
	if intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	return tx.Create(intent).Error
}

func (r *outboxRepository) MarkProcessed(id uuid.UUID, at time.Time) error {
	return r.db.Model(&SweepIntent{}).
		Where("id = ? AND processed_at IS NULL", id).
		Update("processed_at", at).Error
}

func (r *outboxRepository) ListStale(cutoff time.Time, limit int) ([]*SweepIntent, error) {
	var intents []*SweepIntent
	err := r.db.
		Where("processed_at IS NULL AND created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&intents).Error
	if err != nil {
		return nil, err
	}
	return intents, nil
}
