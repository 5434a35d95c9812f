package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry is one send attempt. The table is append-only: entries are written
// after every attempt, success or failure, and never updated.
type Entry struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	ContactID   *uuid.UUID `gorm:"type:uuid;index" json:"contact_id,omitempty"`
	To          string     `gorm:"not null" json:"to"`
	ContactName string     `json:"contact_name,omitempty"`
	Subject     string     `gorm:"not null" json:"subject"`
	Body        string     `gorm:"type:text;not null" json:"body"`

	Status    string    `gorm:"not null" json:"status"` // sent / failed
	MessageID string    `json:"message_id,omitempty"`
	SentAt    time.Time `gorm:"index;not null;default:now()" json:"sent_at"`
}

func (Entry) TableName() string { return "email_history" }

type Service struct {
	DB *gorm.DB
}

func (s *Service) Append(ctx context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.SentAt.IsZero() {
		e.SentAt = time.Now()
	}
	return s.DB.WithContext(ctx).Create(&e).Error
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	var rows []Entry
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sent_at desc").
		Find(&rows).Error
	return rows, err
}
