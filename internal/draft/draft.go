package draft

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("not found")

// Draft is an in-progress email for one contact, upserted per (user, contact).
type Draft struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ContactID uuid.UUID `gorm:"type:uuid;not null" json:"contact_id"`

	Subject string `gorm:"not null" json:"subject"`
	Body    string `gorm:"type:text;not null" json:"body"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Draft) TableName() string { return "email_drafts" }

type Service struct {
	DB *gorm.DB
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Draft, error) {
	var rows []Draft
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&rows).Error
	return rows, err
}

func (s *Service) Save(ctx context.Context, userID, contactID uuid.UUID, subject, body string) (*Draft, error) {
	d := Draft{
		ID:        uuid.New(),
		UserID:    userID,
		ContactID: contactID,
		Subject:   subject,
		Body:      body,
		UpdatedAt: time.Now(),
	}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "contact_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"subject", "body", "updated_at"}),
	}).Create(&d).Error
	if err != nil {
		return nil, err
	}

	var out Draft
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND contact_id = ?", userID, contactID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Delete(ctx context.Context, userID, contactID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("user_id = ? AND contact_id = ?", userID, contactID).
		Delete(&Draft{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
