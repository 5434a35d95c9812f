package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("not found")

// CompanyProfile is the per-user sender configuration used to parameterize
// generated content. One row per user.
type CompanyProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	Name         string `gorm:"not null" json:"name"`
	Description  string `gorm:"not null" json:"description"`
	FundingStage string `json:"funding_stage,omitempty"`
	Tone         string `json:"tone,omitempty"`
	UserName     string `gorm:"not null" json:"user_name"`
	UserPosition string `gorm:"not null" json:"user_position"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CompanyProfile) TableName() string { return "company_profiles" }

type Service struct {
	DB *gorm.DB
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*CompanyProfile, error) {
	var p CompanyProfile
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Save upserts the user's profile on the user_id unique key.
func (s *Service) Save(ctx context.Context, userID uuid.UUID, p CompanyProfile) (*CompanyProfile, error) {
	p.UserID = userID
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.UpdatedAt = time.Now()

	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "funding_stage", "tone",
			"user_name", "user_position", "updated_at",
		}),
	}).Create(&p).Error
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}
