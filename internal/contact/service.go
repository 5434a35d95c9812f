package contact

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type Service struct {
	DB *gorm.DB
}

// NewContact is the input shape for creating a contact (API and CSV import).
type NewContact struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Website         string   `json:"website"`
	LinkedInURL     string   `json:"linkedin"`
	Twitter         string   `json:"twitter"`
	Facebook        string   `json:"facebook"`
	Country         string   `json:"country"`
	State           string   `json:"state"`
	City            string   `json:"city"`
	Markets         []string `json:"markets"`
	PastInvestments string   `json:"past_investments"`
	Types           string   `json:"types"`
	Stages          string   `json:"stages"`
	Notes           string   `json:"notes"`
}

// Update carries a partial contact update; nil fields are left untouched.
type Update struct {
	Name            *string         `json:"name"`
	Email           *string         `json:"email"`
	Phone           *string         `json:"phone"`
	Title           *string         `json:"title"`
	Company         *string         `json:"company"`
	Website         *string         `json:"website"`
	LinkedInURL     *string         `json:"linkedin"`
	Twitter         *string         `json:"twitter"`
	Facebook        *string         `json:"facebook"`
	Country         *string         `json:"country"`
	State           *string         `json:"state"`
	City            *string         `json:"city"`
	Markets         *[]string       `json:"markets"`
	PastInvestments *string         `json:"past_investments"`
	Types           *string         `json:"types"`
	Stages          *string         `json:"stages"`
	Notes           *string         `json:"notes"`
	ResearchStatus  *ResearchStatus `json:"research_status"`
	ResearchData    *ResearchData   `json:"research_data"`
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Contact, error) {
	var rows []Contact
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&rows).Error
	return rows, err
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Contact, error) {
	var c Contact
	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts the given contacts for the user, skipping any whose email already
// exists (case-insensitive). Returns the inserted rows and the number skipped.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in []NewContact) ([]Contact, int, error) {
	if len(in) == 0 {
		return nil, 0, nil
	}

	emails := make([]string, 0, len(in))
	for _, nc := range in {
		emails = append(emails, strings.ToLower(strings.TrimSpace(nc.Email)))
	}

	var existing []string
	err := s.DB.WithContext(ctx).Model(&Contact{}).
		Where("user_id = ? AND lower(email) IN ?", userID, emails).
		Pluck("lower(email)", &existing).Error
	if err != nil {
		return nil, 0, err
	}

	fresh := FilterNew(in, existing)
	skipped := len(in) - len(fresh)
	if len(fresh) == 0 {
		return []Contact{}, skipped, nil
	}

	rows := make([]Contact, 0, len(fresh))
	now := time.Now()
	for _, nc := range fresh {
		rows = append(rows, Contact{
			ID:              uuid.New(),
			UserID:          userID,
			Name:            strings.TrimSpace(nc.Name),
			Email:           strings.TrimSpace(nc.Email),
			Phone:           nc.Phone,
			Title:           nc.Title,
			Company:         nc.Company,
			Website:         nc.Website,
			LinkedInURL:     nc.LinkedInURL,
			Twitter:         nc.Twitter,
			Facebook:        nc.Facebook,
			Country:         nc.Country,
			State:           nc.State,
			City:            nc.City,
			Markets:         pq.StringArray(nc.Markets),
			PastInvestments: nc.PastInvestments,
			Types:           nc.Types,
			Stages:          nc.Stages,
			Notes:           nc.Notes,
			ResearchStatus:  ResearchPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	if err := s.DB.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, skipped, nil
}

// FilterNew drops incoming contacts whose email matches an existing one
// (case-insensitive). Duplicates inside the incoming batch are dropped too.
func FilterNew(in []NewContact, existingEmails []string) []NewContact {
	seen := make(map[string]struct{}, len(existingEmails))
	for _, e := range existingEmails {
		seen[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}

	out := make([]NewContact, 0, len(in))
	for _, nc := range in {
		key := strings.ToLower(strings.TrimSpace(nc.Email))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, nc)
	}
	return out
}

// updateColumns translates a partial update into the column map Updates needs.
// Nil fields stay untouched; research data is marshalled into the jsonb column.
func updateColumns(up Update) (map[string]any, error) {
	updates := map[string]any{}
	setStr := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	setStr("name", up.Name)
	setStr("email", up.Email)
	setStr("phone", up.Phone)
	setStr("title", up.Title)
	setStr("company", up.Company)
	setStr("website", up.Website)
	setStr("linkedin_url", up.LinkedInURL)
	setStr("twitter", up.Twitter)
	setStr("facebook", up.Facebook)
	setStr("country", up.Country)
	setStr("state", up.State)
	setStr("city", up.City)
	setStr("past_investments", up.PastInvestments)
	setStr("types", up.Types)
	setStr("stages", up.Stages)
	setStr("notes", up.Notes)

	if up.Markets != nil {
		updates["markets"] = pq.StringArray(*up.Markets)
	}
	if up.ResearchStatus != nil {
		updates["research_status"] = *up.ResearchStatus
	}
	if up.ResearchData != nil {
		b, err := json.Marshal(up.ResearchData)
		if err != nil {
			return nil, err
		}
		updates["research_data"] = json.RawMessage(b)
	}
	return updates, nil
}

func (s *Service) Apply(ctx context.Context, userID, id uuid.UUID, up Update) (*Contact, error) {
	updates, err := updateColumns(up)
	if err != nil {
		return nil, err
	}
	updates["updated_at"] = time.Now()

	res := s.DB.WithContext(ctx).Model(&Contact{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
