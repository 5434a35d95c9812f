package contact

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ResearchStatus is the pipeline stage a contact occupies.
type ResearchStatus string

const (
	ResearchPending   ResearchStatus = "pending"
	ResearchRunning   ResearchStatus = "researching"
	ResearchCompleted ResearchStatus = "completed"
	ResearchFailed    ResearchStatus = "failed"
	ReadyForEmail     ResearchStatus = "ready_for_email"
	EmailSent         ResearchStatus = "email_sent"
)

// ResearchData is the jsonb payload stored on a contact after research.
type ResearchData struct {
	Summary           string     `json:"summary,omitempty"`
	Insights          string     `json:"insights,omitempty"`
	FocusAreas        []string   `json:"focus_areas,omitempty"`
	RecentInvestments []string   `json:"recent_investments,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// Contact is an outreach target (an investor).
type Contact struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"not null" json:"email"`

	Phone       string `json:"phone,omitempty"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Website     string `json:"website,omitempty"`
	LinkedInURL string `gorm:"column:linkedin_url" json:"linkedin,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
	Facebook    string `json:"facebook,omitempty"`
	Country     string `json:"country,omitempty"`
	State       string `json:"state,omitempty"`
	City        string `json:"city,omitempty"`

	Markets         pq.StringArray `gorm:"type:text[]" json:"markets,omitempty"`
	PastInvestments string         `json:"past_investments,omitempty"`
	Types           string         `json:"types,omitempty"`
	Stages          string         `json:"stages,omitempty"`
	Notes           string         `json:"notes,omitempty"`

	ResearchStatus ResearchStatus  `gorm:"not null;default:'pending'" json:"research_status"`
	ResearchData   json.RawMessage `gorm:"type:jsonb" json:"research_data,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Contact) TableName() string { return "investors" }
