package campaign

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

type ScheduleStatus string

const (
	SchedulePending ScheduleStatus = "pending"
	// ScheduleProcessing is the transient claim state; rows never rest here.
	ScheduleProcessing ScheduleStatus = "processing"
	ScheduleSent       ScheduleStatus = "sent"
	ScheduleFailed     ScheduleStatus = "failed"
	ScheduleCancelled  ScheduleStatus = "cancelled"
)

const EmailTypeInitial = "initial"

const followUpPrefix = "follow_up_"

func FollowUpType(k int) string {
	return fmt.Sprintf("%s%d", followUpPrefix, k)
}

// FollowUpIndex returns N for an email type of the form follow_up_N.
func FollowUpIndex(emailType string) (int, bool) {
	if !strings.HasPrefix(emailType, followUpPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(emailType, followUpPrefix))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

type Campaign struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description,omitempty"`
	Status      Status `gorm:"not null;default:'draft'" json:"status"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

// Schedule is one planned email send: one contact, one campaign, one email type,
// one due time. Exactly one row per (campaign, contact, email type).
type Schedule struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CampaignID uuid.UUID `gorm:"type:uuid;index;not null" json:"campaign_id"`
	ContactID  uuid.UUID `gorm:"type:uuid;index;not null" json:"contact_id"`

	EmailType    string         `gorm:"not null" json:"email_type"`
	ScheduledFor time.Time      `gorm:"not null" json:"scheduled_for"`
	Status       ScheduleStatus `gorm:"not null;default:'pending'" json:"status"`

	EmailSubject string `json:"email_subject,omitempty"`
	EmailBody    string `gorm:"type:text" json:"email_body,omitempty"`
	LastError    string `json:"last_error,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Schedule) TableName() string { return "campaign_schedules" }
