package campaign

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"outreach/internal/contact"
)

var ErrNotFound = errors.New("not found")

// DefaultFollowUpDays are the follow-up offsets used when a campaign is created
// without explicit ones.
var DefaultFollowUpDays = []int{3, 6}

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	Name         string
	Description  string
	ContactIDs   []uuid.UUID
	FollowUpDays []int
}

// Overview is a campaign with send statistics derived from its schedules.
type Overview struct {
	Campaign
	TotalContacts int        `json:"total_contacts"`
	SentEmails    int        `json:"sent_emails"`
	PendingEmails int        `json:"pending_emails"`
	Schedules     []Schedule `json:"schedules"`
}

// BuildSchedules produces the full schedule fan-out for a new campaign: one
// initial row per contact at now, plus one follow_up_k row per offset per
// contact at now + offset days.
func BuildSchedules(campaignID, userID uuid.UUID, contactIDs []uuid.UUID, followUpDays []int, now time.Time) []Schedule {
	rows := make([]Schedule, 0, len(contactIDs)*(1+len(followUpDays)))
	for _, cid := range contactIDs {
		rows = append(rows, Schedule{
			ID:           uuid.New(),
			UserID:       userID,
			CampaignID:   campaignID,
			ContactID:    cid,
			EmailType:    EmailTypeInitial,
			ScheduledFor: now,
			Status:       SchedulePending,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		for i, days := range followUpDays {
			rows = append(rows, Schedule{
				ID:           uuid.New(),
				UserID:       userID,
				CampaignID:   campaignID,
				ContactID:    cid,
				EmailType:    FollowUpType(i + 1),
				ScheduledFor: now.AddDate(0, 0, days),
				Status:       SchedulePending,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
	}
	return rows
}

// Create inserts the campaign and its eager schedule fan-out in one transaction.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*Overview, error) {
	days := in.FollowUpDays
	if len(days) == 0 {
		days = DefaultFollowUpDays
	}

	now := time.Now()
	c := Campaign{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	rows := BuildSchedules(c.ID, userID, in.ContactIDs, days, now)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	return &Overview{
		Campaign:      c,
		TotalContacts: len(in.ContactIDs),
		SentEmails:    0,
		PendingEmails: len(rows),
		Schedules:     rows,
	}, nil
}

// List returns the user's campaigns newest-first, each with stats computed from
// its schedules.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Overview, error) {
	var cs []Campaign
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&cs).Error; err != nil {
		return nil, err
	}
	if len(cs) == 0 {
		return []Overview{}, nil
	}

	ids := make([]uuid.UUID, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}

	var schedules []Schedule
	if err := s.DB.WithContext(ctx).
		Where("campaign_id IN ?", ids).
		Order("scheduled_for asc").
		Find(&schedules).Error; err != nil {
		return nil, err
	}

	byCampaign := make(map[uuid.UUID][]Schedule, len(cs))
	for _, sc := range schedules {
		byCampaign[sc.CampaignID] = append(byCampaign[sc.CampaignID], sc)
	}

	out := make([]Overview, 0, len(cs))
	for _, c := range cs {
		out = append(out, buildOverview(c, byCampaign[c.ID]))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Overview, error) {
	var c Campaign
	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var schedules []Schedule
	if err := s.DB.WithContext(ctx).
		Where("campaign_id = ?", c.ID).
		Order("scheduled_for asc").
		Find(&schedules).Error; err != nil {
		return nil, err
	}

	ov := buildOverview(c, schedules)
	return &ov, nil
}

func buildOverview(c Campaign, schedules []Schedule) Overview {
	contacts := map[uuid.UUID]struct{}{}
	sent, pending := 0, 0
	for _, sc := range schedules {
		contacts[sc.ContactID] = struct{}{}
		switch sc.Status {
		case ScheduleSent:
			sent++
		case SchedulePending:
			pending++
		}
	}
	return Overview{
		Campaign:      c,
		TotalContacts: len(contacts),
		SentEmails:    sent,
		PendingEmails: pending,
		Schedules:     schedules,
	}
}

// CampaignUpdate carries a partial campaign update.
type CampaignUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *Status `json:"status"`
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, up CampaignUpdate) (*Campaign, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if up.Name != nil {
		updates["name"] = *up.Name
	}
	if up.Description != nil {
		updates["description"] = *up.Description
	}
	if up.Status != nil {
		updates["status"] = *up.Status
	}

	res := s.DB.WithContext(ctx).Model(&Campaign{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var c Campaign
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete removes the campaign and all of its schedules.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&Campaign{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("campaign_id = ?", id).Delete(&Schedule{}).Error
	})
}

// ScheduleFilter narrows a schedule listing.
type ScheduleFilter struct {
	CampaignID *uuid.UUID
	Status     *ScheduleStatus
	DueOnly    bool
	Now        time.Time
}

// ScheduleWithContact pairs a schedule with a summary of its contact.
type ScheduleWithContact struct {
	Schedule
	Contact *ContactSummary `json:"contact,omitempty"`
}

type ContactSummary struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Company string    `json:"company,omitempty"`
	Title   string    `json:"title,omitempty"`
}

func (s *Service) ListSchedules(ctx context.Context, userID uuid.UUID, f ScheduleFilter) ([]ScheduleWithContact, error) {
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID)
	if f.CampaignID != nil {
		q = q.Where("campaign_id = ?", *f.CampaignID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.DueOnly {
		now := f.Now
		if now.IsZero() {
			now = time.Now()
		}
		q = q.Where("scheduled_for <= ?", now)
	}

	var rows []Schedule
	if err := q.Order("scheduled_for asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	// batch-resolve contact summaries
	idSet := map[uuid.UUID]struct{}{}
	for _, r := range rows {
		idSet[r.ContactID] = struct{}{}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	contacts := map[uuid.UUID]ContactSummary{}
	if len(ids) > 0 {
		var cs []contact.Contact
		if err := s.DB.WithContext(ctx).
			Where("id IN ? AND user_id = ?", ids, userID).
			Find(&cs).Error; err != nil {
			return nil, err
		}
		for _, c := range cs {
			contacts[c.ID] = ContactSummary{
				ID:      c.ID,
				Name:    c.Name,
				Email:   c.Email,
				Company: c.Company,
				Title:   c.Title,
			}
		}
	}

	out := make([]ScheduleWithContact, 0, len(rows))
	for _, r := range rows {
		sw := ScheduleWithContact{Schedule: r}
		if c, ok := contacts[r.ContactID]; ok {
			sw.Contact = &c
		}
		out = append(out, sw)
	}
	return out, nil
}

type NewSchedule struct {
	CampaignID   uuid.UUID `json:"campaign_id"`
	ContactID    uuid.UUID `json:"contact_id"`
	EmailType    string    `json:"email_type"`
	ScheduledFor time.Time `json:"scheduled_for"`
	EmailSubject string    `json:"email_subject"`
	EmailBody    string    `json:"email_body"`
}

func (s *Service) CreateSchedule(ctx context.Context, userID uuid.UUID, in NewSchedule) (*Schedule, error) {
	// the campaign must belong to the caller
	var owned int64
	if err := s.DB.WithContext(ctx).Model(&Campaign{}).
		Where("id = ? AND user_id = ?", in.CampaignID, userID).
		Count(&owned).Error; err != nil {
		return nil, err
	}
	if owned == 0 {
		return nil, ErrNotFound
	}

	now := time.Now()
	row := Schedule{
		ID:           uuid.New(),
		UserID:       userID,
		CampaignID:   in.CampaignID,
		ContactID:    in.ContactID,
		EmailType:    in.EmailType,
		ScheduledFor: in.ScheduledFor,
		Status:       SchedulePending,
		EmailSubject: in.EmailSubject,
		EmailBody:    in.EmailBody,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ScheduleUpdate carries a partial schedule update.
type ScheduleUpdate struct {
	Status       *ScheduleStatus `json:"status"`
	EmailSubject *string         `json:"email_subject"`
	EmailBody    *string         `json:"email_body"`
	ScheduledFor *time.Time      `json:"scheduled_for"`
}

func (s *Service) UpdateSchedule(ctx context.Context, userID, id uuid.UUID, up ScheduleUpdate) (*Schedule, error) {
	updates := map[string]any{"updated_at": time.Now()}
	if up.Status != nil {
		updates["status"] = *up.Status
	}
	if up.EmailSubject != nil {
		updates["email_subject"] = *up.EmailSubject
	}
	if up.EmailBody != nil {
		updates["email_body"] = *up.EmailBody
	}
	if up.ScheduledFor != nil {
		updates["scheduled_for"] = *up.ScheduledFor
	}

	res := s.DB.WithContext(ctx).Model(&Schedule{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var row Schedule
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) DeleteSchedule(ctx context.Context, userID, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Schedule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
