package scheduler

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"outreach/internal/campaign"
	"outreach/internal/contact"
	"outreach/internal/content"
	"outreach/internal/history"
	"outreach/internal/mailer"
	"outreach/internal/profile"
)

// Store is the persistence surface the runner needs. ClaimDue must atomically
// move due pending rows to processing so overlapping runs never see the same
// row twice.
type Store interface {
	ClaimDue(ctx context.Context, now time.Time) ([]campaign.Schedule, error)
	FailStale(ctx context.Context, before time.Time) (int64, error)
	MarkSent(ctx context.Context, id uuid.UUID, subject, body string) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	ContactsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]contact.Contact, error)
	ProfilesByUser(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]profile.CompanyProfile, error)
	AppendHistory(ctx context.Context, e history.Entry) error
}

// Runner converts due schedule rows into sent (or failed) emails. One attempt
// per row per run; a failed row stays failed unless reset by hand.
type Runner struct {
	Store     Store
	Generator content.Generator
	Sender    mailer.Sender
	Now       func() time.Time
}

type ScheduleResult struct {
	ScheduleID  uuid.UUID               `json:"schedule_id"`
	ContactName string                  `json:"contact_name,omitempty"`
	Status      campaign.ScheduleStatus `json:"status"`
	MessageID   string                  `json:"message_id,omitempty"`
	Error       string                  `json:"error,omitempty"`
}

type RunResult struct {
	Processed int              `json:"processed"`
	Results   []ScheduleResult `json:"results"`
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// staleProcessingAfter bounds how long a claimed row may sit in processing
// before it is written off as failed. A crash between claim and mark leaves
// rows there; re-queueing them could double-send, so they fail instead and can
// be patched back to pending by hand.
const staleProcessingAfter = 10 * time.Minute

func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	now := r.now()

	if n, err := r.Store.FailStale(ctx, now.Add(-staleProcessingAfter)); err != nil {
		log.Printf("scheduler: stale sweep failed: %v\n", err)
	} else if n > 0 {
		log.Printf("scheduler: failed %d stalled schedules\n", n)
	}

	rows, err := r.Store.ClaimDue(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &RunResult{Processed: 0, Results: []ScheduleResult{}}, nil
	}

	contactIDs := make([]uuid.UUID, 0, len(rows))
	userIDs := make([]uuid.UUID, 0, len(rows))
	seenContacts := map[uuid.UUID]struct{}{}
	seenUsers := map[uuid.UUID]struct{}{}
	for _, row := range rows {
		if _, ok := seenContacts[row.ContactID]; !ok {
			seenContacts[row.ContactID] = struct{}{}
			contactIDs = append(contactIDs, row.ContactID)
		}
		if _, ok := seenUsers[row.UserID]; !ok {
			seenUsers[row.UserID] = struct{}{}
			userIDs = append(userIDs, row.UserID)
		}
	}

	contacts, err := r.Store.ContactsByID(ctx, contactIDs)
	if err != nil {
		return nil, err
	}
	profiles, err := r.Store.ProfilesByUser(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	out := &RunResult{Processed: len(rows), Results: make([]ScheduleResult, 0, len(rows))}
	for _, row := range rows {
		out.Results = append(out.Results, r.process(ctx, row, contacts, profiles))
	}
	return out, nil
}

func (r *Runner) process(
	ctx context.Context,
	row campaign.Schedule,
	contacts map[uuid.UUID]contact.Contact,
	profiles map[uuid.UUID]profile.CompanyProfile,
) ScheduleResult {
	c, ok := contacts[row.ContactID]
	if !ok {
		r.fail(ctx, row.ID, "contact not found")
		return ScheduleResult{ScheduleID: row.ID, Status: campaign.ScheduleFailed, Error: "contact not found"}
	}

	subject, body := row.EmailSubject, row.EmailBody
	if subject == "" || body == "" {
		p := profiles[row.UserID]
		email, err := r.Generator.Email(ctx, content.EmailInput{
			EmailType:          row.EmailType,
			Tone:               content.Tone(p.Tone),
			ContactName:        c.Name,
			ContactCompany:     c.Company,
			ContactTitle:       c.Title,
			InvestorFocus:      strings.Join(c.Markets, ", "),
			CompanyName:        p.Name,
			CompanyDescription: p.Description,
			FundingStage:       p.FundingStage,
			SenderName:         p.UserName,
			SenderPosition:     p.UserPosition,
			ResearchSummary:    researchSummary(c),
		})
		if err != nil {
			r.fail(ctx, row.ID, err.Error())
			return ScheduleResult{ScheduleID: row.ID, ContactName: c.Name, Status: campaign.ScheduleFailed, Error: err.Error()}
		}
		subject, body = email.Subject, email.Body
	}

	msgID, sendErr := r.Sender.Send(ctx, mailer.Message{
		To:      c.Email,
		Subject: subject,
		HTML: mailer.BuildHTML(body,
			"Sent via Investor Outreach Campaign",
			"Please reply directly to this email to respond to "+c.Name,
		),
	})

	// history records every attempt, success or failure
	entry := history.Entry{
		UserID:      row.UserID,
		ContactID:   &row.ContactID,
		To:          c.Email,
		ContactName: c.Name,
		Subject:     subject,
		Body:        body,
		Status:      "sent",
		MessageID:   msgID,
		SentAt:      r.now(),
	}
	if sendErr != nil {
		entry.Status = "failed"
		entry.MessageID = ""
	}
	if err := r.Store.AppendHistory(ctx, entry); err != nil {
		log.Printf("scheduler: history append failed for %s: %v\n", row.ID, err)
	}

	if sendErr != nil {
		r.fail(ctx, row.ID, sendErr.Error())
		return ScheduleResult{ScheduleID: row.ID, ContactName: c.Name, Status: campaign.ScheduleFailed, Error: sendErr.Error()}
	}

	if err := r.Store.MarkSent(ctx, row.ID, subject, body); err != nil {
		log.Printf("scheduler: mark sent failed for %s: %v\n", row.ID, err)
	}
	return ScheduleResult{ScheduleID: row.ID, ContactName: c.Name, Status: campaign.ScheduleSent, MessageID: msgID}
}

func (r *Runner) fail(ctx context.Context, id uuid.UUID, reason string) {
	if err := r.Store.MarkFailed(ctx, id, reason); err != nil {
		log.Printf("scheduler: mark failed failed for %s: %v\n", id, err)
	}
}

func researchSummary(c contact.Contact) string {
	if len(c.ResearchData) == 0 {
		return ""
	}
	var rd contact.ResearchData
	if err := json.Unmarshal(c.ResearchData, &rd); err != nil {
		return ""
	}
	return rd.Summary
}
