package scheduler_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outreach/internal/campaign"
	"outreach/internal/contact"
	"outreach/internal/content"
	"outreach/internal/history"
	"outreach/internal/mailer"
	"outreach/internal/profile"
	"outreach/internal/scheduler"
)

// memStore keeps schedules in memory and mimics the atomic claim: a row is
// handed out once and never re-selected after it leaves pending.
type memStore struct {
	mu        sync.Mutex
	schedules map[uuid.UUID]*campaign.Schedule
	contacts  map[uuid.UUID]contact.Contact
	profiles  map[uuid.UUID]profile.CompanyProfile
	history   []history.Entry
}

func newMemStore() *memStore {
	return &memStore{
		schedules: map[uuid.UUID]*campaign.Schedule{},
		contacts:  map[uuid.UUID]contact.Contact{},
		profiles:  map[uuid.UUID]profile.CompanyProfile{},
	}
}

func (s *memStore) ClaimDue(_ context.Context, now time.Time) ([]campaign.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []campaign.Schedule
	for _, row := range s.schedules {
		if row.Status == campaign.SchedulePending && !row.ScheduledFor.After(now) {
			row.Status = campaign.ScheduleProcessing
			row.UpdatedAt = now
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor.Before(out[j].ScheduledFor) })
	return out, nil
}

func (s *memStore) FailStale(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, row := range s.schedules {
		if row.Status == campaign.ScheduleProcessing && row.UpdatedAt.Before(before) {
			row.Status = campaign.ScheduleFailed
			row.LastError = "processing timed out"
			n++
		}
	}
	return n, nil
}

func (s *memStore) MarkSent(_ context.Context, id uuid.UUID, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.schedules[id]
	row.Status = campaign.ScheduleSent
	row.EmailSubject = subject
	row.EmailBody = body
	return nil
}

func (s *memStore) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.schedules[id]
	row.Status = campaign.ScheduleFailed
	row.LastError = reason
	return nil
}

func (s *memStore) ContactsByID(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]contact.Contact, error) {
	out := map[uuid.UUID]contact.Contact{}
	for _, id := range ids {
		if c, ok := s.contacts[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (s *memStore) ProfilesByUser(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]profile.CompanyProfile, error) {
	out := map[uuid.UUID]profile.CompanyProfile{}
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *memStore) AppendHistory(_ context.Context, e history.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, e)
	return nil
}

type stubSender struct {
	mu    sync.Mutex
	sent  []mailer.Message
	fails map[string]bool // by recipient
}

func (s *stubSender) Send(_ context.Context, m mailer.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fails[m.To] {
		return "", fmt.Errorf("provider rejected")
	}
	s.sent = append(s.sent, m)
	return fmt.Sprintf("msg-%d", len(s.sent)), nil
}

type stubGenerator struct {
	err error
}

func (g stubGenerator) Email(_ context.Context, in content.EmailInput) (content.Email, error) {
	if g.err != nil {
		return content.Email{}, g.err
	}
	return content.Email{Subject: "gen subject " + in.EmailType, Body: "gen body for " + in.ContactName}, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func seedSchedule(store *memStore, userID uuid.UUID, c contact.Contact, emailType string, due time.Time) uuid.UUID {
	id := uuid.New()
	store.contacts[c.ID] = c
	store.schedules[id] = &campaign.Schedule{
		ID:           id,
		UserID:       userID,
		CampaignID:   uuid.New(),
		ContactID:    c.ID,
		EmailType:    emailType,
		ScheduledFor: due,
		Status:       campaign.SchedulePending,
	}
	return id
}

func TestRunSendsDueSchedules(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	store.profiles[userID] = profile.CompanyProfile{
		UserID: userID, Name: "Acme", Description: "We build acmes",
		UserName: "Ada", UserPosition: "CEO",
	}

	jane := contact.Contact{ID: uuid.New(), UserID: userID, Name: "Jane", Email: "jane@x.com"}
	due := seedSchedule(store, userID, jane, campaign.EmailTypeInitial, fixedNow().Add(-time.Hour))
	seedSchedule(store, userID, jane, campaign.FollowUpType(1), fixedNow().Add(48*time.Hour)) // not due

	sender := &stubSender{}
	r := &scheduler.Runner{Store: store, Generator: stubGenerator{}, Sender: sender, Now: fixedNow}

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)
	require.Len(t, res.Results, 1)

	assert.Equal(t, campaign.ScheduleSent, res.Results[0].Status)
	assert.Equal(t, "Jane", res.Results[0].ContactName)
	assert.NotEmpty(t, res.Results[0].MessageID)

	row := store.schedules[due]
	assert.Equal(t, campaign.ScheduleSent, row.Status)
	assert.Equal(t, "gen subject initial", row.EmailSubject)
	assert.Equal(t, "gen body for Jane", row.EmailBody)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "jane@x.com", sender.sent[0].To)

	require.Len(t, store.history, 1)
	assert.Equal(t, "sent", store.history[0].Status)
	assert.Equal(t, userID, store.history[0].UserID)
}

func TestRunKeepsPresetContent(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	c := contact.Contact{ID: uuid.New(), UserID: userID, Name: "Bo", Email: "bo@x.com"}
	id := seedSchedule(store, userID, c, campaign.EmailTypeInitial, fixedNow().Add(-time.Minute))
	store.schedules[id].EmailSubject = "preset subject"
	store.schedules[id].EmailBody = "preset body"

	sender := &stubSender{}
	r := &scheduler.Runner{Store: store, Generator: stubGenerator{err: fmt.Errorf("must not be called")}, Sender: sender, Now: fixedNow}

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)
	assert.Equal(t, campaign.ScheduleSent, res.Results[0].Status)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "preset subject", sender.sent[0].Subject)
}

func TestRunMarksFailedAndContinues(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()

	bad := contact.Contact{ID: uuid.New(), UserID: userID, Name: "Bad", Email: "bad@x.com"}
	good := contact.Contact{ID: uuid.New(), UserID: userID, Name: "Good", Email: "good@x.com"}
	badID := seedSchedule(store, userID, bad, campaign.EmailTypeInitial, fixedNow().Add(-2*time.Hour))
	goodID := seedSchedule(store, userID, good, campaign.EmailTypeInitial, fixedNow().Add(-time.Hour))

	sender := &stubSender{fails: map[string]bool{"bad@x.com": true}}
	r := &scheduler.Runner{Store: store, Generator: stubGenerator{}, Sender: sender, Now: fixedNow}

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.Processed)

	// rows processed ascending by due time: bad first, then good
	assert.Equal(t, campaign.ScheduleFailed, res.Results[0].Status)
	assert.Contains(t, res.Results[0].Error, "provider rejected")
	assert.Equal(t, campaign.ScheduleSent, res.Results[1].Status)

	assert.Equal(t, campaign.ScheduleFailed, store.schedules[badID].Status)
	assert.Equal(t, campaign.ScheduleSent, store.schedules[goodID].Status)

	// history is written for both attempts
	require.Len(t, store.history, 2)
	assert.Equal(t, "failed", store.history[0].Status)
	assert.Equal(t, "sent", store.history[1].Status)
}

func TestRunGeneratorErrorFailsRow(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	c := contact.Contact{ID: uuid.New(), UserID: userID, Name: "Jane", Email: "jane@x.com"}
	id := seedSchedule(store, userID, c, campaign.FollowUpType(2), fixedNow().Add(-time.Minute))

	sender := &stubSender{}
	r := &scheduler.Runner{Store: store, Generator: stubGenerator{err: fmt.Errorf("model unavailable")}, Sender: sender, Now: fixedNow}

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)
	assert.Equal(t, campaign.ScheduleFailed, res.Results[0].Status)
	assert.Equal(t, campaign.ScheduleFailed, store.schedules[id].Status)
	assert.Empty(t, sender.sent)
}

func TestRunMissingContactFailsRow(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	id := uuid.New()
	store.schedules[id] = &campaign.Schedule{
		ID:           id,
		UserID:       userID,
		CampaignID:   uuid.New(),
		ContactID:    uuid.New(), // never registered
		EmailType:    campaign.EmailTypeInitial,
		ScheduledFor: fixedNow().Add(-time.Minute),
		Status:       campaign.SchedulePending,
	}

	r := &scheduler.Runner{Store: store, Generator: stubGenerator{}, Sender: &stubSender{}, Now: fixedNow}

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Processed)
	assert.Equal(t, campaign.ScheduleFailed, res.Results[0].Status)
	assert.Equal(t, "contact not found", store.schedules[id].LastError)
}

func TestRunFailsStalledProcessingRows(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	c := contact.Contact{ID: uuid.New(), UserID: userID, Name: "Jane", Email: "jane@x.com"}

	// a claim that crashed an hour ago: stuck in processing, never marked
	stuck := seedSchedule(store, userID, c, campaign.EmailTypeInitial, fixedNow().Add(-2*time.Hour))
	store.schedules[stuck].Status = campaign.ScheduleProcessing
	store.schedules[stuck].UpdatedAt = fixedNow().Add(-time.Hour)

	// a freshly claimed row must survive the sweep
	fresh := seedSchedule(store, userID, c, campaign.FollowUpType(1), fixedNow().Add(-time.Minute))
	store.schedules[fresh].Status = campaign.ScheduleProcessing
	store.schedules[fresh].UpdatedAt = fixedNow().Add(-time.Minute)

	sender := &stubSender{}
	r := &scheduler.Runner{Store: store, Generator: stubGenerator{}, Sender: sender, Now: fixedNow}

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed) // neither row is pending, nothing to claim

	assert.Equal(t, campaign.ScheduleFailed, store.schedules[stuck].Status)
	assert.Equal(t, "processing timed out", store.schedules[stuck].LastError)
	assert.Equal(t, campaign.ScheduleProcessing, store.schedules[fresh].Status)
	assert.Empty(t, sender.sent)
}

func TestRunDoesNotReselectTerminalRows(t *testing.T) {
	store := newMemStore()
	userID := uuid.New()
	c := contact.Contact{ID: uuid.New(), UserID: userID, Name: "Jane", Email: "jane@x.com"}
	seedSchedule(store, userID, c, campaign.EmailTypeInitial, fixedNow().Add(-time.Hour))

	sender := &stubSender{}
	r := &scheduler.Runner{Store: store, Generator: stubGenerator{}, Sender: sender, Now: fixedNow}

	first, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.Processed)

	second, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
	assert.Len(t, sender.sent, 1)
}
