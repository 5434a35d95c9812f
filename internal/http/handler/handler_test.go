package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
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

type fakeSender struct {
	called bool
}

func (s *fakeSender) Send(_ context.Context, _ mailer.Message) (string, error) {
	s.called = true
	return "msg_1", nil
}

func TestSendRejectsInvalidAddressBeforeProvider(t *testing.T) {
	sender := &fakeSender{}
	h := &SendHandler{Sender: sender}

	body := `{"to":"not-an-email","subject":"Hi","body":"Hello"}`
	rec := httptest.NewRecorder()
	h.Send(rec, httptest.NewRequest(http.MethodPost, "/emails/send", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, sender.called)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "invalid email address", resp["error"])
}

func TestSendRejectsMissingFields(t *testing.T) {
	sender := &fakeSender{}
	h := &SendHandler{Sender: sender}

	rec := httptest.NewRecorder()
	h.Send(rec, httptest.NewRequest(http.MethodPost, "/emails/send", strings.NewReader(`{"to":"a@b.co"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, sender.called)
}

type fakeGenerator struct{}

func (fakeGenerator) Email(_ context.Context, in content.EmailInput) (content.Email, error) {
	return content.Email{Subject: "s", Body: "b for " + in.ContactName}, nil
}

func (fakeGenerator) Subject(_ context.Context, _ content.EmailInput) (string, error) {
	return "just a subject", nil
}

func TestGenerateEmailValidation(t *testing.T) {
	h := &GenerateHandler{Gen: fakeGenerator{}}

	rec := httptest.NewRecorder()
	h.Email(rec, httptest.NewRequest(http.MethodPost, "/generate/email", strings.NewReader(`{"contact_name":"Jane"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	full := `{"contact_name":"Jane","company_name":"Acme","company_description":"d","user_name":"Ada","user_position":"CEO"}`
	rec = httptest.NewRecorder()
	h.Email(rec, httptest.NewRequest(http.MethodPost, "/generate/email", strings.NewReader(full)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Email   struct {
			Subject string `json:"subject"`
			Body    string `json:"body"`
		} `json:"email"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "b for Jane", resp.Email.Body)
}

func TestGenerateSubjectValidation(t *testing.T) {
	h := &GenerateHandler{Gen: fakeGenerator{}}

	rec := httptest.NewRecorder()
	h.Subject(rec, httptest.NewRequest(http.MethodPost, "/generate/subject", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Subject(rec, httptest.NewRequest(http.MethodPost, "/generate/subject",
		strings.NewReader(`{"contact_name":"Jane","company_name":"Acme"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

type fakeScheduleService struct {
	createErr error
}

func (f *fakeScheduleService) ListSchedules(_ context.Context, _ uuid.UUID, _ campaign.ScheduleFilter) ([]campaign.ScheduleWithContact, error) {
	return nil, nil
}

func (f *fakeScheduleService) CreateSchedule(_ context.Context, userID uuid.UUID, in campaign.NewSchedule) (*campaign.Schedule, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &campaign.Schedule{
		ID:           uuid.New(),
		UserID:       userID,
		CampaignID:   in.CampaignID,
		ContactID:    in.ContactID,
		EmailType:    in.EmailType,
		ScheduledFor: in.ScheduledFor,
		Status:       campaign.SchedulePending,
	}, nil
}

func (f *fakeScheduleService) UpdateSchedule(_ context.Context, _, _ uuid.UUID, _ campaign.ScheduleUpdate) (*campaign.Schedule, error) {
	return nil, campaign.ErrNotFound
}

func (f *fakeScheduleService) DeleteSchedule(_ context.Context, _, _ uuid.UUID) error {
	return campaign.ErrNotFound
}

func scheduleBody(campaignID, contactID uuid.UUID) string {
	return `{"campaign_id":"` + campaignID.String() + `","contact_id":"` + contactID.String() +
		`","email_type":"initial","scheduled_for":"2025-06-01T12:00:00Z"}`
}

func TestCreateScheduleUnknownCampaign(t *testing.T) {
	// a campaign id the caller does not own reads as not found
	h := &ScheduleHandler{Svc: &fakeScheduleService{createErr: campaign.ErrNotFound}}

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/schedules",
		strings.NewReader(scheduleBody(uuid.New(), uuid.New()))))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "campaign not found")
}

func TestCreateScheduleOK(t *testing.T) {
	h := &ScheduleHandler{Svc: &fakeScheduleService{}}

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/schedules",
		strings.NewReader(scheduleBody(uuid.New(), uuid.New()))))

	require.Equal(t, http.StatusCreated, rec.Code)

	var row campaign.Schedule
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&row))
	assert.Equal(t, campaign.SchedulePending, row.Status)
	assert.Equal(t, "initial", row.EmailType)
}

// emptyStore satisfies scheduler.Store with nothing due.
type emptyStore struct{}

func (emptyStore) ClaimDue(context.Context, time.Time) ([]campaign.Schedule, error) {
	return nil, nil
}
func (emptyStore) FailStale(context.Context, time.Time) (int64, error) { return 0, nil }
func (emptyStore) MarkSent(context.Context, uuid.UUID, string, string) error { return nil }
func (emptyStore) MarkFailed(context.Context, uuid.UUID, string) error       { return nil }
func (emptyStore) ContactsByID(context.Context, []uuid.UUID) (map[uuid.UUID]contact.Contact, error) {
	return nil, nil
}
func (emptyStore) ProfilesByUser(context.Context, []uuid.UUID) (map[uuid.UUID]profile.CompanyProfile, error) {
	return nil, nil
}
func (emptyStore) AppendHistory(context.Context, history.Entry) error { return nil }

func TestSchedulerRunTokenGuard(t *testing.T) {
	h := &SchedulerHandler{
		Runner: &scheduler.Runner{Store: emptyStore{}, Generator: content.Templates{}, Sender: &fakeSender{}},
		Token:  "cron-secret",
	}

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodPost, "/scheduler/run", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/scheduler/run", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	h.Run(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/scheduler/run", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	h.Run(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res scheduler.RunResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Zero(t, res.Processed)
}
