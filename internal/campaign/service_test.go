package campaign

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchedulesFanOut(t *testing.T) {
	campaignID := uuid.New()
	userID := uuid.New()
	contacts := []uuid.UUID{uuid.New(), uuid.New()}
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	rows := BuildSchedules(campaignID, userID, contacts, []int{3, 6}, now)

	// one initial plus one row per offset, per contact
	require.Len(t, rows, 6)

	byContact := map[uuid.UUID][]Schedule{}
	for _, r := range rows {
		assert.Equal(t, campaignID, r.CampaignID)
		assert.Equal(t, userID, r.UserID)
		assert.Equal(t, SchedulePending, r.Status)
		byContact[r.ContactID] = append(byContact[r.ContactID], r)
	}
	require.Len(t, byContact, 2)

	for _, cid := range contacts {
		got := byContact[cid]
		require.Len(t, got, 3)
		assert.Equal(t, EmailTypeInitial, got[0].EmailType)
		assert.True(t, got[0].ScheduledFor.Equal(now))
		assert.Equal(t, "follow_up_1", got[1].EmailType)
		assert.True(t, got[1].ScheduledFor.Equal(now.AddDate(0, 0, 3)))
		assert.Equal(t, "follow_up_2", got[2].EmailType)
		assert.True(t, got[2].ScheduledFor.Equal(now.AddDate(0, 0, 6)))
	}
}

func TestBuildSchedulesNoContacts(t *testing.T) {
	rows := BuildSchedules(uuid.New(), uuid.New(), nil, []int{3, 6}, time.Now())
	assert.Empty(t, rows)
}

func TestFollowUpIndex(t *testing.T) {
	cases := []struct {
		emailType string
		want      int
		ok        bool
	}{
		{"follow_up_1", 1, true},
		{"follow_up_2", 2, true},
		{"follow_up_12", 12, true},
		{"initial", 0, false},
		{"follow_up_", 0, false},
		{"follow_up_0", 0, false},
		{"follow_up_x", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		n, ok := FollowUpIndex(tc.emailType)
		assert.Equal(t, tc.ok, ok, tc.emailType)
		assert.Equal(t, tc.want, n, tc.emailType)
	}
}

func TestBuildOverviewStats(t *testing.T) {
	c := Campaign{ID: uuid.New()}
	a, b := uuid.New(), uuid.New()
	schedules := []Schedule{
		{ContactID: a, Status: ScheduleSent},
		{ContactID: a, Status: SchedulePending},
		{ContactID: a, Status: SchedulePending},
		{ContactID: b, Status: ScheduleFailed},
	}

	ov := buildOverview(c, schedules)
	assert.Equal(t, 2, ov.TotalContacts)
	assert.Equal(t, 1, ov.SentEmails)
	assert.Equal(t, 2, ov.PendingEmails)
	assert.Len(t, ov.Schedules, 4)
}
