package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"outreach/internal/campaign"
	"outreach/internal/contact"
	"outreach/internal/history"
	"outreach/internal/profile"
)

// GormStore is the Postgres-backed Store.
type GormStore struct {
	DB *gorm.DB
}

// ClaimDue atomically flips every due pending row to processing and returns
// the claimed set. FOR UPDATE SKIP LOCKED ensures overlapping runs never claim
// the same row.
func (s *GormStore) ClaimDue(ctx context.Context, now time.Time) ([]campaign.Schedule, error) {
	var rows []campaign.Schedule
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Raw(`
with due as (
  select id
  from campaign_schedules
  where status = 'pending' and scheduled_for <= ?
  order by scheduled_for asc
  for update skip locked
)
update campaign_schedules
set status = 'processing', updated_at = now()
where id in (select id from due)
returning *;
`, now).Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	// RETURNING does not preserve the select order
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ScheduledFor.Before(rows[j].ScheduledFor)
	})
	return rows, nil
}

// FailStale writes off processing rows untouched since before the cutoff.
// Such rows come from a crash between claim and mark; re-queueing them could
// double-send, so they become failed and need a manual patch to run again.
func (s *GormStore) FailStale(ctx context.Context, before time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&campaign.Schedule{}).
		Where("status = ? AND updated_at < ?", campaign.ScheduleProcessing, before).
		Updates(map[string]any{
			"status":     campaign.ScheduleFailed,
			"last_error": "processing timed out",
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (s *GormStore) MarkSent(ctx context.Context, id uuid.UUID, subject, body string) error {
	return s.DB.WithContext(ctx).Model(&campaign.Schedule{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        campaign.ScheduleSent,
			"email_subject": subject,
			"email_body":    body,
			"last_error":    "",
			"updated_at":    time.Now(),
		}).Error
}

func (s *GormStore) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return s.DB.WithContext(ctx).Model(&campaign.Schedule{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     campaign.ScheduleFailed,
			"last_error": reason,
			"updated_at": time.Now(),
		}).Error
}

func (s *GormStore) ContactsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]contact.Contact, error) {
	out := make(map[uuid.UUID]contact.Contact, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []contact.Contact
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

func (s *GormStore) ProfilesByUser(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]profile.CompanyProfile, error) {
	out := make(map[uuid.UUID]profile.CompanyProfile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []profile.CompanyProfile
	if err := s.DB.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.UserID] = p
	}
	return out, nil
}

func (s *GormStore) AppendHistory(ctx context.Context, e history.Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return s.DB.WithContext(ctx).Create(&e).Error
}

var _ Store = (*GormStore)(nil)
