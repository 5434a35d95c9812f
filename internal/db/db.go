package db

import (
	"fmt"

	"outreach/internal/auth"
	"outreach/internal/campaign"
	"outreach/internal/contact"
	"outreach/internal/draft"
	"outreach/internal/history"
	"outreach/internal/profile"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// uuid defaults need pgcrypto
	if err := gdb.Exec(`create extension if not exists pgcrypto;`).Error; err != nil {
		return err
	}

	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&contact.Contact{},
		&campaign.Campaign{},
		&campaign.Schedule{},
		&profile.CompanyProfile{},
		&history.Entry{},
		&draft.Draft{},
	); err != nil {
		return err
	}

	// One contact per email per user, case-insensitive
	if err := gdb.Exec(`create unique index if not exists uq_investors_user_email on investors(user_id, lower(email));`).Error; err != nil {
		return err
	}

	// Exactly one schedule row per (campaign, contact, email type)
	if err := gdb.Exec(`create unique index if not exists uq_schedules_campaign_contact_type on campaign_schedules(campaign_id, contact_id, email_type);`).Error; err != nil {
		return err
	}

	// Draft upsert key
	if err := gdb.Exec(`create unique index if not exists uq_drafts_user_contact on email_drafts(user_id, contact_id);`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_schedules_due on campaign_schedules(status, scheduled_for);`,
		`create index if not exists idx_schedules_campaign on campaign_schedules(campaign_id, status);`,
		`create index if not exists idx_history_user_sent on email_history(user_id, sent_at desc);`,
		`create index if not exists idx_investors_user_created on investors(user_id, created_at desc);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
