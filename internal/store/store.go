// Package store persists draft registrations: which channel a draft
// reports to and how far into the pick feed we have already notified.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var ErrNotRegistered = errors.New("draft not registered")

// Registration binds a draft to a destination channel.
// LastKnownPickCount only moves forward, and only after every
// notification derived from a cycle has been delivered.
type Registration struct {
	DraftID            string `gorm:"primaryKey"`
	ChannelID          string `gorm:"not null"`
	LastKnownPickCount int    `gorm:"not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Registrations struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the registrations table.
func Open(dsn string) (*Registrations, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return New(db)
}

func New(db *gorm.DB) (*Registrations, error) {
	if err := db.AutoMigrate(&Registration{}); err != nil {
		return nil, fmt.Errorf("migrate registrations: %w", err)
	}
	return &Registrations{db: db}, nil
}

func (r *Registrations) Get(ctx context.Context, draftID string) (Registration, error) {
	var reg Registration
	err := r.db.WithContext(ctx).First(&reg, "draft_id = ?", draftID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Registration{}, fmt.Errorf("get %s: %w", draftID, ErrNotRegistered)
	}
	if err != nil {
		return Registration{}, fmt.Errorf("get %s: %w", draftID, err)
	}
	return reg, nil
}

func (r *Registrations) List(ctx context.Context) ([]Registration, error) {
	var regs []Registration
	if err := r.db.WithContext(ctx).Order("draft_id").Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

// Upsert registers a draft, replacing the channel and progress of an
// existing registration for the same draft.
func (r *Registrations) Upsert(ctx context.Context, reg Registration) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "draft_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"channel_id", "last_known_pick_count", "updated_at"}),
	}).Create(&reg).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", reg.DraftID, err)
	}
	return nil
}

func (r *Registrations) SetLastKnownCount(ctx context.Context, draftID string, count int) error {
	res := r.db.WithContext(ctx).Model(&Registration{}).
		Where("draft_id = ?", draftID).
		Update("last_known_pick_count", count)
	if res.Error != nil {
		return fmt.Errorf("set count %s: %w", draftID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("set count %s: %w", draftID, ErrNotRegistered)
	}
	return nil
}

func (r *Registrations) Delete(ctx context.Context, draftID string) error {
	res := r.db.WithContext(ctx).Delete(&Registration{}, "draft_id = ?", draftID)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", draftID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s: %w", draftID, ErrNotRegistered)
	}
	return nil
}
