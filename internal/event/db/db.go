package db

import (
	"context"
	"giftwall/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- EVENTS ----------------

// GetEventByID → fetch one event by its public identifier
func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("event_id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventByManageID → fetch one event by its management capability token
func (d *DB) GetEventByManageID(ctx context.Context, manageID string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("manage_id = ?", manageID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateEvent → insert new event
func (d *DB) CreateEvent(ctx context.Context, event models.Event) error {
	_, err := d.Bun.NewInsert().Model(&event).Exec(ctx)
	return err
}

// UpdateEvent → update organizer-editable fields only
func (d *DB) UpdateEvent(ctx context.Context, event models.Event) error {
	_, err := d.Bun.NewUpdate().
		Model(&event).
		Column("title", "description", "final_message", "is_closed").
		Where("event_id = ?", event.EventID).
		Exec(ctx)
	return err
}

// ---------------- GREETINGS ----------------

// GetGreetingsByEvent → fetch all greetings for an event, newest first
func (d *DB) GetGreetingsByEvent(ctx context.Context, eventID string) ([]models.Greeting, error) {
	var greetings []models.Greeting
	err := d.Bun.NewSelect().
		Model(&greetings).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return greetings, nil
}

// InsertGreeting → insert new greeting; greetings are immutable after insert
func (d *DB) InsertGreeting(ctx context.Context, greeting models.Greeting) error {
	_, err := d.Bun.NewInsert().Model(&greeting).Exec(ctx)
	return err
}
