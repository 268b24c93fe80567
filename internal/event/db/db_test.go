package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"giftwall/internal/event/db"
	"giftwall/internal/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open SQLite: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	if err := bunDB.ResetModel(ctx, (*models.Event)(nil)); err != nil {
		t.Fatalf("Failed to create events table: %v", err)
	}
	if err := bunDB.ResetModel(ctx, (*models.Greeting)(nil)); err != nil {
		t.Fatalf("Failed to create greetings table: %v", err)
	}

	t.Cleanup(func() { bunDB.Close() })
	return &db.DB{Bun: bunDB}
}

func sampleEvent() models.Event {
	return models.Event{
		EventID:      "abc123",
		ManageID:     "manage7890",
		Title:        "Sarah's Farewell Gift",
		Description:  "Chipping in for Sarah's send-off",
		EventType:    "farewell",
		UpiID:        "sarah@upi",
		TargetAmount: 5000,
		CreatedAt:    time.Now().Round(time.Second),
	}
}

func TestCreateAndGetEvent(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	event := sampleEvent()
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	retrieved, err := store.GetEventByID(ctx, "abc123")
	if err != nil {
		t.Fatalf("Failed to retrieve event: %v", err)
	}

	if retrieved.EventID != event.EventID {
		t.Errorf("Expected event ID %s, got %s", event.EventID, retrieved.EventID)
	}
	if retrieved.Title != event.Title {
		t.Errorf("Expected title %s, got %s", event.Title, retrieved.Title)
	}
	if retrieved.UpiID != event.UpiID {
		t.Errorf("Expected UPI id %s, got %s", event.UpiID, retrieved.UpiID)
	}
	if retrieved.TargetAmount != event.TargetAmount {
		t.Errorf("Expected target amount %f, got %f", event.TargetAmount, retrieved.TargetAmount)
	}
}

func TestGetEventByIDNotFound(t *testing.T) {
	store := setupTestDB(t)

	_, err := store.GetEventByID(context.Background(), "missing")
	if err == nil {
		t.Fatal("Expected error for missing event, got nil")
	}
}

func TestGetEventByManageID(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	event := sampleEvent()
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	retrieved, err := store.GetEventByManageID(ctx, "manage7890")
	if err != nil {
		t.Fatalf("Failed to retrieve event by manage id: %v", err)
	}
	if retrieved.EventID != "abc123" {
		t.Errorf("Expected event ID abc123, got %s", retrieved.EventID)
	}

	if _, err := store.GetEventByManageID(ctx, "wrong-token"); err == nil {
		t.Error("Expected error for unknown manage id, got nil")
	}
}

func TestUpdateEvent(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	event := sampleEvent()
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	event.Title = "Sarah's Big Farewell"
	event.FinalMessage = "Thank you all!"
	event.IsClosed = true

	if err := store.UpdateEvent(ctx, event); err != nil {
		t.Fatalf("Failed to update event: %v", err)
	}

	retrieved, err := store.GetEventByID(ctx, "abc123")
	if err != nil {
		t.Fatalf("Failed to retrieve event: %v", err)
	}
	if retrieved.Title != "Sarah's Big Farewell" {
		t.Errorf("Expected updated title, got %s", retrieved.Title)
	}
	if retrieved.FinalMessage != "Thank you all!" {
		t.Errorf("Expected final message, got %s", retrieved.FinalMessage)
	}
	if !retrieved.IsClosed {
		t.Error("Expected event to be closed")
	}
	// UpdateEvent must not touch the UPI id
	if retrieved.UpiID != "sarah@upi" {
		t.Errorf("UPI id changed unexpectedly: %s", retrieved.UpiID)
	}
}

func TestInsertAndListGreetingsNewestFirst(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	event := sampleEvent()
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	base := time.Now().Round(time.Second)
	greetings := []models.Greeting{
		{ID: "g1", EventID: "abc123", Name: "A", Message: "Happy trails", Amount: 100, CreatedAt: base.Add(-2 * time.Hour)},
		{ID: "g2", EventID: "abc123", Name: "B", Message: "Good luck", Amount: 0, CreatedAt: base.Add(-time.Hour)},
		{ID: "g3", EventID: "abc123", Name: "C", Message: "Miss you", Amount: 250, IsRecipient: false, CreatedAt: base},
	}
	for _, g := range greetings {
		if err := store.InsertGreeting(ctx, g); err != nil {
			t.Fatalf("Failed to insert greeting %s: %v", g.ID, err)
		}
	}

	list, err := store.GetGreetingsByEvent(ctx, "abc123")
	if err != nil {
		t.Fatalf("Failed to list greetings: %v", err)
	}

	if len(list) != 3 {
		t.Fatalf("Expected 3 greetings, got %d", len(list))
	}
	expectedOrder := []string{"g3", "g2", "g1"}
	for i, id := range expectedOrder {
		if list[i].ID != id {
			t.Errorf("Expected greeting %s at position %d, got %s", id, i, list[i].ID)
		}
	}
}

func TestGreetingsScopedToEvent(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	first := sampleEvent()
	second := sampleEvent()
	second.EventID = "def456"
	second.ManageID = "manage-second"

	if err := store.CreateEvent(ctx, first); err != nil {
		t.Fatalf("Failed to create first event: %v", err)
	}
	if err := store.CreateEvent(ctx, second); err != nil {
		t.Fatalf("Failed to create second event: %v", err)
	}

	if err := store.InsertGreeting(ctx, models.Greeting{
		ID: "g1", EventID: "abc123", Name: "A", Message: "Hi", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("Failed to insert greeting: %v", err)
	}

	list, err := store.GetGreetingsByEvent(ctx, "def456")
	if err != nil {
		t.Fatalf("Failed to list greetings: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected no greetings for second event, got %d", len(list))
	}
}
