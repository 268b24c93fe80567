package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	eventdb "giftwall/internal/event/db"
	"giftwall/internal/models"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// TestPostgresIntegration runs the store against a real Postgres container.
func TestPostgresIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Postgres integration test in short mode")
	}

	ctx := context.Background()
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "giftwall",
				"POSTGRES_PASSWORD": "giftwall",
				"POSTGRES_DB":       "giftwall_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start Postgres container: %v", err)
	}
	defer pgContainer.Terminate(ctx)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://giftwall:giftwall@%s:%s/giftwall_test?sslmode=disable", host, port.Port())
	sqldb, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer sqldb.Close()

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	require.NoError(t, bunDB.ResetModel(ctx, (*models.Event)(nil)))
	require.NoError(t, bunDB.ResetModel(ctx, (*models.Greeting)(nil)))

	store := &eventdb.DB{Bun: bunDB}

	event := models.Event{
		EventID:   "pg-evt",
		ManageID:  "pg-manage",
		Title:     "Integration Party",
		UpiID:     "host@upi",
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.CreateEvent(ctx, event))

	base := time.Now()
	require.NoError(t, store.InsertGreeting(ctx, models.Greeting{
		ID: "g1", EventID: "pg-evt", Name: "A", Message: "First", Amount: 50, CreatedAt: base.Add(-time.Minute),
	}))
	require.NoError(t, store.InsertGreeting(ctx, models.Greeting{
		ID: "g2", EventID: "pg-evt", Name: "B", Message: "Second", Amount: 0, CreatedAt: base,
	}))

	retrieved, err := store.GetEventByID(ctx, "pg-evt")
	require.NoError(t, err)
	assert.Equal(t, "Integration Party", retrieved.Title)

	greetings, err := store.GetGreetingsByEvent(ctx, "pg-evt")
	require.NoError(t, err)
	require.Len(t, greetings, 2)
	assert.Equal(t, "g2", greetings[0].ID, "greetings should come back newest first")
	assert.Equal(t, "g1", greetings[1].ID)
}
