package event_api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"giftwall/internal/event"
	"giftwall/internal/event/event_api"
	"giftwall/internal/logger"
	"giftwall/internal/models"
	"giftwall/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore simulates the event store with in-memory maps.
type fakeStore struct {
	events    map[string]*models.Event
	byManage  map[string]*models.Event
	greetings map[string][]models.Greeting
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:    make(map[string]*models.Event),
		byManage:  make(map[string]*models.Event),
		greetings: make(map[string][]models.Greeting),
	}
}

func (f *fakeStore) add(evt models.Event, greetings ...models.Greeting) {
	f.events[evt.EventID] = &evt
	f.byManage[evt.ManageID] = &evt
	f.greetings[evt.EventID] = greetings
}

func (f *fakeStore) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	evt, ok := f.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return evt, nil
}

func (f *fakeStore) GetEventByManageID(ctx context.Context, manageID string) (*models.Event, error) {
	evt, ok := f.byManage[manageID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return evt, nil
}

func (f *fakeStore) CreateEvent(ctx context.Context, evt models.Event) error {
	f.add(evt)
	return nil
}

func (f *fakeStore) UpdateEvent(ctx context.Context, evt models.Event) error {
	f.add(evt, f.greetings[evt.EventID]...)
	return nil
}

func (f *fakeStore) GetGreetingsByEvent(ctx context.Context, eventID string) ([]models.Greeting, error) {
	return f.greetings[eventID], nil
}

func newTestRouter(store *fakeStore) *chi.Mux {
	svc := event.NewService(store, nil, logger.NewLogger(), 0)
	handler := event_api.NewHandler(svc, logger.NewLogger(), "http://localhost:8086")

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		handler.RegisterRoutes(r)
	})
	return r
}

func TestGetEventHandler(t *testing.T) {
	store := newFakeStore()
	store.add(
		models.Event{EventID: "abc123", ManageID: "manage7890", Title: "Farewell", UpiID: "priya@upi"},
		models.Greeting{ID: "g1", EventID: "abc123", Name: "Alice", Amount: 100},
		models.Greeting{ID: "g2", EventID: "abc123", Name: "Priya", Message: "Thanks!", IsRecipient: true},
	)
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/events/abc123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var ev view.EventView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ev))
	assert.Equal(t, "Farewell", ev.Event.Title)
	assert.Equal(t, "guest", ev.ViewerRole)
	assert.Len(t, ev.Greetings, 2)
	assert.Equal(t, 100.0, ev.TotalContributions)
	// The payee address never leaves the server on the public view
	assert.NotContains(t, w.Body.String(), "priya@upi")
}

func TestGetEventHandler_RecipientView(t *testing.T) {
	store := newFakeStore()
	store.add(
		models.Event{EventID: "abc123", ManageID: "manage7890", Title: "Farewell"},
		models.Greeting{ID: "g1", EventID: "abc123", Name: "Alice", Amount: 100},
		models.Greeting{ID: "g2", EventID: "abc123", Name: "Priya", Message: "Thanks!", IsRecipient: true},
	)
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/events/abc123?recipient=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var ev view.EventView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ev))
	assert.Equal(t, "recipient", ev.ViewerRole)
	assert.Len(t, ev.Greetings, 1)
	assert.Equal(t, "Alice", ev.Greetings[0].Name)
}

func TestGetEventHandler_NotFound(t *testing.T) {
	router := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/events/nosuch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEventHandler_Corrupted(t *testing.T) {
	store := newFakeStore()
	store.add(models.Event{EventID: "broken", ManageID: "brokenmng1", Title: "  "})
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/events/broken", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateEventHandler(t *testing.T) {
	store := newFakeStore()
	router := newTestRouter(store)

	body, _ := json.Marshal(models.CreateEventRequest{
		Title: "Wedding Fund",
		UpiID: "couple@upi",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.CreateEventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.EventID, 6)
	assert.Len(t, resp.ManageID, 10)
	assert.Equal(t, "http://localhost:8086/event/"+resp.EventID, resp.PublicURL)
	assert.Equal(t, "http://localhost:8086/manage/"+resp.ManageID, resp.ManageURL)
}

func TestCreateEventHandler_MissingUpiID(t *testing.T) {
	router := newTestRouter(newFakeStore())

	body, _ := json.Marshal(models.CreateEventRequest{Title: "No payee"})
	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentQRHandler(t *testing.T) {
	store := newFakeStore()
	store.add(models.Event{EventID: "abc123", ManageID: "manage7890", Title: "Farewell", UpiID: "priya@upi"})
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/events/abc123/payment-qr?amount=250&name=Bob", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, w.Body.Bytes()[:4])
}

func TestPaymentQRHandler_BadAmount(t *testing.T) {
	router := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/events/abc123/payment-qr?amount=lots", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestManageHandlers(t *testing.T) {
	store := newFakeStore()
	store.add(models.Event{EventID: "abc123", ManageID: "manage7890", Title: "Farewell", UpiID: "priya@upi"})
	router := newTestRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/manage/manage7890", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// The organizer's own view does include the payee address
	assert.Contains(t, w.Body.String(), "priya@upi")

	body, _ := json.Marshal(models.UpdateEventRequest{
		Title:        "Farewell for Priya",
		FinalMessage: "Thank you all!",
		IsClosed:     true,
	})
	req = httptest.NewRequest(http.MethodPut, "/api/manage/manage7890", bytes.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Farewell for Priya", updated.Title)
	assert.True(t, updated.IsClosed)
}

func TestManageHandlers_UnknownToken(t *testing.T) {
	router := newTestRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/manage/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
