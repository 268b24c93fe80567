package greeting_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"giftwall/internal/event"
	"giftwall/internal/greeting"
	"giftwall/internal/logger"
	"giftwall/internal/models"
	"giftwall/internal/upi"
	"giftwall/internal/view"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	GreetingService *greeting.Service
	EventService    *event.Service
	Logger          *logger.Logger
}

func NewHandler(greetingService *greeting.Service, eventService *event.Service, log *logger.Logger) *Handler {
	return &Handler{
		GreetingService: greetingService,
		EventService:    eventService,
		Logger:          log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/events/{eventId}/greetings", h.SubmitGreeting)
}

// submitResponse is the wire shape for a submission. The refreshed event
// view rides along so the page can re-render without a second request.
type submitResponse struct {
	models.SubmitResult
	EventView *view.EventView `json:"event_view,omitempty"`
}

func (h *Handler) SubmitGreeting(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("SubmitGreeting: eventId=%s", eventID))

	var input models.GreetingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	role := view.RoleFromQueryFlag(r.URL.Query().Get("recipient") == "true")
	platform := upi.DetectPlatform(r.UserAgent())

	result, err := h.GreetingService.Submit(r.Context(), eventID, input, role, platform)
	if err != nil {
		var vErr *greeting.ValidationError
		switch {
		case errors.As(err, &vErr):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error":  vErr.Error(),
				"reason": vErr.Reason,
			})
		case errors.Is(err, greeting.ErrMissingEventID):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, greeting.ErrSubmissionInFlight):
			http.Error(w, "A submission for this event is already in progress. Please wait a moment.", http.StatusConflict)
		default:
			h.Logger.Error("API", fmt.Sprintf("SubmitGreeting: %v", err))
			http.Error(w, "Failed to send your wish. Please try again.", http.StatusInternalServerError)
		}
		return
	}

	resp := submitResponse{SubmitResult: *result}

	// Best effort refresh so the caller gets the wall including the new
	// entry. A failed refetch does not undo the submission.
	if data, err := h.EventService.LoadEvent(r.Context(), eventID); err != nil {
		h.Logger.Warn("API", fmt.Sprintf("SubmitGreeting: refetch after submit failed: %v", err))
	} else {
		ev := view.BuildEventView(data, role)
		resp.EventView = &ev
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Error("API", fmt.Sprintf("SubmitGreeting: failed to encode response: %v", err))
		return
	}
	h.Logger.LogGreeting("SUBMIT", eventID, result.Outcome)
}
