package event_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"giftwall/internal/event"
	"giftwall/internal/logger"
	"giftwall/internal/models"
	"giftwall/internal/upi"
	"giftwall/internal/view"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	EventService *event.Service
	Logger       *logger.Logger
	BaseURL      string
}

func NewHandler(eventService *event.Service, log *logger.Logger, baseURL string) *Handler {
	return &Handler{
		EventService: eventService,
		Logger:       log,
		BaseURL:      baseURL,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Post("/", h.CreateEvent)
		r.Get("/{eventId}", h.GetEvent)
		r.Get("/{eventId}/payment-qr", h.PaymentQR)
	})
	r.Route("/manage", func(r chi.Router) {
		r.Get("/{manageId}", h.GetManagedEvent)
		r.Put("/{manageId}", h.UpdateManagedEvent)
	})
}

// viewerRole derives the display role from the unauthenticated
// ?recipient=true flag. Known weak trust boundary: any viewer can set it.
func viewerRole(r *http.Request) view.ViewerRole {
	return view.RoleFromQueryFlag(r.URL.Query().Get("recipient") == "true")
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "CreateEvent: received request")

	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	evt, err := h.EventService.CreateEvent(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, event.ErrTitleRequired),
			errors.Is(err, event.ErrUpiIDRequired),
			errors.Is(err, event.ErrInvalidTargetAmount),
			errors.Is(err, event.ErrInvalidEndDate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.Logger.Error("API", fmt.Sprintf("CreateEvent: %v", err))
			http.Error(w, "Could not create event", http.StatusInternalServerError)
		}
		return
	}

	resp := models.CreateEventResponse{
		EventID:   evt.EventID,
		ManageID:  evt.ManageID,
		PublicURL: fmt.Sprintf("%s/event/%s", h.BaseURL, evt.EventID),
		ManageURL: fmt.Sprintf("%s/manage/%s", h.BaseURL, evt.ManageID),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateEvent: failed to encode response: %v", err))
		return
	}
	h.Logger.LogEvent("CREATE", evt.EventID, "event created")
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	role := viewerRole(r)
	h.Logger.Info("API", fmt.Sprintf("GetEvent: eventId=%s role=%s", eventID, role))

	data, err := h.EventService.LoadEvent(r.Context(), eventID)
	if err != nil {
		h.writeLoadError(w, eventID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view.BuildEventView(data, role)); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetEvent: failed to encode response: %v", err))
	}
}

// PaymentQR renders the event's UPI link as a PNG so desktop viewers can
// scan it. Amount comes from the query since it is per-contribution.
func (h *Handler) PaymentQR(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil || amount <= 0 {
		http.Error(w, "amount must be a positive number", http.StatusBadRequest)
		return
	}
	payerName := r.URL.Query().Get("name")

	data, err := h.EventService.LoadEvent(r.Context(), eventID)
	if err != nil {
		h.writeLoadError(w, eventID, err)
		return
	}
	if data.Event.UpiID == "" {
		http.Error(w, "Event has no UPI id configured", http.StatusNotFound)
		return
	}

	png, err := upi.PaymentQR(data.Event.UpiID, amount, payerName)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("PaymentQR: failed to generate QR: %v", err))
		http.Error(w, "Could not generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		h.Logger.Error("API", fmt.Sprintf("PaymentQR: failed to write response: %v", err))
	}
}

func (h *Handler) GetManagedEvent(w http.ResponseWriter, r *http.Request) {
	manageID := chi.URLParam(r, "manageId")
	h.Logger.Info("API", fmt.Sprintf("GetManagedEvent: manageId=%s", manageID))

	data, err := h.EventService.GetByManageID(r.Context(), manageID)
	if err != nil {
		h.writeLoadError(w, manageID, err)
		return
	}

	// The organizer sees everything, guest projection applies
	ev := view.BuildEventView(data, view.RoleGuest)

	resp := struct {
		view.EventView
		ManageID  string `json:"manage_id"`
		UpiID     string `json:"upi_id,omitempty"`
		PublicURL string `json:"public_url"`
		ManageURL string `json:"manage_url"`
	}{
		EventView: ev,
		ManageID:  data.Event.ManageID,
		UpiID:     data.Event.UpiID,
		PublicURL: fmt.Sprintf("%s/event/%s", h.BaseURL, data.Event.EventID),
		ManageURL: fmt.Sprintf("%s/manage/%s", h.BaseURL, data.Event.ManageID),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetManagedEvent: failed to encode response: %v", err))
	}
}

func (h *Handler) UpdateManagedEvent(w http.ResponseWriter, r *http.Request) {
	manageID := chi.URLParam(r, "manageId")
	h.Logger.Info("API", fmt.Sprintf("UpdateManagedEvent: manageId=%s", manageID))

	var req models.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	evt, err := h.EventService.UpdateByManageID(r.Context(), manageID, req)
	if err != nil {
		switch {
		case errors.Is(err, event.ErrNotFound):
			http.Error(w, "Event not found", http.StatusNotFound)
		case errors.Is(err, event.ErrTitleRequired):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.Logger.Error("API", fmt.Sprintf("UpdateManagedEvent: %v", err))
			http.Error(w, "Could not update event", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(evt); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdateManagedEvent: failed to encode response: %v", err))
		return
	}
	h.Logger.LogEvent("UPDATE", evt.EventID, "event updated via manage link")
}

func (h *Handler) writeLoadError(w http.ResponseWriter, id string, err error) {
	switch {
	case errors.Is(err, event.ErrNotFound):
		http.Error(w, "Event not found. The event may have been deleted or the link is incorrect.", http.StatusNotFound)
	case errors.Is(err, event.ErrCorrupted):
		http.Error(w, "Event data is corrupted. Please contact the event organizer.", http.StatusUnprocessableEntity)
	case errors.Is(err, event.ErrTimeout):
		http.Error(w, "Loading timeout. Please try refreshing the page.", http.StatusGatewayTimeout)
	default:
		h.Logger.Error("API", fmt.Sprintf("load %s: %v", id, err))
		http.Error(w, "An unexpected error occurred while loading the event.", http.StatusInternalServerError)
	}
}
