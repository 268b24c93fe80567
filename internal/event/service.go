package event

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"giftwall/internal/kafka"
	"giftwall/internal/logger"
	"giftwall/internal/models"
	"giftwall/internal/utils"
)

type DBLayer interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	GetEventByManageID(ctx context.Context, manageID string) (*models.Event, error)
	CreateEvent(ctx context.Context, event models.Event) error
	UpdateEvent(ctx context.Context, event models.Event) error
	GetGreetingsByEvent(ctx context.Context, eventID string) ([]models.Greeting, error)
}

type KafkaPublisher interface {
	Publish(topic string, key string, value []byte) error
}

type Service struct {
	DB          DBLayer
	Kafka       KafkaPublisher
	Logger      *logger.Logger
	loadTimeout time.Duration
}

func NewService(db DBLayer, publisher KafkaPublisher, log *logger.Logger, loadTimeout time.Duration) *Service {
	if loadTimeout <= 0 {
		loadTimeout = 5 * time.Second
	}
	return &Service{DB: db, Kafka: publisher, Logger: log, loadTimeout: loadTimeout}
}

// LoadEvent fetches the event row and its greetings within the configured
// bound. The deadline travels with the context so the timer/fetch race
// resolves exactly once; a fetch that completes after the deadline is
// discarded by the driver, never surfaced as a second result.
//
// A greeting fetch failure degrades to an empty list while event-record
// failures are hard errors. The asymmetry is deliberate: a page with the
// event header and no wall is still useful, a wall without an event is not.
func (s *Service) LoadEvent(ctx context.Context, eventID string) (*models.EventWithGreetings, error) {
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	evt, err := s.DB.GetEventByID(ctx, eventID)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return nil, ErrTimeout
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, fmt.Errorf("load event %s: %w", eventID, err)
		}
	}

	if strings.TrimSpace(evt.Title) == "" {
		return nil, ErrCorrupted
	}

	greetings, err := s.DB.GetGreetingsByEvent(ctx, eventID)
	if err != nil {
		s.Logger.Warn("EVENT", fmt.Sprintf("LoadEvent: greetings fetch failed for %s, degrading to empty wall: %v", eventID, err))
		greetings = []models.Greeting{}
	}

	var total float64
	for _, g := range greetings {
		total += g.Amount
	}

	return &models.EventWithGreetings{
		Event:              *evt,
		Greetings:          greetings,
		TotalContributions: total,
	}, nil
}

// CreateEvent validates the organizer's form, mints the public and manage
// identifiers and persists the event.
func (s *Service) CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.Event, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.UpiID) == "" {
		return nil, ErrUpiIDRequired
	}

	evt := models.Event{
		EventID:     utils.GenerateEventID(),
		ManageID:    utils.GenerateManageID(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		EventType:   req.EventType,
		UpiID:       strings.TrimSpace(req.UpiID),
		CreatedAt:   time.Now(),
	}

	if req.TargetAmount != "" {
		target, err := strconv.ParseFloat(req.TargetAmount, 64)
		if err != nil || target <= 0 {
			return nil, ErrInvalidTargetAmount
		}
		evt.TargetAmount = target
	}

	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, ErrInvalidEndDate
		}
		evt.EndDate = end
	}

	if err := s.DB.CreateEvent(ctx, evt); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.publish(kafka.TopicEventCreated, evt)
	return &evt, nil
}

// GetByManageID resolves the management capability token to the event plus
// its greetings and aggregate, for the organizer's dashboard.
func (s *Service) GetByManageID(ctx context.Context, manageID string) (*models.EventWithGreetings, error) {
	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	evt, err := s.DB.GetEventByManageID(ctx, manageID)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return nil, ErrTimeout
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, fmt.Errorf("load event by manage id: %w", err)
		}
	}

	greetings, err := s.DB.GetGreetingsByEvent(ctx, evt.EventID)
	if err != nil {
		s.Logger.Warn("EVENT", fmt.Sprintf("GetByManageID: greetings fetch failed for %s: %v", evt.EventID, err))
		greetings = []models.Greeting{}
	}

	var total float64
	for _, g := range greetings {
		total += g.Amount
	}

	return &models.EventWithGreetings{
		Event:              *evt,
		Greetings:          greetings,
		TotalContributions: total,
	}, nil
}

// UpdateByManageID applies the organizer's edits. The title invariant holds
// through updates: an event can never be saved without one. Closing an
// event is stored and surfaced but not enforced in the submission path.
func (s *Service) UpdateByManageID(ctx context.Context, manageID string, req models.UpdateEventRequest) (*models.Event, error) {
	evt, err := s.DB.GetEventByManageID(ctx, manageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load event by manage id: %w", err)
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}

	evt.Title = strings.TrimSpace(req.Title)
	evt.Description = strings.TrimSpace(req.Description)
	evt.FinalMessage = req.FinalMessage
	evt.IsClosed = req.IsClosed

	if err := s.DB.UpdateEvent(ctx, *evt); err != nil {
		return nil, fmt.Errorf("update event %s: %w", evt.EventID, err)
	}

	s.publish(kafka.TopicEventUpdated, *evt)
	return evt, nil
}

// publish streams an event record to Kafka; failures are logged and
// swallowed since messaging is not on the request's critical path.
func (s *Service) publish(topic string, evt models.Event) {
	if s.Kafka == nil {
		return
	}
	value, err := json.Marshal(evt)
	if err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to marshal event %s: %v", evt.EventID, err))
		return
	}
	if err := s.Kafka.Publish(topic, evt.EventID, value); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish to %s: %v", topic, err))
	}
}
