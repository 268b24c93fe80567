package greeting

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"time"

	"giftwall/internal/kafka"
	"giftwall/internal/logger"
	"giftwall/internal/models"
	"giftwall/internal/upi"
	"giftwall/internal/view"

	"github.com/google/uuid"
)

type DBLayer interface {
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	InsertGreeting(ctx context.Context, greeting models.Greeting) error
}

// SubmitLock is the busy flag preventing duplicate greeting creation while
// a previous submission is still in flight.
type SubmitLock interface {
	Acquire(eventID, fingerprint string) (bool, error)
	Release(eventID, fingerprint string) error
}

type KafkaPublisher interface {
	Publish(topic string, key string, value []byte) error
}

type Service struct {
	DB     DBLayer
	Lock   SubmitLock
	Kafka  KafkaPublisher
	Logger *logger.Logger
}

func NewService(db DBLayer, lock SubmitLock, publisher KafkaPublisher, log *logger.Logger) *Service {
	return &Service{DB: db, Lock: lock, Kafka: publisher, Logger: log}
}

// validate applies the greeting invariants without touching the store:
// the amount must parse as a finite non-negative decimal, and at least one
// of name, message, image or a positive amount must be present.
func validate(input models.GreetingInput) (float64, *ValidationError) {
	amount := 0.0
	if raw := strings.TrimSpace(input.Amount); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 {
			return 0, &ValidationError{Reason: ReasonInvalidAmount}
		}
		amount = parsed
	}

	if strings.TrimSpace(input.Name) == "" &&
		strings.TrimSpace(input.Message) == "" &&
		strings.TrimSpace(input.ImageURL) == "" &&
		amount <= 0 {
		return 0, &ValidationError{Reason: ReasonNothingProvided}
	}

	return amount, nil
}

// fingerprint identifies a submission for the busy flag. Two identical
// forms submitted back to back (double-click, client retry) collide on it.
func fingerprint(input models.GreetingInput) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s", input.Name, input.Message, input.Amount)
	return strconv.FormatUint(h.Sum64(), 16)
}

// Submit validates and persists one greeting, then decides the payment
// outcome: a contribution from a guest yields a UPI deep link for the
// event's payee, a missing payee is reported (the greeting is already
// saved), anything else is a plain greeting_added.
func (s *Service) Submit(ctx context.Context, eventID string, input models.GreetingInput, role view.ViewerRole, platform upi.Platform) (*models.SubmitResult, error) {
	amount, verr := validate(input)
	if verr != nil {
		return nil, verr
	}

	if strings.TrimSpace(eventID) == "" {
		return nil, ErrMissingEventID
	}

	if s.Lock != nil {
		fp := fingerprint(input)
		ok, err := s.Lock.Acquire(eventID, fp)
		if err != nil {
			// Redis being down must not block greetings; the busy flag is
			// best effort.
			s.Logger.Warn("GREETING", fmt.Sprintf("Submit: lock unavailable for event %s: %v", eventID, err))
		} else if !ok {
			return nil, ErrSubmissionInFlight
		} else {
			defer func() {
				if err := s.Lock.Release(eventID, fp); err != nil {
					s.Logger.Warn("GREETING", fmt.Sprintf("Submit: failed to release lock for event %s: %v", eventID, err))
				}
			}()
		}
	}

	g := models.Greeting{
		ID:          uuid.NewString(),
		EventID:     eventID,
		Name:        strings.TrimSpace(input.Name),
		Message:     strings.TrimSpace(input.Message),
		Amount:      amount,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		IsRecipient: role == view.RoleRecipient,
		CreatedAt:   time.Now(),
	}

	if err := s.DB.InsertGreeting(ctx, g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	s.Logger.LogGreeting("SUBMIT", g.ID, fmt.Sprintf("greeting persisted for event %s", eventID))

	s.publishCreated(g)

	result := &models.SubmitResult{
		Outcome:    models.OutcomeGreetingAdded,
		GreetingID: g.ID,
		Amount:     amount,
	}

	if amount > 0 && role != view.RoleRecipient {
		evt, err := s.DB.GetEventByID(ctx, eventID)
		if err != nil || strings.TrimSpace(evt.UpiID) == "" {
			if err != nil {
				s.Logger.Warn("GREETING", fmt.Sprintf("Submit: payee lookup failed for event %s: %v", eventID, err))
			}
			result.Outcome = models.OutcomePayeeMissing
			return result, nil
		}
		result.Outcome = models.OutcomePaymentInitiated
		result.PaymentLink = upi.BuildPaymentLink(evt.UpiID, amount, g.Name, platform)
	}

	return result, nil
}

func (s *Service) publishCreated(g models.Greeting) {
	if s.Kafka == nil {
		return
	}
	value, err := json.Marshal(g)
	if err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to marshal greeting %s: %v", g.ID, err))
		return
	}
	if err := s.Kafka.Publish(kafka.TopicGreetingCreated, g.EventID, value); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish greeting created event: %v", err))
	}
}
