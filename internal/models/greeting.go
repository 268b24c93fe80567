package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Greeting struct {
	bun.BaseModel `bun:"table:greetings"`

	ID          string    `bun:"id,pk" json:"id"`
	EventID     string    `bun:"event_id,notnull" json:"event_id"`
	Name        string    `bun:"name,nullzero" json:"name,omitempty"`
	Message     string    `bun:"message,nullzero" json:"message,omitempty"`
	Amount      float64   `bun:"amount" json:"amount"`
	ImageURL    string    `bun:"image_url,nullzero" json:"image_url,omitempty"`
	IsRecipient bool      `bun:"is_recipient" json:"is_recipient"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
}

// GreetingInput is a submitted form before validation. Amount stays a raw
// string here so non-numeric input is rejected in the service, not at the
// JSON layer.
type GreetingInput struct {
	Name     string `json:"name"`
	Message  string `json:"message"`
	Amount   string `json:"amount"`
	ImageURL string `json:"image_url"`
}

// Submission outcomes. The greeting is persisted in all three cases;
// the outcome only tells the caller what to surface next.
const (
	OutcomeGreetingAdded    = "greeting_added"
	OutcomePaymentInitiated = "payment_initiated"
	OutcomePayeeMissing     = "payee_missing"
)

type SubmitResult struct {
	Outcome     string  `json:"outcome"`
	GreetingID  string  `json:"greeting_id"`
	Amount      float64 `json:"amount,omitempty"`
	PaymentLink string  `json:"payment_link,omitempty"`
}
