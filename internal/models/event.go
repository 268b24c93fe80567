package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	EventID      string    `bun:"event_id,pk" json:"event_id"`
	ManageID     string    `bun:"manage_id,unique,notnull" json:"-"`
	Title        string    `bun:"title,notnull" json:"title"`
	Description  string    `bun:"description,nullzero" json:"description,omitempty"`
	EventType    string    `bun:"event_type,nullzero" json:"event_type,omitempty"`
	UpiID        string    `bun:"upi_id,nullzero" json:"-"`
	TargetAmount float64   `bun:"target_amount,nullzero" json:"target_amount,omitempty"`
	EndDate      time.Time `bun:"end_date,nullzero" json:"end_date,omitempty"`
	FinalMessage string    `bun:"final_message,nullzero" json:"final_message,omitempty"`
	IsClosed     bool      `bun:"is_closed" json:"is_closed"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
}

// EventWithGreetings is the accessor's read model: the event row, its
// greetings newest first, and the contribution sum recomputed from the
// unfiltered list on every read.
type EventWithGreetings struct {
	Event              Event      `json:"event"`
	Greetings          []Greeting `json:"greetings"`
	TotalContributions float64    `json:"total_contributions"`
}

type CreateEventRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	UpiID        string `json:"upi_id"`
	EventType    string `json:"event_type"`
	TargetAmount string `json:"target_amount"`
	EndDate      string `json:"end_date"`
}

type CreateEventResponse struct {
	EventID   string `json:"event_id"`
	ManageID  string `json:"manage_id"`
	PublicURL string `json:"public_url"`
	ManageURL string `json:"manage_url"`
}

type UpdateEventRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	FinalMessage string `json:"final_message"`
	IsClosed     bool   `json:"is_closed"`
}
