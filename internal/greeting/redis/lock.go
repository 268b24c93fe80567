package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Lock is the busy flag for greeting submissions. A SetNX key scoped to the
// event and a submitter fingerprint damps double-clicks and retried
// requests while a submission is in flight. Best effort only: there is no
// idempotency key at the storage layer.
type Lock struct {
	Client *redis.Client
	Logger *log.Logger
	ttl    time.Duration
}

func NewLock(client *redis.Client, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Lock{
		Client: client,
		Logger: log.Default(),
		ttl:    ttl,
	}
}

func submitKey(eventID, fingerprint string) string {
	return fmt.Sprintf("greeting_submit:%s:%s", eventID, fingerprint)
}

// Acquire takes the submission slot for this event/submitter pair. Returns
// false when a matching submission is already in flight. The TTL bounds how
// long a crashed submission can hold the slot.
func (l *Lock) Acquire(eventID, fingerprint string) (bool, error) {
	ok, err := l.Client.SetNX(context.Background(), submitKey(eventID, fingerprint), "1", l.ttl).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		l.Logger.Printf("REDIS: submission already in flight for event %s", eventID)
	}
	return ok, nil
}

// Release frees the slot once the submission has settled.
func (l *Lock) Release(eventID, fingerprint string) error {
	return l.Client.Del(context.Background(), submitKey(eventID, fingerprint)).Err()
}
