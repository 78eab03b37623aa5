package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"household-backend/database"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChangeEvent is published to "changes:<table>" whenever a row is inserted,
// updated or deleted. Clients treat any event as "invalidate and reload".
type ChangeEvent struct {
	Table string    `json:"table"`
	Event string    `json:"event"` // INSERT, UPDATE, DELETE
	ID    uuid.UUID `json:"id"`
	At    time.Time `json:"at"`
}

type Realtime struct {
	rdb *redis.Client
}

var realtime *Realtime

func GetRealtime() *Realtime {
	if realtime == nil {
		realtime = NewRealtime(database.Redis)
	}
	return realtime
}

func NewRealtime(rdb *redis.Client) *Realtime {
	return &Realtime{rdb: rdb}
}

func (r *Realtime) Enabled() bool {
	return r != nil && r.rdb != nil
}

// Publish is best-effort: a missing or unreachable Redis never fails the
// mutation the event describes.
func (r *Realtime) Publish(table, event string, id uuid.UUID) {
	if !r.Enabled() {
		return
	}

	payload, err := json.Marshal(ChangeEvent{Table: table, Event: event, ID: id, At: time.Now()})
	if err != nil {
		log.Printf("❌ Change event marshal error: %v", err)
		return
	}

	if err := r.rdb.Publish(context.Background(), "changes:"+table, payload).Err(); err != nil {
		log.Printf("⚠️  Failed to publish change event for %s: %v", table, err)
	}
}

// Subscribe returns a channel of change events for the given tables and a
// cancel function that tears the subscription down.
func (r *Realtime) Subscribe(ctx context.Context, tables []string) (<-chan ChangeEvent, func()) {
	events := make(chan ChangeEvent, 16)
	if !r.Enabled() || len(tables) == 0 {
		close(events)
		return events, func() {}
	}

	channels := make([]string, 0, len(tables))
	for _, t := range tables {
		channels = append(channels, "changes:"+t)
	}

	sub := r.rdb.Subscribe(ctx, channels...)

	go func() {
		defer close(events)
		for msg := range sub.Channel() {
			var ev ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("⚠️  Dropping malformed change event: %v", err)
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, func() { sub.Close() }
}
