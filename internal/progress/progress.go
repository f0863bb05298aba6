// Package progress publishes and relays per-job progress events over a
// Redis pub/sub channel named job:<job_id>. Delivery is fire-and-forget:
// subscribers only see events published after they subscribe.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusSkipped    Status = "skipped"
	StatusError      Status = "error"
)

// Event is the wire payload of one progress update.
type Event struct {
	JobID     uuid.UUID `json:"job_id"`
	Stage     string    `json:"stage"`
	Lang      *string   `json:"lang,omitempty"`
	Status    Status    `json:"status"`
	Progress  float64   `json:"progress"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Channel returns the pub/sub channel name for a job.
func Channel(jobID uuid.UUID) string {
	return fmt.Sprintf("job:%s", jobID)
}

// Publisher broadcasts progress events. Created once per process and
// shared by every goroutine that needs to emit an event.
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("progress: marshal event: %w", err)
	}
	return p.rdb.Publish(ctx, Channel(ev.JobID), body).Err()
}

// Subscriber relays events for one job to a Go channel for as long as the
// caller's context stays alive.
type Subscriber struct {
	rdb *redis.Client
}

func NewSubscriber(rdb *redis.Client) *Subscriber {
	return &Subscriber{rdb: rdb}
}

// Subscribe returns a channel of decoded events for jobID and a cleanup
// function the caller must invoke on every exit path to release the
// underlying Redis subscription. Malformed payloads are dropped silently.
func (s *Subscriber) Subscribe(ctx context.Context, jobID uuid.UUID) (<-chan Event, func()) {
	sub := s.rdb.Subscribe(ctx, Channel(jobID))
	out := make(chan Event, 16)

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, func() { _ = sub.Close() }
}
