// Package bus wraps a RabbitMQ topic exchange connection: publish by
// routing key, consume a bound queue, and a retry-with-backoff dialer so
// every process can start before the broker is fully up.
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const Exchange = "jobs"

// Conn owns one AMQP connection + channel pair and declares the durable
// topic exchange every publisher/consumer in this system shares.
type Conn struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

// Dial connects to url with exponential backoff, making up to maxRetries
// attempts in total before giving up. Mirrors the connection-retry discipline other
// services in this stack use so a worker or the orchestrator can start
// concurrently with the broker during a cold deploy.
func Dial(ctx context.Context, url string) (*Conn, error) {
	const maxRetries = 5
	const initialBackoff = 1 * time.Second

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := initialBackoff * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		conn, err := amqp.DialConfig(url, amqp.Config{
			Dial: amqp.DefaultDial(10 * time.Second),
		})
		if err != nil {
			lastErr = err
			continue
		}
		ch, err := conn.Channel()
		if err != nil {
			conn.Close()
			lastErr = err
			continue
		}
		if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
			ch.Close()
			conn.Close()
			lastErr = err
			continue
		}
		return &Conn{conn: conn, ch: ch}, nil
	}
	return nil, fmt.Errorf("bus: dial failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ch != nil {
		c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publish marshals payload as JSON and publishes it to the jobs exchange
// under routingKey with a persistent delivery mode, so queued messages
// survive a broker restart.
func (c *Conn) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("bus: marshal payload: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ch.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    time.Now().UTC(),
	})
}

// DeclareQueue declares a durable queue bound to the given routing keys.
// Workers call this once at startup for their own `<stage>-agent` queue;
// the orchestrator calls it for `orchestrator.jobs`/`orchestrator.events`.
func (c *Conn) DeclareQueue(name string, routingKeys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, err := c.ch.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("bus: declare queue %s: %w", name, err)
	}
	for _, rk := range routingKeys {
		if err := c.ch.QueueBind(q.Name, rk, Exchange, false, nil); err != nil {
			return fmt.Errorf("bus: bind %s to %s: %w", name, rk, err)
		}
	}
	return nil
}

// Consume starts a competing-consumer subscription on queue with the given
// unacked-message prefetch cap (spec's recommended 5-10 range).
func (c *Conn) Consume(queue string, prefetch int) (<-chan amqp.Delivery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("bus: set qos: %w", err)
	}
	return c.ch.Consume(queue, "", false, false, false, false, nil)
}
