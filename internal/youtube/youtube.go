// Package youtube implements the post-pipeline upload hook: one consumer
// on the youtube.upload routing key. A failure here is logged only and
// never reopens the job it came from.
package youtube

import (
	"context"
	"encoding/json"

	"github.com/Atticdm/GloCalAI/internal/bus"
	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/Atticdm/GloCalAI/internal/platform/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Processor delivers one finished variant to an upload destination.
// Out of scope for this core; Upload is the seam a real integration
// plugs into.
type Processor interface {
	Upload(ctx context.Context, msg domain.YoutubeUpload) error
}

// StubProcessor logs the request instead of calling a real upload API.
type StubProcessor struct {
	Log *logger.Logger
}

func (s StubProcessor) Upload(ctx context.Context, msg domain.YoutubeUpload) error {
	s.Log.Info("youtube: would upload variant", "job_id", msg.JobID, "variant_id", msg.VariantID, "lang", msg.Lang, "video_url", msg.VideoURL)
	return nil
}

const queue = "youtube-agent"
const prefetch = 4

// Consumer drives the youtube.upload queue.
type Consumer struct {
	Processor Processor
	Log       *logger.Logger
}

func (c *Consumer) Run(ctx context.Context, conn *bus.Conn) error {
	if err := conn.DeclareQueue(queue, bus.RoutingYoutubeUpload); err != nil {
		return err
	}
	deliveries, err := conn.Consume(queue, prefetch)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var msg domain.YoutubeUpload
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		c.Log.Warn("youtube: dropping malformed upload message", "err", err)
		_ = d.Ack(false)
		return
	}
	if err := c.Processor.Upload(ctx, msg); err != nil {
		// Terminal hook failure: logged only, does not affect job status.
		c.Log.Error("youtube: upload failed", "job_id", msg.JobID, "variant_id", msg.VariantID, "err", err)
	}
	_ = d.Ack(false)
}
