package orchestrator

import (
	"context"
	"encoding/json"

	"github.com/Atticdm/GloCalAI/internal/bus"
	"github.com/Atticdm/GloCalAI/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const prefetch = 10

// Run declares the orchestrator's two queues and consumes both until ctx
// is canceled. On restart it simply resumes consuming from the durable
// queues; in-flight stage messages are unaffected and the state machine
// recovers entirely from persisted rows.
func (e *Engine) Run(ctx context.Context, conn *bus.Conn) error {
	if err := conn.DeclareQueue(bus.QueueOrchestratorJobs, bus.RoutingJobCreated); err != nil {
		return err
	}
	if err := conn.DeclareQueue(bus.QueueOrchestratorEvents, bus.StageResultPattern); err != nil {
		return err
	}

	jobsCh, err := conn.Consume(bus.QueueOrchestratorJobs, prefetch)
	if err != nil {
		return err
	}
	eventsCh, err := conn.Consume(bus.QueueOrchestratorEvents, prefetch)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-jobsCh:
			if !ok {
				return nil
			}
			e.handleJobCreatedDelivery(ctx, d)
		case d, ok := <-eventsCh:
			if !ok {
				return nil
			}
			e.handleStageResultDelivery(ctx, d)
		}
	}
}

func (e *Engine) handleJobCreatedDelivery(ctx context.Context, d amqp.Delivery) {
	var msg domain.JobCreated
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		e.log.Warn("orchestrator: dropping malformed job.created", "err", err)
		_ = d.Ack(false)
		return
	}
	if err := e.HandleJobCreated(ctx, msg.JobID.String()); err != nil {
		e.log.Error("orchestrator: handle job.created failed", "job_id", msg.JobID, "err", err)
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

func (e *Engine) handleStageResultDelivery(ctx context.Context, d amqp.Delivery) {
	var result domain.StageResult
	if err := json.Unmarshal(d.Body, &result); err != nil {
		e.log.Warn("orchestrator: dropping malformed stage result", "err", err)
		_ = d.Ack(false)
		return
	}
	if err := e.HandleStageResult(ctx, result); err != nil {
		e.log.Error("orchestrator: handle stage result failed", "job_id", result.JobID, "stage", result.Stage, "err", err)
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}
