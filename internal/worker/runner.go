// Package worker hosts the per-stage agent loop: consume <stage>-agent,
// run the bound Processor, persist the artifacts it owns, and publish a
// terminal result — acknowledging the message only once that result has
// been published or safely recorded as a failure.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Atticdm/GloCalAI/internal/bus"
	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/Atticdm/GloCalAI/internal/objectstore"
	"github.com/Atticdm/GloCalAI/internal/platform/logger"
	"github.com/Atticdm/GloCalAI/internal/store"
	"github.com/Atticdm/GloCalAI/internal/worker/stage"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/google/uuid"
)

const prefetch = 8

// Runner binds one stage.Processor to its queue and drives the consume
// loop. One Runner per process; `cmd/worker` selects which stage to run
// via config.
type Runner struct {
	Processor stage.Processor
	Variants  store.VariantRepo
	Bus       *bus.Conn
	Store     *objectstore.Store
	Log       *logger.Logger
}

func (r *Runner) Run(ctx context.Context) error {
	stageName := r.Processor.Stage()
	queue := bus.StageAgentQueue(stageName)
	if err := r.Bus.DeclareQueue(queue, bus.StageWorkKey(stageName)); err != nil {
		return err
	}
	deliveries, err := r.Bus.Consume(queue, prefetch)
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
			r.handle(ctx, d)
		}
	}
}

func (r *Runner) handle(ctx context.Context, d amqp.Delivery) {
	stageName := r.Processor.Stage()

	var env domain.StageEnvelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		r.Log.Warn("worker: dropping malformed envelope", "stage", stageName, "err", err)
		_ = d.Ack(false)
		return
	}

	workDir, err := os.MkdirTemp("", fmt.Sprintf("glocalai-%s-*", stageName))
	if err != nil {
		r.Log.Error("worker: create scratch dir failed", "stage", stageName, "err", err)
		_ = d.Nack(false, true)
		return
	}
	defer os.RemoveAll(workDir)

	in := stage.Input{
		JobID:      env.JobID.String(),
		VariantID:  env.VariantID.String(),
		Lang:       env.Lang,
		BasePrefix: env.BasePrefix,
		WorkDir:    workDir,
		AssetKey:   env.Source.Key,
		Options:    env.Options,
	}
	if env.VoiceProfile != nil {
		in.VoiceProfileParams = env.VoiceProfile.Parameters
	}

	result := domain.StageResult{
		SchemaVersion: domain.CurrentSchemaVersion,
		JobID:         env.JobID,
		VariantID:     env.VariantID,
		Lang:          env.Lang,
		Stage:         stageName,
	}

	out, procErr := r.Processor.Process(ctx, in)
	if procErr != nil {
		r.Log.Error("worker: stage failed", "stage", stageName, "job_id", env.JobID, "variant_id", env.VariantID, "err", procErr)
		result.Status = domain.StageFailed
		result.Error = procErr.Error()
	} else {
		if err := r.persistArtifacts(ctx, env.VariantID, out); err != nil {
			r.Log.Error("worker: persist artifacts failed", "stage", stageName, "err", err)
			result.Status = domain.StageFailed
			result.Error = err.Error()
		} else {
			result.Status = domain.StageCompleted
			result.VideoKey = out.VideoKey
			result.PreviewKey = out.PreviewKey
			result.AudioKey = out.AudioKey
			result.SubsKey = out.SubsKey
			result.ReportKey = out.ReportKey
		}
	}

	routingKey := bus.StageCompletedKey(stageName)
	if result.Status == domain.StageFailed {
		routingKey = bus.StageFailedKey(stageName)
	}
	if err := r.Bus.Publish(ctx, routingKey, result); err != nil {
		r.Log.Error("worker: publish result failed", "stage", stageName, "job_id", env.JobID, "err", err)
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

// persistArtifacts writes only the columns this stage owns, as s3://
// references, preserving every other column on the variant row.
func (r *Runner) persistArtifacts(ctx context.Context, variantID uuid.UUID, out stage.Output) error {
	fields := map[string]any{}
	if out.VideoKey != "" {
		fields["video_url"] = r.Store.URL(out.VideoKey)
	}
	if out.PreviewKey != "" {
		fields["preview_url"] = r.Store.URL(out.PreviewKey)
	}
	if out.AudioKey != "" {
		fields["audio_url"] = r.Store.URL(out.AudioKey)
	}
	if out.SubsKey != "" {
		fields["subs_url"] = r.Store.URL(out.SubsKey)
	}
	if out.ReportKey != "" {
		fields["report"] = domain.JSONMap{"key": r.Store.URL(out.ReportKey)}
	}
	if len(fields) == 0 {
		return nil
	}
	return r.Variants.SetArtifacts(ctx, variantID, fields)
}
