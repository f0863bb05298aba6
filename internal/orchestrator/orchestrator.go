// Package orchestrator is the event-driven stage scheduler: it consumes
// job.created and stage.*.completed/failed events, walks each variant
// through the pipeline, reconciles job status, and emits progress events.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/Atticdm/GloCalAI/internal/bus"
	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/Atticdm/GloCalAI/internal/pipeline"
	"github.com/Atticdm/GloCalAI/internal/platform/logger"
	"github.com/Atticdm/GloCalAI/internal/progress"
	"github.com/Atticdm/GloCalAI/internal/store"
	"github.com/google/uuid"
)

// Publisher is the narrow slice of *bus.Conn the engine needs: publish a
// payload under a routing key. A fake satisfying this is enough to test
// the engine without a broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

var _ Publisher = (*bus.Conn)(nil)

// Engine is the orchestrator's entry point for both message kinds it
// consumes. It holds no per-job state of its own beyond the lock map;
// everything else is read fresh from the store on every call.
type Engine struct {
	jobs      store.JobRepo
	variants  store.VariantRepo
	assets    store.AssetRepo
	voices    store.VoiceProfileRepo
	bus       Publisher
	publisher *progress.Publisher
	log       *logger.Logger

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

func New(
	jobs store.JobRepo,
	variants store.VariantRepo,
	assets store.AssetRepo,
	voices store.VoiceProfileRepo,
	b Publisher,
	publisher *progress.Publisher,
	log *logger.Logger,
) *Engine {
	return &Engine{
		jobs:      jobs,
		variants:  variants,
		assets:    assets,
		voices:    voices,
		bus:       b,
		publisher: publisher,
		log:       log,
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

// withJobLock serializes every handler touching jobID, per the
// single-writer-per-job concurrency requirement: two concurrent
// completions for sibling variants must never race on the job-completion
// check.
func (e *Engine) withJobLock(jobID uuid.UUID, fn func() error) error {
	e.locksMu.Lock()
	l, ok := e.locks[jobID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[jobID] = l
	}
	e.locksMu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn()
}

func (e *Engine) emit(ctx context.Context, ev progress.Event) {
	if err := e.publisher.Publish(ctx, ev); err != nil {
		e.log.Warn("orchestrator: publish progress failed", "job_id", ev.JobID, "err", err)
	}
}

func langPtr(lang string) *string {
	if lang == "" {
		return nil
	}
	return &lang
}

// buildEnvelope reconstructs a stage envelope entirely from persisted
// state. Called on every dispatch so replays and corrected options never
// carry stale data forward.
func (e *Engine) buildEnvelope(job *domain.Job, variant *domain.Variant, asset *domain.Asset, profile *domain.VoiceProfile, stage string) domain.StageEnvelope {
	return domain.StageEnvelope{
		SchemaVersion: domain.CurrentSchemaVersion,
		JobID:         job.ID,
		VariantID:     variant.ID,
		Lang:          variant.Lang,
		Stage:         stage,
		Source:        domain.AssetRef{Key: asset.URL, Type: asset.Type},
		Options:       job.Options,
		VoiceProfile:  profile,
		BasePrefix:    fmt.Sprintf("jobs/%s/%s", job.ID, variant.Lang),
	}
}

func (e *Engine) dispatchStage(ctx context.Context, job *domain.Job, variant *domain.Variant, asset *domain.Asset, profile *domain.VoiceProfile, stage string) error {
	env := e.buildEnvelope(job, variant, asset, profile, stage)
	if err := e.bus.Publish(ctx, bus.StageWorkKey(stage), env); err != nil {
		return fmt.Errorf("orchestrator: publish stage %s: %w", stage, err)
	}
	e.emit(ctx, progress.Event{
		JobID:    job.ID,
		Stage:    stage,
		Lang:     langPtr(variant.Lang),
		Status:   progress.StatusQueued,
		Progress: 0,
	})
	return nil
}

// advanceOrFinish walks a variant forward, skipping stages that don't
// apply to the job's options and emitting a skipped event for each, until
// it finds a stage to dispatch or runs off the end of the pipeline.
func (e *Engine) advanceOrFinish(ctx context.Context, job *domain.Job, variant *domain.Variant, asset *domain.Asset, profile *domain.VoiceProfile, after string) error {
	stage := after
	for {
		// Step one stage at a time (with every optional stage enabled, Next
		// returns the immediate successor) so the job's own skip rules are
		// applied below and each bypassed stage gets its skipped event.
		next, ok := pipeline.Next(stage, domain.Options{Dub: true, Subs: true, ReplaceTextInFrame: true})
		if !ok {
			if err := e.variants.MarkDone(ctx, variant.ID); err != nil {
				return fmt.Errorf("orchestrator: mark variant done: %w", err)
			}
			e.emit(ctx, progress.Event{
				JobID:    job.ID,
				Stage:    pipeline.StagePack,
				Lang:     langPtr(variant.Lang),
				Status:   progress.StatusDone,
				Progress: 1.0,
			})
			return e.checkJobCompletion(ctx, job.ID)
		}
		if pipeline.Skip(next, job.Options) {
			e.emit(ctx, progress.Event{
				JobID:    job.ID,
				Stage:    next,
				Lang:     langPtr(variant.Lang),
				Status:   progress.StatusSkipped,
				Progress: 1.0,
			})
			stage = next
			continue
		}
		return e.dispatchStage(ctx, job, variant, asset, profile, next)
	}
}
