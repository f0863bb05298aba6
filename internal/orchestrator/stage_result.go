package orchestrator

import (
	"context"
	"fmt"

	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/Atticdm/GloCalAI/internal/pipeline"
	"github.com/Atticdm/GloCalAI/internal/progress"
)

// HandleStageResult processes one worker completion or failure. Malformed
// results are dropped silently per the envelope-malformed error kind.
func (e *Engine) HandleStageResult(ctx context.Context, result domain.StageResult) error {
	if !result.Valid() {
		e.log.Warn("orchestrator: dropping malformed stage result", "raw", result)
		return nil
	}

	return e.withJobLock(result.JobID, func() error {
		if result.Status == domain.StageFailed {
			return e.handleStageFailure(ctx, result)
		}
		return e.handleStageCompleted(ctx, result)
	})
}

func (e *Engine) handleStageFailure(ctx context.Context, result domain.StageResult) error {
	changed, err := e.variants.MarkError(ctx, result.VariantID, result.Error)
	if err != nil {
		return fmt.Errorf("orchestrator: mark variant error: %w", err)
	}
	if !changed {
		// Variant already terminal: a duplicate or late-arriving failure.
		return nil
	}

	e.emit(ctx, progress.Event{
		JobID:    result.JobID,
		Stage:    result.Stage,
		Lang:     langPtr(result.Lang),
		Status:   progress.StatusError,
		Progress: 0,
		Message:  result.Error,
	})

	return e.checkJobCompletion(ctx, result.JobID)
}

func (e *Engine) handleStageCompleted(ctx context.Context, result domain.StageResult) error {
	variant, err := e.variants.GetByID(ctx, result.VariantID)
	if err != nil {
		return fmt.Errorf("orchestrator: load variant %s: %w", result.VariantID, err)
	}

	// A completion for a stage the variant has already passed (or is
	// already terminal past) is a redelivery or a race against a newer
	// result and must be a no-op.
	if variant.IsTerminal() || !pipeline.IsAfter(result.Stage, variant.LastCompletedStage) {
		return nil
	}

	advanced, err := e.variants.AdvanceStage(ctx, variant.ID, result.Stage)
	if err != nil {
		return fmt.Errorf("orchestrator: advance stage %s: %w", result.Stage, err)
	}
	if !advanced {
		return nil
	}
	variant.LastCompletedStage = result.Stage

	e.emit(ctx, progress.Event{
		JobID:    result.JobID,
		Stage:    result.Stage,
		Lang:     langPtr(result.Lang),
		Status:   progress.StatusDone,
		Progress: 1.0,
	})

	job, err := e.jobs.GetByID(ctx, result.JobID)
	if err != nil {
		return fmt.Errorf("orchestrator: load job %s: %w", result.JobID, err)
	}
	asset, err := e.assets.GetByID(ctx, job.SourceAssetID)
	if err != nil {
		return fmt.Errorf("orchestrator: load asset for job %s: %w", job.ID, err)
	}
	var profile *domain.VoiceProfile
	if job.VoiceProfileID != nil {
		profile, err = e.voices.GetByID(ctx, *job.VoiceProfileID)
		if err != nil {
			return fmt.Errorf("orchestrator: load voice profile: %w", err)
		}
	}

	return e.advanceOrFinish(ctx, job, variant, asset, profile, result.Stage)
}

