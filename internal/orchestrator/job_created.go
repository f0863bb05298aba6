package orchestrator

import (
	"context"
	"fmt"

	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/Atticdm/GloCalAI/internal/progress"
	"github.com/google/uuid"
)

// HandleJobCreated loads the job's asset and optional voice profile,
// transitions the job to processing, and dispatches every variant's first
// non-skipped stage. The orchestrator never hard-codes "asr" as the first
// stage; it always consults pipeline.Next so the pipeline stays
// option-driven end to end.
func (e *Engine) HandleJobCreated(ctx context.Context, jobID string) error {
	id, err := uuid.Parse(jobID)
	if err != nil {
		e.log.Warn("orchestrator: malformed job.created id", "raw", jobID)
		return nil
	}

	return e.withJobLock(id, func() error {
		job, variants, err := e.jobs.GetWithVariants(ctx, id)
		if err != nil {
			return fmt.Errorf("orchestrator: load job %s: %w", id, err)
		}

		asset, err := e.assets.GetByID(ctx, job.SourceAssetID)
		if err != nil {
			e.log.Error("orchestrator: source asset missing", "job_id", id, "asset_id", job.SourceAssetID)
			if uerr := e.jobs.UpdateStatus(ctx, id, domain.JobError, "Source asset missing"); uerr != nil {
				return uerr
			}
			e.emit(ctx, progress.Event{
				JobID:    id,
				Stage:    "job",
				Status:   progress.StatusError,
				Progress: 0,
				Message:  "Source asset missing",
			})
			return nil
		}

		var profile *domain.VoiceProfile
		if job.VoiceProfileID != nil {
			profile, err = e.voices.GetByID(ctx, *job.VoiceProfileID)
			if err != nil {
				e.log.Error("orchestrator: voice profile missing", "job_id", id, "voice_profile_id", *job.VoiceProfileID)
				if uerr := e.jobs.UpdateStatus(ctx, id, domain.JobError, "Voice profile missing"); uerr != nil {
					return uerr
				}
				e.emit(ctx, progress.Event{
					JobID:    id,
					Stage:    "job",
					Status:   progress.StatusError,
					Progress: 0,
					Message:  "Voice profile missing",
				})
				return nil
			}
		}

		if err := e.jobs.UpdateStatus(ctx, id, domain.JobProcessing, ""); err != nil {
			return fmt.Errorf("orchestrator: set job processing: %w", err)
		}

		for i := range variants {
			v := variants[i]
			if err := e.variants.SetProcessing(ctx, v.ID); err != nil {
				return fmt.Errorf("orchestrator: set variant processing: %w", err)
			}
			if err := e.advanceOrFinish(ctx, job, &v, asset, profile, ""); err != nil {
				return err
			}
		}
		return nil
	})
}
