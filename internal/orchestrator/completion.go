package orchestrator

import (
	"context"
	"fmt"

	"github.com/Atticdm/GloCalAI/internal/bus"
	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/Atticdm/GloCalAI/internal/progress"
	"github.com/google/uuid"
)

// checkJobCompletion re-evaluates a job's terminal status from its
// variants' current rows. It must be called under the job's lock. The
// job-row terminal status is only finalized once every variant is
// terminal, so a variant that later completes can still qualify the job
// as partial rather than leaving a premature error row in place.
func (e *Engine) checkJobCompletion(ctx context.Context, jobID uuid.UUID) error {
	job, variants, err := e.jobs.GetWithVariants(ctx, jobID)
	if err != nil {
		return fmt.Errorf("orchestrator: load job %s for completion check: %w", jobID, err)
	}

	var done, failed, active int
	for _, v := range variants {
		switch v.Status {
		case domain.VariantDone:
			done++
		case domain.VariantError:
			failed++
		default:
			active++
		}
	}

	if active > 0 {
		return nil
	}

	switch {
	case failed == 0:
		if err := e.jobs.UpdateStatus(ctx, jobID, domain.JobDone, ""); err != nil {
			return fmt.Errorf("orchestrator: set job done: %w", err)
		}
		e.emit(ctx, progress.Event{JobID: jobID, Stage: "job", Status: progress.StatusDone, Progress: 1.0})
		return e.dispatchYoutubeHook(ctx, job, variants)
	case done > 0:
		return e.jobs.UpdateStatus(ctx, jobID, domain.JobPartial, "")
	default:
		return e.jobs.UpdateStatus(ctx, jobID, domain.JobError, "")
	}
}

// dispatchYoutubeHook publishes one youtube.upload message per variant
// when the job finished fully done with upload_to_youtube set. This is
// not a pipeline stage: a publish failure here is logged only and never
// reopens the job.
func (e *Engine) dispatchYoutubeHook(ctx context.Context, job *domain.Job, variants []domain.Variant) error {
	if !job.Options.UploadToYoutube {
		return nil
	}
	for _, v := range variants {
		msg := domain.YoutubeUpload{
			SchemaVersion: domain.CurrentSchemaVersion,
			JobID:         job.ID,
			VariantID:     v.ID,
			Lang:          v.Lang,
		}
		if v.VideoURL != nil {
			msg.VideoURL = *v.VideoURL
		}
		if v.SubsURL != nil {
			msg.SubsURL = *v.SubsURL
		}
		if err := e.bus.Publish(ctx, bus.RoutingYoutubeUpload, msg); err != nil {
			e.log.Error("orchestrator: youtube upload hook publish failed", "job_id", job.ID, "variant_id", v.ID, "err", err)
		}
	}
	return nil
}
