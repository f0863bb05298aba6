package api

import (
	"context"
	"net/http"

	"github.com/Atticdm/GloCalAI/internal/bus"
	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/Atticdm/GloCalAI/internal/platform/apierr"
	"github.com/Atticdm/GloCalAI/internal/platform/logger"
	"github.com/Atticdm/GloCalAI/internal/sse"
	"github.com/Atticdm/GloCalAI/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Publisher is the narrow slice of *bus.Conn the handler needs to publish
// job.created; a fake satisfying it is enough to test Create without a
// broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

var _ Publisher = (*bus.Conn)(nil)

// JobHandler implements the job creation and read endpoints. Request
// authentication is out of scope for this core; RequireAuth in
// middleware.go is the seam a real deployment wires in front of it.
type JobHandler struct {
	Jobs     store.JobRepo
	Variants store.VariantRepo
	// DB backs the one transactional write Create needs (job + variants
	// in a single commit); every other access goes through Jobs/Variants.
	DB  *gorm.DB
	Bus Publisher
	Log *logger.Logger
}

func uniqueNonEmpty(langs []string) bool {
	if len(langs) == 0 {
		return false
	}
	seen := make(map[string]bool, len(langs))
	for _, l := range langs {
		if l == "" || seen[l] {
			return false
		}
		seen[l] = true
	}
	return true
}

func (h *JobHandler) Create(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apierr.New(http.StatusBadRequest, "invalid_request", err))
		return
	}
	if !uniqueNonEmpty(req.Languages) {
		_ = c.Error(apierr.New(http.StatusBadRequest, "invalid_languages", errLanguagesNotUnique))
		return
	}

	job := &domain.Job{
		ID:             uuid.New(),
		ProjectID:      req.ProjectID,
		SourceAssetID:  req.SourceAssetID,
		Languages:      domain.StringList(req.Languages),
		VoiceProfileID: req.VoiceProfileID,
		Options: domain.Options{
			Dub:                req.Options.Dub,
			Subs:               req.Options.Subs,
			ReplaceTextInFrame: req.Options.ReplaceTextInFrame,
			UploadToYoutube:    req.Options.UploadToYoutube,
		},
		Status:    domain.JobQueued,
		CreatedBy: requestingUserID(c),
	}
	variants := make([]domain.Variant, 0, len(req.Languages))
	for _, lang := range req.Languages {
		variants = append(variants, domain.Variant{
			ID:     uuid.New(),
			JobID:  job.ID,
			Lang:   lang,
			Status: domain.VariantQueued,
		})
	}
	if err := store.CreateJobWithVariants(c.Request.Context(), h.DB, job, variants); err != nil {
		_ = c.Error(apierr.New(http.StatusInternalServerError, "job_create_failed", err))
		return
	}

	msg := domain.JobCreated{
		SchemaVersion:  domain.CurrentSchemaVersion,
		JobID:          job.ID,
		ProjectID:      job.ProjectID,
		Languages:      req.Languages,
		VoiceProfileID: job.VoiceProfileID,
		Options:        job.Options,
	}
	if err := h.Bus.Publish(c.Request.Context(), bus.RoutingJobCreated, msg); err != nil {
		h.Log.Error("api: publish job.created failed", "job_id", job.ID, "err", err)
		_ = c.Error(apierr.New(http.StatusInternalServerError, "job_dispatch_failed", err))
		return
	}

	c.JSON(http.StatusCreated, toJobResponse(job, variants))
}

func (h *JobHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(apierr.New(http.StatusBadRequest, "invalid_id", err))
		return
	}
	job, variants, err := h.Jobs.GetWithVariants(c.Request.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			_ = c.Error(apierr.New(http.StatusNotFound, "job_not_found", err))
			return
		}
		_ = c.Error(apierr.New(http.StatusInternalServerError, "job_lookup_failed", err))
		return
	}
	c.JSON(http.StatusOK, toJobResponse(job, variants))
}

func toJobResponse(job *domain.Job, variants []domain.Variant) JobResponse {
	vr := make([]VariantResponse, 0, len(variants))
	for _, v := range variants {
		vr = append(vr, VariantResponse{
			ID:         v.ID,
			Lang:       v.Lang,
			Status:     string(v.Status),
			VideoURL:   v.VideoURL,
			AudioURL:   v.AudioURL,
			SubsURL:    v.SubsURL,
			PreviewURL: v.PreviewURL,
		})
	}
	return JobResponse{
		ID:            job.ID,
		ProjectID:     job.ProjectID,
		SourceAssetID: job.SourceAssetID,
		Languages:     []string(job.Languages),
		Status:        string(job.Status),
		ErrorMessage:  job.ErrorMessage,
		Variants:      vr,
	}
}

// EventsHandler serves the SSE relay for one job.
type EventsHandler struct {
	Relay *sse.Relay
}

func (h *EventsHandler) Serve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(apierr.New(http.StatusBadRequest, "invalid_id", err))
		return
	}
	h.Relay.ServeJob(c.Writer, c.Request, id)
}
