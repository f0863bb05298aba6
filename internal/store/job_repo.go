package store

import (
	"context"
	"time"

	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobRepo persists localization_job rows.
type JobRepo interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	GetWithVariants(ctx context.Context, id uuid.UUID) (*domain.Job, []domain.Variant, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus, errMsg string) error
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepo {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	var job domain.Job
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &job, nil
}

// GetWithVariants loads a job and then all of its variants (two queries).
// Used by the orchestrator's job-completion check, which needs every
// variant's terminal status at once.
func (r *jobRepo) GetWithVariants(ctx context.Context, id uuid.UUID) (*domain.Job, []domain.Variant, error) {
	var job domain.Job
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, nil, wrapNotFound(err)
	}
	var variants []domain.Variant
	if err := r.db.WithContext(ctx).Where("job_id = ?", id).Find(&variants).Error; err != nil {
		return nil, nil, err
	}
	return &job, variants, nil
}

// UpdateStatus is an atomic per-column update; it never touches languages,
// options or other columns, so it is safe to call repeatedly.
func (r *jobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus, errMsg string) error {
	return r.db.WithContext(ctx).Model(&domain.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        status,
			"error_message": errMsg,
			"updated_at":    time.Now().UTC(),
		}).Error
}
