package store

import (
	"context"
	"time"

	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VariantRepo persists localized_variant rows.
type VariantRepo interface {
	CreateMany(ctx context.Context, variants []domain.Variant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Variant, error)
	GetByJobAndLang(ctx context.Context, jobID uuid.UUID, lang string) (*domain.Variant, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.Variant, error)

	// SetProcessing marks a variant processing, used when a job first
	// dispatches its first stage to every variant.
	SetProcessing(ctx context.Context, id uuid.UUID) error

	// AdvanceStage bumps status/LastCompletedStage for a non-terminal
	// variant. Artifact/report columns belong to the stage worker that
	// produced them and are never touched here. It reports whether the
	// row was actually advanced.
	AdvanceStage(ctx context.Context, id uuid.UUID, stage string) (bool, error)

	// SetArtifacts is called by a stage worker to atomically write only
	// the columns it owns, preserving every other column. Safe to call
	// repeatedly with the same values (idempotent under redelivery).
	SetArtifacts(ctx context.Context, id uuid.UUID, fields map[string]any) error

	// MarkDone freezes the variant in its done state; frozen artifact
	// columns must not be touched by any later call.
	MarkDone(ctx context.Context, id uuid.UUID) error

	// MarkError freezes the variant in its error state with a message;
	// a no-op if the variant is already terminal.
	MarkError(ctx context.Context, id uuid.UUID, message string) (bool, error)
}

type variantRepo struct {
	db *gorm.DB
}

func NewVariantRepo(db *gorm.DB) VariantRepo {
	return &variantRepo{db: db}
}

func (r *variantRepo) CreateMany(ctx context.Context, variants []domain.Variant) error {
	if len(variants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&variants).Error
}

func (r *variantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Variant, error) {
	var v domain.Variant
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &v, nil
}

func (r *variantRepo) GetByJobAndLang(ctx context.Context, jobID uuid.UUID, lang string) (*domain.Variant, error) {
	var v domain.Variant
	if err := r.db.WithContext(ctx).First(&v, "job_id = ? AND lang = ?", jobID, lang).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &v, nil
}

func (r *variantRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.Variant, error) {
	var variants []domain.Variant
	if err := r.db.WithContext(ctx).Where("job_id = ?", jobID).Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *variantRepo) SetProcessing(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Variant{}).
		Where("id = ? AND status = ?", id, domain.VariantQueued).
		Updates(map[string]any{
			"status":     domain.VariantProcessing,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *variantRepo) AdvanceStage(ctx context.Context, id uuid.UUID, stage string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Variant{}).
		Where("id = ? AND status NOT IN ?", id, []domain.VariantStatus{domain.VariantDone, domain.VariantError}).
		Updates(map[string]any{
			"last_completed_stage": stage,
			"status":               domain.VariantProcessing,
			"updated_at":           time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetArtifacts performs an atomic per-column update scoped to the fields
// map; it never mutates status or LastCompletedStage, and it is a no-op
// once the variant is terminal (done or error).
func (r *variantRepo) SetArtifacts(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["updated_at"] = time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.Variant{}).
		Where("id = ? AND status NOT IN ?", id, []domain.VariantStatus{domain.VariantDone, domain.VariantError}).
		Updates(updates).Error
}

func (r *variantRepo) MarkDone(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Variant{}).
		Where("id = ? AND status != ?", id, domain.VariantError).
		Updates(map[string]any{
			"status":     domain.VariantDone,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *variantRepo) MarkError(ctx context.Context, id uuid.UUID, message string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Variant{}).
		Where("id = ? AND status NOT IN ?", id, []domain.VariantStatus{domain.VariantDone, domain.VariantError}).
		Updates(map[string]any{
			"status":        domain.VariantError,
			"error_message": message,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
