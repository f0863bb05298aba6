package store

import (
	"context"

	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/Atticdm/GloCalAI/internal/platform/dbctx"
	"gorm.io/gorm"
)

// CreateJobWithVariants inserts a job and its variants in one transaction
// so a variant insert failure never leaves an orphaned job row. It builds
// a dbctx.Context around the transaction handle rather than opening a
// second, tx-scoped repo pair, since only this one call site needs it.
func CreateJobWithVariants(ctx context.Context, db *gorm.DB, job *domain.Job, variants []domain.Variant) error {
	return db.Transaction(func(tx *gorm.DB) error {
		dc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := dc.Tx.WithContext(dc.Ctx).Create(job).Error; err != nil {
			return err
		}
		if len(variants) == 0 {
			return nil
		}
		return dc.Tx.WithContext(dc.Ctx).Create(&variants).Error
	})
}
