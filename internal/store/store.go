// Package store holds the GORM-backed repositories for the job/variant/
// asset/voice-profile tables. Every mutation is either a single-row
// transactional update or an atomic per-column update so repeated calls
// from redelivered messages converge rather than accumulate.
package store

import (
	"context"
	"errors"

	"github.com/Atticdm/GloCalAI/internal/domain"
	"gorm.io/gorm"
)

// ErrNotFound is returned by Get* methods when the row does not exist.
var ErrNotFound = errors.New("store: record not found")

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Migrate creates/updates the schema for all domain tables. Called once at
// process startup by cmd/api and cmd/orchestrator.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(
		&domain.Job{},
		&domain.Variant{},
		&domain.Asset{},
		&domain.VoiceProfile{},
	)
}
