// Package dbctx bundles a request context with an optional transaction
// handle so repository methods can be called either standalone or as part
// of a larger transaction without two method signatures per call.
package dbctx

import (
	"context"

	"gorm.io/gorm"
)

type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
