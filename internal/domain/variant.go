package domain

import (
	"time"

	"github.com/google/uuid"
)

type VariantStatus string

const (
	VariantQueued     VariantStatus = "queued"
	VariantProcessing VariantStatus = "processing"
	VariantDone       VariantStatus = "done"
	VariantError      VariantStatus = "error"
)

// Variant is a single target-language instantiation of a Job. Artifact URL
// columns are written only by the stage that produces them and are frozen
// once the variant reaches a terminal state.
type Variant struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_variant_job_lang" json:"job_id"`
	Lang   string    `gorm:"type:text;not null;uniqueIndex:idx_variant_job_lang" json:"lang"`
	Status VariantStatus `gorm:"type:text;not null;index" json:"status"`

	// LastCompletedStage is the furthest stage this variant has recorded a
	// completion for. A result reported for a stage at or before this value
	// is a redelivery or a race against a newer result and is a no-op.
	LastCompletedStage string `gorm:"type:text" json:"last_completed_stage,omitempty"`

	VideoURL    *string `gorm:"type:text" json:"video_url,omitempty"`
	AudioURL    *string `gorm:"type:text" json:"audio_url,omitempty"`
	SubsURL     *string `gorm:"type:text" json:"subs_url,omitempty"`
	PreviewURL  *string `gorm:"type:text" json:"preview_url,omitempty"`
	Report      JSONMap `gorm:"type:jsonb" json:"report,omitempty"`

	ErrorMessage string    `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Variant) TableName() string { return "localized_variant" }

// IsTerminal reports whether the variant has reached done or error.
func (v Variant) IsTerminal() bool {
	return v.Status == VariantDone || v.Status == VariantError
}
