// Package domain holds the job/variant/asset data model shared by the
// orchestrator, stage workers and API façade.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobDone       JobStatus = "done"
	JobPartial    JobStatus = "partial"
	JobError      JobStatus = "error"
)

// JSONMap is a small map-backed GORM type for free-form Postgres JSONB
// columns (the variant's QC report, asset metadata, voice-profile
// parameters); Job.Options uses GORM's json serializer instead. A local
// type keeps JSONB semantics explicit without pulling in
// gorm.io/datatypes, whose JSON type targets MySQL.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(v any) error {
	if v == nil {
		*m = nil
		return nil
	}
	var b []byte
	switch t := v.(type) {
	case []byte:
		b = t
	case string:
		b = []byte(t)
	default:
		return errors.New("JSONMap: unsupported scan type")
	}
	if len(b) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(b, m)
}

// Options controls which optional pipeline stages run for a job.
type Options struct {
	Dub                 bool `json:"dub"`
	Subs                bool `json:"subs"`
	ReplaceTextInFrame  bool `json:"replace_text_in_frame"`
	UploadToYoutube     bool `json:"upload_to_youtube"`
}

// Job is the root localization request: one source asset fanned out into
// one Variant per target language.
type Job struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	SourceAssetID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"source_asset_id"`
	Languages       StringList `gorm:"type:text;not null" json:"languages"`
	VoiceProfileID  *uuid.UUID `gorm:"type:uuid" json:"voice_profile_id,omitempty"`
	Options         Options    `gorm:"type:jsonb;serializer:json" json:"options"`
	Status          JobStatus  `gorm:"type:text;not null;index" json:"status"`
	ErrorMessage    string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt       time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Job) TableName() string { return "localization_job" }

// StringList is a comma-free, JSON-encoded []string GORM column — avoids a
// join table for the small, frozen-at-creation languages list.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return json.Marshal([]string(l))
}

func (l *StringList) Scan(v any) error {
	if v == nil {
		*l = nil
		return nil
	}
	var b []byte
	switch t := v.(type) {
	case []byte:
		b = t
	case string:
		b = []byte(t)
	default:
		return errors.New("StringList: unsupported scan type")
	}
	if len(b) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(b, l)
}
