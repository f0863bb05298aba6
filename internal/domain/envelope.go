package domain

import "github.com/google/uuid"

// SchemaVersion is carried on every bus message so future stage additions
// can evolve the wire format without breaking workers built against an
// older version. This build always emits CurrentSchemaVersion and does not
// check the field on messages it decodes.
const CurrentSchemaVersion = 1

// AssetRef identifies a source asset in object storage, as carried in a
// StageEnvelope rather than re-fetched from the DB by every worker.
type AssetRef struct {
	Key  string    `json:"key"`
	Type AssetType `json:"type"`
}

// StageEnvelope is the message the orchestrator publishes to dispatch one
// stage of work for one variant. It is always rebuilt from persisted state
// immediately before publish, so replaying it is always safe.
type StageEnvelope struct {
	SchemaVersion int           `json:"schema_version"`
	JobID         uuid.UUID     `json:"job_id"`
	VariantID     uuid.UUID     `json:"variant_id"`
	Lang          string        `json:"lang"`
	Stage         string        `json:"stage"`
	Source        AssetRef      `json:"source"`
	Options       Options       `json:"options"`
	VoiceProfile  *VoiceProfile `json:"voice_profile,omitempty"`
	BasePrefix    string        `json:"base_prefix"`
}

// StageResultStatus is the worker-reported outcome of a stage run.
type StageResultStatus string

const (
	StageCompleted StageResultStatus = "completed"
	StageFailed    StageResultStatus = "error"
)

// StageResult is the message a worker publishes back to the orchestrator
// once it has reached a terminal outcome for one stage of one variant.
type StageResult struct {
	SchemaVersion int               `json:"schema_version"`
	JobID         uuid.UUID         `json:"job_id"`
	VariantID     uuid.UUID         `json:"variant_id"`
	Lang          string            `json:"lang"`
	Stage         string            `json:"stage"`
	Status        StageResultStatus `json:"status"`
	Error         string            `json:"error,omitempty"`

	VideoKey   string `json:"video_key,omitempty"`
	PreviewKey string `json:"preview_key,omitempty"`
	AudioKey   string `json:"audio_key,omitempty"`
	SubsKey    string `json:"subs_key,omitempty"`
	ReportKey  string `json:"report_key,omitempty"`
}

// Valid reports whether the mandatory identifying fields of a StageResult
// are present. A result missing any of these is malformed and the
// orchestrator drops it silently rather than acting on partial data.
func (r StageResult) Valid() bool {
	return r.JobID != uuid.Nil &&
		r.VariantID != uuid.Nil &&
		r.Lang != "" &&
		r.Stage != "" &&
		(r.Status == StageCompleted || r.Status == StageFailed)
}

// JobCreated is the ingress message published by the API façade when a job
// is inserted.
type JobCreated struct {
	SchemaVersion  int       `json:"schema_version"`
	JobID          uuid.UUID `json:"job_id"`
	ProjectID      uuid.UUID `json:"project_id"`
	Languages      []string  `json:"languages"`
	VoiceProfileID *uuid.UUID `json:"voice_profile_id,omitempty"`
	Options        Options   `json:"options"`
	SourceAsset    AssetRef  `json:"source_asset"`
}

// YoutubeUpload is the post-pipeline hook message published once per
// variant when a job finishes `done` with upload_to_youtube=true.
type YoutubeUpload struct {
	SchemaVersion int       `json:"schema_version"`
	JobID         uuid.UUID `json:"job_id"`
	VariantID     uuid.UUID `json:"variant_id"`
	Lang          string    `json:"lang"`
	VideoURL      string    `json:"video_url"`
	SubsURL       string    `json:"subs_url,omitempty"`
}
