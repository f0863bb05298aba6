package api

import "github.com/google/uuid"

// CreateJobRequest is the POST /jobs request body.
type CreateJobRequest struct {
	ProjectID      uuid.UUID  `json:"project_id" binding:"required"`
	SourceAssetID  uuid.UUID  `json:"source_asset_id" binding:"required"`
	Languages      []string   `json:"languages" binding:"required,min=1,dive,required"`
	VoiceProfileID *uuid.UUID `json:"voice_profile_id"`
	Options        OptionsDTO `json:"options"`
}

type OptionsDTO struct {
	Dub                bool `json:"dub"`
	Subs               bool `json:"subs"`
	ReplaceTextInFrame bool `json:"replace_text_in_frame"`
	UploadToYoutube    bool `json:"upload_to_youtube"`
}

type JobResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProjectID     uuid.UUID        `json:"project_id"`
	SourceAssetID uuid.UUID        `json:"source_asset_id"`
	Languages     []string         `json:"languages"`
	Status        string           `json:"status"`
	ErrorMessage  string           `json:"error_message,omitempty"`
	Variants      []VariantResponse `json:"variants"`
}

type VariantResponse struct {
	ID         uuid.UUID `json:"id"`
	Lang       string    `json:"lang"`
	Status     string    `json:"status"`
	VideoURL   *string   `json:"video_url,omitempty"`
	AudioURL   *string   `json:"audio_url,omitempty"`
	SubsURL    *string   `json:"subs_url,omitempty"`
	PreviewURL *string   `json:"preview_url,omitempty"`
}
