package domain

import (
	"time"

	"github.com/google/uuid"
)

type AssetType string

const (
	AssetVideo AssetType = "video"
	AssetImage AssetType = "image"
	AssetText  AssetType = "text"
)

// Asset is a source file registered for localization.
type Asset struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Type      AssetType `gorm:"type:text;not null" json:"type"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	Metadata  JSONMap   `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Asset) TableName() string { return "asset" }

// VoiceProfile names a TTS voice and the opaque parameters its provider
// needs to synthesize with it.
type VoiceProfile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	Provider   string    `gorm:"type:text;not null" json:"provider"`
	Parameters JSONMap   `gorm:"type:jsonb" json:"parameters,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (VoiceProfile) TableName() string { return "voice_profile" }
