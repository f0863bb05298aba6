package store

import (
	"context"

	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssetRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error)
}

type assetRepo struct {
	db *gorm.DB
}

func NewAssetRepo(db *gorm.DB) AssetRepo {
	return &assetRepo{db: db}
}

func (r *assetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	var a domain.Asset
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &a, nil
}

type VoiceProfileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VoiceProfile, error)
}

type voiceProfileRepo struct {
	db *gorm.DB
}

func NewVoiceProfileRepo(db *gorm.DB) VoiceProfileRepo {
	return &voiceProfileRepo{db: db}
}

func (r *voiceProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VoiceProfile, error) {
	var p domain.VoiceProfile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &p, nil
}
