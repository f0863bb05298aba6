package store

import (
	"context"
	"testing"
	"time"

	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func seedJob(t *testing.T, db *gorm.DB) (*domain.Job, *domain.Variant) {
	t.Helper()
	ctx := context.Background()
	jobs := NewJobRepo(db)
	variants := NewVariantRepo(db)

	job := &domain.Job{
		ID:            uuid.New(),
		ProjectID:     uuid.New(),
		SourceAssetID: uuid.New(),
		Languages:     domain.StringList{"de"},
		Options:       domain.Options{Dub: true, Subs: true},
		Status:        domain.JobQueued,
		CreatedBy:     uuid.New(),
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	require.NoError(t, jobs.Create(ctx, job))

	variant := domain.Variant{
		ID:        uuid.New(),
		JobID:     job.ID,
		Lang:      "de",
		Status:    domain.VariantQueued,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, variants.CreateMany(ctx, []domain.Variant{variant}))

	return job, &variant
}

func TestVariantAdvanceStageIsIdempotentOnTerminal(t *testing.T) {
	db := openTestDB(t)
	_, variant := seedJob(t, db)
	variants := NewVariantRepo(db)
	ctx := context.Background()

	require.NoError(t, variants.MarkDone(ctx, variant.ID))

	advanced, err := variants.AdvanceStage(ctx, variant.ID, "qc")
	require.NoError(t, err)
	require.False(t, advanced)

	got, err := variants.GetByID(ctx, variant.ID)
	require.NoError(t, err)
	require.Equal(t, domain.VariantDone, got.Status)
}

func TestVariantMarkErrorNoOpWhenAlreadyTerminal(t *testing.T) {
	db := openTestDB(t)
	_, variant := seedJob(t, db)
	variants := NewVariantRepo(db)
	ctx := context.Background()

	changed, err := variants.MarkError(ctx, variant.ID, "boom")
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = variants.MarkError(ctx, variant.ID, "boom again")
	require.NoError(t, err)
	require.False(t, changed)

	got, err := variants.GetByID(ctx, variant.ID)
	require.NoError(t, err)
	require.Equal(t, "boom", got.ErrorMessage)
}

func TestJobUniqueJobLangConstraint(t *testing.T) {
	db := openTestDB(t)
	job, _ := seedJob(t, db)
	variants := NewVariantRepo(db)
	ctx := context.Background()

	dup := domain.Variant{ID: uuid.New(), JobID: job.ID, Lang: "de", Status: domain.VariantQueued}
	err := variants.CreateMany(ctx, []domain.Variant{dup})
	require.Error(t, err)
}

func TestCreateJobWithVariantsRollsBackOnVariantFailure(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	job := &domain.Job{
		ID: uuid.New(), ProjectID: uuid.New(), SourceAssetID: uuid.New(),
		Languages: domain.StringList{"de", "de"}, Options: domain.Options{},
		Status: domain.JobQueued, CreatedBy: uuid.New(),
	}
	dupID := uuid.New()
	variants := []domain.Variant{
		{ID: dupID, JobID: job.ID, Lang: "de", Status: domain.VariantQueued},
		{ID: dupID, JobID: job.ID, Lang: "de", Status: domain.VariantQueued},
	}

	err := CreateJobWithVariants(ctx, db, job, variants)
	require.Error(t, err)

	_, err = NewJobRepo(db).GetByID(ctx, job.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetArtifactsPreservesOtherColumns(t *testing.T) {
	db := openTestDB(t)
	_, variant := seedJob(t, db)
	variants := NewVariantRepo(db)
	ctx := context.Background()

	require.NoError(t, variants.SetArtifacts(ctx, variant.ID, map[string]any{"audio_url": "s3://bucket/a"}))
	require.NoError(t, variants.SetArtifacts(ctx, variant.ID, map[string]any{"video_url": "s3://bucket/v"}))

	got, err := variants.GetByID(ctx, variant.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AudioURL)
	require.Equal(t, "s3://bucket/a", *got.AudioURL)
	require.NotNil(t, got.VideoURL)
	require.Equal(t, "s3://bucket/v", *got.VideoURL)
}
