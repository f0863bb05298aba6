package orchestrator_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/Atticdm/GloCalAI/internal/orchestrator"
	"github.com/Atticdm/GloCalAI/internal/platform/logger"
	"github.com/Atticdm/GloCalAI/internal/progress"
	"github.com/Atticdm/GloCalAI/internal/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeBus struct {
	mu        sync.Mutex
	published []publishedMsg
}

type publishedMsg struct {
	RoutingKey string
	Payload    any
}

func (f *fakeBus) Publish(ctx context.Context, routingKey string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, publishedMsg{RoutingKey: routingKey, Payload: payload})
	return nil
}

func (f *fakeBus) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.published))
	for i, m := range f.published {
		out[i] = m.RoutingKey
	}
	return out
}

type testRig struct {
	db       *gorm.DB
	engine   *orchestrator.Engine
	bus      *fakeBus
	jobs     store.JobRepo
	variants store.VariantRepo
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_busy_timeout=5000"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background(), db))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	fb := &fakeBus{}
	jobs := store.NewJobRepo(db)
	variants := store.NewVariantRepo(db)
	assets := store.NewAssetRepo(db)
	voices := store.NewVoiceProfileRepo(db)

	engine := orchestrator.New(jobs, variants, assets, voices, fb, progress.NewPublisher(rdb), logger.NewNop())
	return &testRig{db: db, engine: engine, bus: fb, jobs: jobs, variants: variants}
}

func (r *testRig) insertAsset(t *testing.T) *domain.Asset {
	t.Helper()
	a := &domain.Asset{ID: uuid.New(), ProjectID: uuid.New(), Type: domain.AssetVideo, URL: "source/video.mp4", CreatedAt: time.Now().UTC()}
	require.NoError(t, r.db.Create(a).Error)
	return a
}

func (r *testRig) createJob(t *testing.T, assetID uuid.UUID, opts domain.Options, langs ...string) *domain.Job {
	t.Helper()
	ctx := context.Background()
	job := &domain.Job{
		ID: uuid.New(), ProjectID: uuid.New(), SourceAssetID: assetID,
		Languages: domain.StringList(langs), Options: opts, Status: domain.JobQueued, CreatedBy: uuid.New(),
	}
	require.NoError(t, r.jobs.Create(ctx, job))

	variants := make([]domain.Variant, 0, len(langs))
	for _, lang := range langs {
		variants = append(variants, domain.Variant{ID: uuid.New(), JobID: job.ID, Lang: lang, Status: domain.VariantQueued})
	}
	require.NoError(t, r.variants.CreateMany(ctx, variants))
	return job
}

func (r *testRig) variantByLang(t *testing.T, jobID uuid.UUID, lang string) *domain.Variant {
	t.Helper()
	v, err := r.variants.GetByJobAndLang(context.Background(), jobID, lang)
	require.NoError(t, err)
	return v
}

func TestHandleJobCreatedMissingAssetSetsJobError(t *testing.T) {
	r := newTestRig(t)
	ctx := context.Background()

	job := r.createJob(t, uuid.New(), domain.Options{}, "de")

	require.NoError(t, r.engine.HandleJobCreated(ctx, job.ID.String()))

	got, err := r.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, domain.JobError, got.Status)
	require.Equal(t, "Source asset missing", got.ErrorMessage)
	require.Empty(t, r.bus.keys())
}

func TestHandleJobCreatedDispatchesFirstStage(t *testing.T) {
	r := newTestRig(t)
	ctx := context.Background()
	asset := r.insertAsset(t)

	job := r.createJob(t, asset.ID, domain.Options{Dub: true, Subs: true}, "de")

	require.NoError(t, r.engine.HandleJobCreated(ctx, job.ID.String()))

	require.Equal(t, []string{"stage.asr"}, r.bus.keys())

	got, err := r.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, domain.JobProcessing, got.Status)
}

func TestStageResultAdvancesToNextNonSkippedStage(t *testing.T) {
	r := newTestRig(t)
	ctx := context.Background()
	asset := r.insertAsset(t)

	job := r.createJob(t, asset.ID, domain.Options{Dub: false, Subs: true}, "de")
	require.NoError(t, r.engine.HandleJobCreated(ctx, job.ID.String()))
	v := r.variantByLang(t, job.ID, "de")

	require.NoError(t, r.engine.HandleStageResult(ctx, domain.StageResult{
		JobID: job.ID, VariantID: v.ID, Lang: "de", Stage: "asr", Status: domain.StageCompleted,
	}))

	// dub=false skips tts, so after asr the next dispatched stage must be
	// translate, and after translate the next must be mix (tts skipped).
	require.NoError(t, r.engine.HandleStageResult(ctx, domain.StageResult{
		JobID: job.ID, VariantID: v.ID, Lang: "de", Stage: "translate", Status: domain.StageCompleted,
	}))

	require.Equal(t, []string{"stage.asr", "stage.translate", "stage.mix"}, r.bus.keys())
}

func TestDuplicateStageCompletionIsNoOp(t *testing.T) {
	r := newTestRig(t)
	ctx := context.Background()
	asset := r.insertAsset(t)

	job := r.createJob(t, asset.ID, domain.Options{Dub: false, Subs: false}, "de")
	require.NoError(t, r.engine.HandleJobCreated(ctx, job.ID.String()))
	v := r.variantByLang(t, job.ID, "de")

	result := domain.StageResult{JobID: job.ID, VariantID: v.ID, Lang: "de", Stage: "asr", Status: domain.StageCompleted}
	require.NoError(t, r.engine.HandleStageResult(ctx, result))
	require.NoError(t, r.engine.HandleStageResult(ctx, result))

	// Exactly one "translate" dispatch despite two identical completions.
	require.Equal(t, []string{"stage.asr", "stage.translate"}, r.bus.keys())
}

func TestPartialFailureAcrossVariants(t *testing.T) {
	r := newTestRig(t)
	ctx := context.Background()
	asset := r.insertAsset(t)

	job := r.createJob(t, asset.ID, domain.Options{Dub: true, Subs: false}, "de", "fr")
	require.NoError(t, r.engine.HandleJobCreated(ctx, job.ID.String()))

	de := r.variantByLang(t, job.ID, "de")
	fr := r.variantByLang(t, job.ID, "fr")

	for _, stage := range []string{"asr", "translate", "tts", "mix", "qc"} {
		require.NoError(t, r.engine.HandleStageResult(ctx, domain.StageResult{
			JobID: job.ID, VariantID: de.ID, Lang: "de", Stage: stage, Status: domain.StageCompleted,
		}))
	}
	require.NoError(t, r.engine.HandleStageResult(ctx, domain.StageResult{
		JobID: job.ID, VariantID: fr.ID, Lang: "fr", Stage: "tts", Status: domain.StageFailed, Error: "tts boom",
	}))

	gotJob, err := r.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, domain.JobPartial, gotJob.Status)

	gotDe, err := r.variants.GetByID(ctx, de.ID)
	require.NoError(t, err)
	require.Equal(t, domain.VariantDone, gotDe.Status)

	gotFr, err := r.variants.GetByID(ctx, fr.ID)
	require.NoError(t, err)
	require.Equal(t, domain.VariantError, gotFr.Status)
}

func TestYoutubeHookFiresOnlyOnFullSuccess(t *testing.T) {
	r := newTestRig(t)
	ctx := context.Background()
	asset := r.insertAsset(t)

	job := r.createJob(t, asset.ID, domain.Options{Dub: false, Subs: false, UploadToYoutube: true}, "de")
	require.NoError(t, r.engine.HandleJobCreated(ctx, job.ID.String()))
	v := r.variantByLang(t, job.ID, "de")

	for _, stage := range []string{"asr", "translate", "mix", "qc"} {
		require.NoError(t, r.engine.HandleStageResult(ctx, domain.StageResult{
			JobID: job.ID, VariantID: v.ID, Lang: "de", Stage: stage, Status: domain.StageCompleted,
		}))
	}

	found := false
	for _, k := range r.bus.keys() {
		if k == "youtube.upload" {
			found = true
		}
	}
	require.True(t, found)
}
