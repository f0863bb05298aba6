// Package stage implements the per-pipeline-stage transformations. Each
// Processor is a thin shell: it reads its inputs from the object store by
// deterministic key, hands them to the stage's provider/media function,
// uploads what it produced, and returns the artifact keys. The media
// tooling itself (ffmpeg invocations, ASR/TTS provider calls, audio
// analysis) is out of scope for this core; each Processor's function
// field (Transcribe, Do, Synthesize, Composite, Overlay, Inspect) is the
// seam a real implementation plugs into.
package stage

import (
	"context"

	"github.com/Atticdm/GloCalAI/internal/domain"
)

// Input is everything a Processor needs to do its work. Object keys for a
// stage's actual data dependencies (which may be several stages back, not
// just the immediately preceding one in pipeline order — subs depends on
// translate, textinframe depends on mix) are derived by each Processor
// from JobID/Lang via objectstore.Key rather than threaded through here,
// since the key layout is deterministic.
type Input struct {
	JobID      string
	VariantID  string
	Lang       string
	BasePrefix string
	WorkDir    string
	// AssetKey is the job's original source asset key in object storage.
	AssetKey           string
	VoiceProfileParams map[string]any
	Options            domain.Options
}

// Output is the set of artifact keys a Processor produced, already
// uploaded to object storage under <base_prefix>/<stage>/... by the time
// Process returns. Empty fields mean that artifact wasn't produced.
type Output struct {
	VideoKey   string
	PreviewKey string
	AudioKey   string
	SubsKey    string
	ReportKey  string
}

// Processor runs one pipeline stage for one variant. Implementations must
// be idempotent: re-running with the same Input must converge to the same
// Output and overwrite rather than accumulate object-store artifacts.
type Processor interface {
	Stage() string
	Process(ctx context.Context, in Input) (Output, error)
}
