package worker

import (
	"context"
	"fmt"

	"github.com/Atticdm/GloCalAI/internal/objectstore"
	"github.com/Atticdm/GloCalAI/internal/pipeline"
	"github.com/Atticdm/GloCalAI/internal/worker/stage"
)

// NewProcessor builds the stage.Processor for name, wired to store with
// the out-of-scope media/provider calls stubbed to an error so a
// misconfigured deployment fails loudly instead of silently no-opping.
func NewProcessor(name string, st *objectstore.Store, tool MediaTool) (stage.Processor, error) {
	switch name {
	case pipeline.StageASR:
		return &stage.ASR{Store: st, Transcribe: notImplementedTranscribe}, nil
	case pipeline.StageTranslate:
		return &stage.Translate{Store: st, Do: notImplementedTranslate}, nil
	case pipeline.StageTTS:
		return &stage.TTS{Store: st, Synthesize: notImplementedSynthesize}, nil
	case pipeline.StageMix:
		return &stage.Mix{Store: st, Composite: notImplementedComposite(tool)}, nil
	case pipeline.StageSubs:
		return &stage.Subs{Store: st}, nil
	case pipeline.StageTextInFrame:
		return &stage.TextInFrame{Store: st, Overlay: notImplementedOverlay(tool)}, nil
	case pipeline.StageQC:
		return &stage.QC{Store: st, Inspect: notImplementedInspect}, nil
	default:
		return nil, fmt.Errorf("worker: unknown stage %q", name)
	}
}

// The provider/media-tooling integrations below are out of scope for this
// core (spec's "thin shells over libraries"). They return an explicit
// error so a real deployment's integration work is a drop-in replacement
// of these functions rather than a silent no-op.

func notImplementedTranscribe(ctx context.Context, assetKey string) ([]stage.Segment, error) {
	return nil, fmt.Errorf("worker: asr provider not configured")
}

func notImplementedTranslate(ctx context.Context, lang string, segments []stage.Segment) ([]stage.Segment, error) {
	return nil, fmt.Errorf("worker: translation provider not configured")
}

func notImplementedSynthesize(ctx context.Context, segments []stage.Segment, voiceParams map[string]any) ([]byte, error) {
	return nil, fmt.Errorf("worker: tts provider not configured")
}

func notImplementedComposite(tool MediaTool) func(ctx context.Context, videoKey, audioKey string) ([]byte, []byte, error) {
	return func(ctx context.Context, videoKey, audioKey string) ([]byte, []byte, error) {
		return nil, nil, fmt.Errorf("worker: mix media tool not configured")
	}
}

func notImplementedOverlay(tool MediaTool) func(ctx context.Context, videoKey, lang string) ([]byte, []byte, error) {
	return func(ctx context.Context, videoKey, lang string) ([]byte, []byte, error) {
		return nil, nil, fmt.Errorf("worker: textinframe media tool not configured")
	}
}

func notImplementedInspect(ctx context.Context, videoKey string) (map[string]any, error) {
	return nil, fmt.Errorf("worker: qc inspection tool not configured")
}
