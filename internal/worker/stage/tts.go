package stage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Atticdm/GloCalAI/internal/objectstore"
)

// TTS synthesizes a dubbed audio track from the translated segments using
// the variant's voice profile. The synthesis call itself is out of scope;
// Synthesize is the seam a real TTS provider integration plugs into.
type TTS struct {
	Store      *objectstore.Store
	Synthesize func(ctx context.Context, segments []Segment, voiceParams map[string]any) ([]byte, error)
}

func (t *TTS) Stage() string { return "tts" }

func (t *TTS) Process(ctx context.Context, in Input) (Output, error) {
	translateKey := objectstore.Key(in.JobID, in.Lang, "translate", "segments.json")
	body, err := t.Store.Get(ctx, translateKey)
	if err != nil {
		return Output{}, fmt.Errorf("tts: fetch translated segments: %w", err)
	}
	var segments []Segment
	if err := json.Unmarshal(body, &segments); err != nil {
		return Output{}, fmt.Errorf("tts: decode segments: %w", err)
	}

	track, err := t.Synthesize(ctx, segments, in.VoiceProfileParams)
	if err != nil {
		return Output{}, fmt.Errorf("tts: synthesize: %w", err)
	}

	key := objectstore.Key(in.JobID, in.Lang, "tts", "track.wav")
	if err := t.Store.Put(ctx, key, track, "audio/wav"); err != nil {
		return Output{}, err
	}
	return Output{AudioKey: key}, nil
}
