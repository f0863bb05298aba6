package stage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Atticdm/GloCalAI/internal/objectstore"
	"github.com/Atticdm/GloCalAI/internal/worker/subtitles"
)

// Segment is a single timed transcript/translation unit shared by the asr,
// translate and subs stages.
type Segment struct {
	StartMS int    `json:"start_ms"`
	EndMS   int    `json:"end_ms"`
	Text    string `json:"text"`
}

// ASR transcribes the source audio track into timed segments. The actual
// speech-recognition call is out of scope here; Transcribe is the seam a
// real provider integration plugs into.
type ASR struct {
	Store      *objectstore.Store
	Transcribe func(ctx context.Context, sourceKey string) ([]Segment, error)
}

func (a *ASR) Stage() string { return "asr" }

func (a *ASR) Process(ctx context.Context, in Input) (Output, error) {
	segments, err := a.Transcribe(ctx, in.AssetKey)
	if err != nil {
		return Output{}, fmt.Errorf("asr: transcribe: %w", err)
	}

	segmentsBody, err := json.Marshal(segments)
	if err != nil {
		return Output{}, fmt.Errorf("asr: marshal segments: %w", err)
	}
	segmentsKey := objectstore.Key(in.JobID, in.Lang, "asr", "segments.json")
	if err := a.Store.Put(ctx, segmentsKey, segmentsBody, "application/json"); err != nil {
		return Output{}, err
	}

	srtBody := subtitles.EncodeSRT(toSubtitleCues(segments))
	srtKey := objectstore.Key(in.JobID, in.Lang, "asr", "transcript.srt")
	if err := a.Store.Put(ctx, srtKey, []byte(srtBody), "application/x-subrip"); err != nil {
		return Output{}, err
	}

	return Output{}, nil
}

func toSubtitleCues(segments []Segment) []subtitles.Cue {
	cues := make([]subtitles.Cue, 0, len(segments))
	for _, s := range segments {
		cues = append(cues, subtitles.Cue{StartMS: s.StartMS, EndMS: s.EndMS, Text: s.Text})
	}
	return cues
}
