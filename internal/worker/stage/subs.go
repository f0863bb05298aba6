package stage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Atticdm/GloCalAI/internal/objectstore"
	"github.com/Atticdm/GloCalAI/internal/worker/subtitles"
)

// Subs renders the translated segments as SRT and WebVTT subtitle files.
type Subs struct {
	Store *objectstore.Store
}

func (s *Subs) Stage() string { return "subs" }

func (s *Subs) Process(ctx context.Context, in Input) (Output, error) {
	translateKey := objectstore.Key(in.JobID, in.Lang, "translate", "segments.json")
	body, err := s.Store.Get(ctx, translateKey)
	if err != nil {
		return Output{}, fmt.Errorf("subs: fetch translated segments: %w", err)
	}
	var segments []Segment
	if err := json.Unmarshal(body, &segments); err != nil {
		return Output{}, fmt.Errorf("subs: decode segments: %w", err)
	}
	cues := toSubtitleCues(segments)

	srtKey := objectstore.Key(in.JobID, in.Lang, "subs", "subtitles.srt")
	if err := s.Store.Put(ctx, srtKey, []byte(subtitles.EncodeSRT(cues)), "application/x-subrip"); err != nil {
		return Output{}, err
	}
	vttKey := objectstore.Key(in.JobID, in.Lang, "subs", "subtitles.vtt")
	if err := s.Store.Put(ctx, vttKey, []byte(subtitles.EncodeVTT(cues)), "text/vtt"); err != nil {
		return Output{}, err
	}

	return Output{SubsKey: srtKey}, nil
}
