package stage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Atticdm/GloCalAI/internal/objectstore"
)

// Translate converts the upstream asr segments into the variant's target
// language, preserving timing. The actual MT call is out of scope; Do is
// the seam a real provider integration plugs into.
type Translate struct {
	Store *objectstore.Store
	Do    func(ctx context.Context, lang string, segments []Segment) ([]Segment, error)
}

func (t *Translate) Stage() string { return "translate" }

func (t *Translate) Process(ctx context.Context, in Input) (Output, error) {
	asrKey := objectstore.Key(in.JobID, in.Lang, "asr", "segments.json")
	body, err := t.Store.Get(ctx, asrKey)
	if err != nil {
		return Output{}, fmt.Errorf("translate: fetch asr segments: %w", err)
	}
	var segments []Segment
	if err := json.Unmarshal(body, &segments); err != nil {
		return Output{}, fmt.Errorf("translate: decode asr segments: %w", err)
	}

	translated, err := t.Do(ctx, in.Lang, segments)
	if err != nil {
		return Output{}, fmt.Errorf("translate: translate segments: %w", err)
	}

	out, err := json.Marshal(translated)
	if err != nil {
		return Output{}, fmt.Errorf("translate: marshal segments: %w", err)
	}
	key := objectstore.Key(in.JobID, in.Lang, "translate", "segments.json")
	if err := t.Store.Put(ctx, key, out, "application/json"); err != nil {
		return Output{}, err
	}
	return Output{}, nil
}
