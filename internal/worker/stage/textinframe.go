package stage

import (
	"context"
	"fmt"

	"github.com/Atticdm/GloCalAI/internal/objectstore"
)

// TextInFrame overlays replacement in-frame text onto the mix stage's
// video. The actual detection/overlay pipeline is out of scope; Overlay
// is the seam a real implementation plugs into.
type TextInFrame struct {
	Store   *objectstore.Store
	Overlay func(ctx context.Context, videoKey string, lang string) (video []byte, hlsManifest []byte, err error)
}

func (t *TextInFrame) Stage() string { return "textinframe" }

func (t *TextInFrame) Process(ctx context.Context, in Input) (Output, error) {
	mixVideoKey := objectstore.Key(in.JobID, in.Lang, "mix", "out.mp4")

	video, manifest, err := t.Overlay(ctx, mixVideoKey, in.Lang)
	if err != nil {
		return Output{}, fmt.Errorf("textinframe: overlay: %w", err)
	}

	videoKey := objectstore.Key(in.JobID, in.Lang, "textinframe", "out.mp4")
	if err := t.Store.Put(ctx, videoKey, video, "video/mp4"); err != nil {
		return Output{}, err
	}
	manifestKey := objectstore.Key(in.JobID, in.Lang, "textinframe", "hls/index.m3u8")
	if err := t.Store.Put(ctx, manifestKey, manifest, "application/vnd.apple.mpegurl"); err != nil {
		return Output{}, err
	}

	return Output{VideoKey: videoKey, PreviewKey: manifestKey}, nil
}
