package stage

import (
	"context"
	"fmt"

	"github.com/Atticdm/GloCalAI/internal/objectstore"
)

// Mix composites the dubbed audio track onto the source video and
// produces an HLS rendition manifest. The actual ffmpeg invocation is out
// of scope; Composite is the seam a real implementation plugs into. When
// dub=false this stage still runs (per the fixed skip rules, mix always
// runs) and simply remuxes the source video without a replacement track.
type Mix struct {
	Store     *objectstore.Store
	Composite func(ctx context.Context, videoKey string, audioKey string) (video []byte, hlsManifest []byte, err error)
}

func (m *Mix) Stage() string { return "mix" }

func (m *Mix) Process(ctx context.Context, in Input) (Output, error) {
	audioKey := objectstore.Key(in.JobID, in.Lang, "tts", "track.wav")
	if _, err := m.Store.Get(ctx, audioKey); err != nil {
		// No tts track (dub disabled): mix proceeds with an empty audio
		// key, signaling Composite to remux the source video as-is.
		audioKey = ""
	}

	video, manifest, err := m.Composite(ctx, in.AssetKey, audioKey)
	if err != nil {
		return Output{}, fmt.Errorf("mix: composite: %w", err)
	}

	videoKey := objectstore.Key(in.JobID, in.Lang, "mix", "out.mp4")
	if err := m.Store.Put(ctx, videoKey, video, "video/mp4"); err != nil {
		return Output{}, err
	}
	manifestKey := objectstore.Key(in.JobID, in.Lang, "mix", "hls/index.m3u8")
	if err := m.Store.Put(ctx, manifestKey, manifest, "application/vnd.apple.mpegurl"); err != nil {
		return Output{}, err
	}

	return Output{VideoKey: videoKey, PreviewKey: manifestKey}, nil
}
