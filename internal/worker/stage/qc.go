package stage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Atticdm/GloCalAI/internal/objectstore"
)

// QC inspects the latest video artifact produced for the variant —
// textinframe's output if that stage ran, otherwise mix's — and writes a
// structured report. The actual audio/video analysis is out of scope;
// Inspect is the seam a real implementation plugs into.
type QC struct {
	Store   *objectstore.Store
	Inspect func(ctx context.Context, videoKey string) (map[string]any, error)
}

func (q *QC) Stage() string { return "qc" }

func (q *QC) Process(ctx context.Context, in Input) (Output, error) {
	stage := "mix"
	if in.Options.ReplaceTextInFrame {
		stage = "textinframe"
	}
	videoKey := objectstore.Key(in.JobID, in.Lang, stage, "out.mp4")

	report, err := q.Inspect(ctx, videoKey)
	if err != nil {
		return Output{}, fmt.Errorf("qc: inspect: %w", err)
	}

	body, err := json.Marshal(report)
	if err != nil {
		return Output{}, fmt.Errorf("qc: marshal report: %w", err)
	}
	reportKey := objectstore.Key(in.JobID, in.Lang, "qc", "report.json")
	if err := q.Store.Put(ctx, reportKey, body, "application/json"); err != nil {
		return Output{}, err
	}

	return Output{ReportKey: reportKey}, nil
}
