// Package pipeline defines the fixed stage order of a localization job and
// the option-driven rules for which stages run for a given variant.
package pipeline

import "github.com/Atticdm/GloCalAI/internal/domain"

const (
	StageASR         = "asr"
	StageTranslate   = "translate"
	StageTTS         = "tts"
	StageMix         = "mix"
	StageSubs        = "subs"
	StageTextInFrame = "textinframe"
	StageQC          = "qc"

	// StagePack is the terminal pseudo-stage: it has no worker and is
	// never dispatched or enqueued. It only labels the "variant is done"
	// progress event emitted once Next reports no further stage.
	StagePack = "pack"
)

// Order is the fixed, dispatchable stage sequence. StagePack deliberately
// does not appear here: it has no worker, so Next must report "no next
// stage" once QC completes rather than walking onto it.
var Order = []string{
	StageASR,
	StageTranslate,
	StageTTS,
	StageMix,
	StageSubs,
	StageTextInFrame,
	StageQC,
}

var index = func() map[string]int {
	m := make(map[string]int, len(Order))
	for i, s := range Order {
		m[s] = i
	}
	return m
}()

// Skip reports whether stage should be bypassed for a variant with the
// given options. dub=false skips tts only; subs=false skips subs;
// replace_text_in_frame=false skips textinframe. asr, translate, mix and
// qc always run.
func Skip(stage string, opts domain.Options) bool {
	switch stage {
	case StageTTS:
		return !opts.Dub
	case StageSubs:
		return !opts.Subs
	case StageTextInFrame:
		return !opts.ReplaceTextInFrame
	default:
		return false
	}
}

// Next returns the next non-skipped stage after `after` for the given
// options, and false if none remain (the variant is done after `after`).
// after == "" starts from the front of Order.
func Next(after string, opts domain.Options) (string, bool) {
	start := 0
	if after != "" {
		i, ok := index[after]
		if !ok {
			return "", false
		}
		start = i + 1
	}
	for i := start; i < len(Order); i++ {
		if !Skip(Order[i], opts) {
			return Order[i], true
		}
	}
	return "", false
}

// IsAfter reports whether a is strictly later in Order than b. An unknown
// stage name sorts before everything, so a malformed LastCompletedStage
// never blocks forward progress.
func IsAfter(a, b string) bool {
	if b == "" {
		return true
	}
	ai, aok := index[a]
	bi, bok := index[b]
	if !aok {
		return false
	}
	if !bok {
		return true
	}
	return ai > bi
}
