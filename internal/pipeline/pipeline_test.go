package pipeline

import (
	"testing"

	"github.com/Atticdm/GloCalAI/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNextAllDefaults(t *testing.T) {
	opts := domain.Options{Dub: true, Subs: true, ReplaceTextInFrame: false, UploadToYoutube: false}

	var stages []string
	stage := ""
	for {
		next, ok := Next(stage, opts)
		if !ok {
			break
		}
		stages = append(stages, next)
		stage = next
	}

	assert.Equal(t, []string{"asr", "translate", "tts", "mix", "subs", "qc"}, stages)
}

func TestNextAllOptionalDisabled(t *testing.T) {
	opts := domain.Options{Dub: false, Subs: false, ReplaceTextInFrame: false}

	var stages []string
	stage := ""
	for {
		next, ok := Next(stage, opts)
		if !ok {
			break
		}
		stages = append(stages, next)
		stage = next
	}

	assert.Equal(t, []string{"asr", "translate", "mix", "qc"}, stages)
}

func TestSkipRules(t *testing.T) {
	opts := domain.Options{Dub: false, Subs: false, ReplaceTextInFrame: false}
	assert.True(t, Skip(StageTTS, opts))
	assert.True(t, Skip(StageSubs, opts))
	assert.True(t, Skip(StageTextInFrame, opts))
	assert.False(t, Skip(StageASR, opts))
	assert.False(t, Skip(StageTranslate, opts))
	assert.False(t, Skip(StageMix, opts))
	assert.False(t, Skip(StageQC, opts))
}

func TestIsAfter(t *testing.T) {
	assert.True(t, IsAfter(StageTranslate, StageASR))
	assert.False(t, IsAfter(StageASR, StageTranslate))
	assert.True(t, IsAfter(StageASR, ""))
	assert.False(t, IsAfter(StageASR, StageASR))
}
