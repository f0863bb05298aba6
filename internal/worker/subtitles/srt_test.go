package subtitles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSRTRoundTrip(t *testing.T) {
	cues := []Cue{
		{StartMS: 0, EndMS: 1500, Text: "Hello there"},
		{StartMS: 1600, EndMS: 3200, Text: "General Kenobi"},
	}

	doc := EncodeSRT(cues)
	got := DecodeSRT(doc)

	assert.Equal(t, cues, got)
}

func TestSRTRoundTripEmpty(t *testing.T) {
	assert.Empty(t, DecodeSRT(EncodeSRT(nil)))
}

func TestDecodeSRTSkipsMalformedBlocks(t *testing.T) {
	doc := "not a cue\n\n1\n00:00:00,000 --> 00:00:01,000\nok\n\n"
	got := DecodeSRT(doc)
	assert.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Text)
}
