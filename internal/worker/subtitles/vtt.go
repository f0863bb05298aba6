package subtitles

import (
	"fmt"
	"strings"
)

// EncodeVTT renders cues as a WebVTT document.
func EncodeVTT(cues []Cue) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, c := range cues {
		fmt.Fprintf(&b, "%s --> %s\n", formatVTTTimestamp(c.StartMS), formatVTTTimestamp(c.EndMS))
		fmt.Fprintf(&b, "%s\n\n", c.Text)
	}
	return b.String()
}

func formatVTTTimestamp(ms int) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	rem := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, rem)
}
