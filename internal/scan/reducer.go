package scan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	doneMarker            = "[DONE]"
	quickTranscriptPrefix = "Quick Transcript:"
	authorPrefix          = "Author:"
)

var authorPattern = regexp.MustCompile(`Author:\s(.+)\s\(([\d.]+)%\)`)

// Reduce folds one frame payload into st. The first matching rule wins:
// "[DONE]" ends the session, "Quick Transcript:" replaces the transcript,
// "Author:" sets the speaker, and anything else is appended to the
// transcript. A terminal state is never changed.
//
// A malformed Author frame leaves st untouched and returns an error wrapping
// ErrMalformedFrame; callers log it and keep streaming.
func Reduce(st *State, payload string) (bool, error) {
	if st.Status.Terminal() {
		return false, nil
	}

	switch {
	case payload == doneMarker:
		st.Status = StatusDone
	case strings.HasPrefix(payload, quickTranscriptPrefix):
		st.Transcript = strings.TrimSpace(strings.TrimPrefix(payload, quickTranscriptPrefix))
	case strings.HasPrefix(payload, authorPrefix):
		sp, err := parseAuthor(payload)
		if err != nil {
			return false, err
		}
		st.Speaker = &sp
	case payload == "":
		return false, nil
	default:
		if st.Transcript == "" {
			st.Transcript = payload
		} else {
			st.Transcript += " " + payload
		}
	}
	st.FramesApplied++
	return true, nil
}

func parseAuthor(payload string) (Speaker, error) {
	m := authorPattern.FindStringSubmatch(payload)
	if m == nil {
		return Speaker{}, fmt.Errorf("%w: author frame %q does not match", ErrMalformedFrame, payload)
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return Speaker{}, fmt.Errorf("%w: author frame %q has no name", ErrMalformedFrame, payload)
	}
	pct, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Speaker{}, fmt.Errorf("%w: author confidence %q: %w", ErrMalformedFrame, m[2], err)
	}
	confidence := pct / 100
	if confidence < 0 || confidence > 1 {
		return Speaker{}, fmt.Errorf("%w: author confidence %.2f%% out of range", ErrMalformedFrame, pct)
	}
	return Speaker{Name: name, Confidence: confidence}, nil
}
