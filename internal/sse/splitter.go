// Package sse splits a Server-Sent-Events byte stream into data frames.
package sse

import (
	"bytes"
	"strings"
)

const dataPrefix = "data:"

var frameDelimiter = []byte("\n\n")

// Frame is one data frame. Payload has the "data:" prefix and surrounding
// whitespace removed; Raw is the segment exactly as it arrived.
type Frame struct {
	Raw     string
	Payload string
}

// Splitter carries incomplete frames across Feed calls. The zero value is
// ready to use. A Splitter belongs to a single stream and is not safe for
// concurrent use.
type Splitter struct {
	buf []byte
}

// Feed appends chunk to the carry-over buffer and returns every complete
// frame that starts with "data:". Other complete segments are discarded.
// The trailing incomplete segment stays buffered until a later chunk
// terminates it.
func (s *Splitter) Feed(chunk []byte) []Frame {
	s.buf = append(s.buf, chunk...)

	var frames []Frame
	for {
		idx := bytes.Index(s.buf, frameDelimiter)
		if idx < 0 {
			break
		}
		segment := string(s.buf[:idx])
		s.buf = s.buf[idx+len(frameDelimiter):]
		if f, ok := parseSegment(segment); ok {
			frames = append(frames, f)
		}
	}
	if len(s.buf) == 0 {
		s.buf = nil
	}
	return frames
}

// Pending reports how many bytes are waiting for a frame delimiter.
func (s *Splitter) Pending() int {
	return len(s.buf)
}

func parseSegment(segment string) (Frame, bool) {
	if !strings.HasPrefix(segment, dataPrefix) {
		return Frame{}, false
	}
	payload := strings.TrimSpace(strings.TrimPrefix(segment, dataPrefix))
	return Frame{Raw: segment, Payload: payload}, true
}
