// Package linesplit provides the bufio.SplitFunc used by the sampler to
// walk a byte stream one logical line at a time.
//
// It is adapted from the teacher's internal/linesplit.Splitter, which
// recognized DOS, inverted-DOS, unix, and bare-CR terminators with
// quote-awareness for permissive record scanning. The sniffer's sampler
// has a narrower contract (spec: split on a bare '\n' only, and let the
// caller decide whether a non-terminated final chunk is a truncated
// tail), so the terminator-priority logic is gone; what's kept is the
// Splitter-as-bufio.SplitFunc shape itself.
package linesplit

import (
	"bufio"
	"bytes"
)

// Splitter's Split method is a bufio.SplitFunc that advances one line at a
// time, splitting on '\n' and including it in the returned token.
//
// If the stream ends without a trailing '\n', the remaining bytes are
// still returned as a final token (with bufio.ErrFinalToken) so the
// caller can inspect it and decide whether it's a truncated tail.
type Splitter struct{}

// Split implements bufio.SplitFunc.
func (*Splitter) Split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		return idx + 1, data[:idx+1], nil
	}
	if !atEOF {
		return 0, nil, nil
	}
	if len(data) == 0 {
		return 0, nil, nil
	}
	return len(data), data, bufio.ErrFinalToken
}
