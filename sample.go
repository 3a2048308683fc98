package csvsniffer

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/eltorocorp/csvsniffer/internal/linesplit"
)

// SampleSize bounds how much of a stream the sampler reads.
type SampleSize struct {
	kind  sampleKind
	bound int
}

type sampleKind int

const (
	sampleKindBytes sampleKind = iota
	sampleKindRecords
	sampleKindAll
)

// SampleRecords stops sampling once more than n records have been read.
// The record that crosses the bound is still included, so up to n+1
// records are sampled.
func SampleRecords(n int) SampleSize { return SampleSize{kind: sampleKindRecords, bound: n} }

// SampleBytes stops sampling once more than n raw bytes have been read.
// The record that crosses the bound is still included.
func SampleBytes(n int) SampleSize { return SampleSize{kind: sampleKindBytes, bound: n} }

// SampleAll never terminates on a budget; the whole stream is sampled.
func SampleAll() SampleSize { return SampleSize{kind: sampleKindAll} }

// DefaultSampleSize is used when the caller never calls Sniffer.SampleSize.
func DefaultSampleSize() SampleSize { return SampleBytes(16384) }

// sampler replays r from byte 0 and yields a budget-bounded sequence of
// logical lines (records split only on a bare '\n').
//
// It is grounded on the teacher's NewScanner: a bufio.Scanner driven by a
// custom linesplit.Splitter. Here the splitter's contract is simpler
// (split on '\n' only; no quote-awareness, no DOS/CR terminators) to match
// the sampler's own spec, which does the UTF-8 validation, lossy
// decoding, and truncated-tail handling itself rather than delegating it
// to the splitter.
type sampler struct {
	scanner    *bufio.Scanner
	splitter   *linesplit.Splitter
	sampleSize SampleSize
	nBytes     int
	nRecords   int
	done       bool
	isUTF8     bool
}

// newSampler returns a sampler over r, which must already be positioned at
// the start of the stream.
func newSampler(r io.Reader, sampleSize SampleSize) *sampler {
	splitter := &linesplit.Splitter{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	scanner.Split(splitter.Split)
	return &sampler{
		scanner:    scanner,
		splitter:   splitter,
		sampleSize: sampleSize,
		isUTF8:     true,
	}
}

// next returns the next sampled record, or ok=false once the sampler is
// exhausted (EOF, a truncated tail, or the sample-size budget).
func (s *sampler) next() (record string, ok bool, err error) {
	if s.done {
		return "", false, nil
	}
	if !s.scanner.Scan() {
		s.done = true
		return "", false, s.scanner.Err()
	}

	raw := s.scanner.Bytes()
	rawLen := len(raw)

	var text string
	if utf8.Valid(raw) {
		text = string(raw)
	} else {
		s.isUTF8 = false
		text = strings.ToValidUTF8(string(raw), "�")
	}

	if rawLen == 0 {
		s.done = true
		return "", false, nil
	}
	last := text[len(text)-1]
	// linesplit.Splitter always includes the trailing '\n' in a
	// newline-terminated token, so the only way the last rune is
	// anything else is a truncated final chunk with no terminator at
	// all.
	if last != '\n' && last != '\r' {
		s.done = true
		return "", false, nil
	}
	text = strings.TrimRight(text, "\r\n")

	s.nRecords++
	s.nBytes += rawLen

	// The budget is checked against the counts *after* this record, but
	// this record is still returned -- only the next call sees the
	// termination.
	switch s.sampleSize.kind {
	case sampleKindRecords:
		if s.nRecords > s.sampleSize.bound {
			s.done = true
		}
	case sampleKindBytes:
		if s.nBytes > s.sampleSize.bound {
			s.done = true
		}
	}

	return text, true, nil
}

// collect drains the sampler into a slice of records, stopping at the
// first error or budget exhaustion.
func (s *sampler) collect() ([]string, error) {
	var lines []string
	for {
		line, ok, err := s.next()
		if err != nil {
			return lines, err
		}
		if !ok {
			return lines, nil
		}
		lines = append(lines, line)
	}
}
