// Package quotedelim jointly infers the quote character and delimiter byte
// of a CSV dialect by counting, for each candidate quote character, how
// often a regex matching "quote, optional space, delimiter, optional
// space, quote" appears across a sample of lines.
//
// It is grounded on the quote-aware regex-scanning idiom already used by
// the teacher's internal/util.IndexNonQuoted (a regexp.MustCompile built
// from a dynamically formatted pattern), generalized into a true
// capture-group search so the delimiter itself can be recovered when it
// isn't already known.
package quotedelim

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrNoDelimiter is returned when a quote candidate matches at least once
// but none of its matches captured a usable delimiter byte. Callers that
// surface this to users should fold it into their own sniffing-failed
// error rather than propagate it verbatim.
var ErrNoDelimiter = errors.New("no delimiter found")

// Candidates is the fixed set of recognized quote characters, in the
// priority order used when no quote is specified: single quote, double
// quote, backtick.
var Candidates = []byte{'\'', '"', '`'}

// Result is the outcome of co-inferring a quote character and delimiter.
type Result struct {
	// HasQuote is false if no candidate quote character produced any
	// match anywhere in the sample.
	HasQuote  bool
	Quote     byte
	Delimiter byte
}

// Infer scans lines for quoted-field boundaries using each byte in
// Candidates (or just *userQuote, if non-nil). If userDelim is non-nil the
// regex looks for that exact delimiter between quotes; otherwise it
// captures whatever single non-word, non-quote byte separates two quoted
// fields and takes the modal captured byte as the delimiter.
//
// The quote with the strictly greatest total match count wins; ties keep
// whichever candidate was tried first. If every candidate matches zero
// times, Result.HasQuote is false.
func Infer(lines []string, userQuote *byte, userDelim *byte) (Result, error) {
	candidates := Candidates
	if userQuote != nil {
		candidates = []byte{*userQuote}
	}

	var (
		bestQuote byte
		bestDelim byte
		bestCount = -1
	)
	for _, q := range candidates {
		count, delim, err := countForQuote(lines, q, userDelim)
		if err != nil {
			return Result{}, err
		}
		if count > bestCount {
			bestCount, bestQuote, bestDelim = count, q, delim
		}
	}

	if bestCount <= 0 {
		return Result{HasQuote: false}, nil
	}
	return Result{HasQuote: true, Quote: bestQuote, Delimiter: bestDelim}, nil
}

func countForQuote(lines []string, quote byte, userDelim *byte) (count int, delim byte, err error) {
	q := regexp.QuoteMeta(string(quote))
	var pattern string
	if userDelim != nil {
		pattern = fmt.Sprintf(`%s\s*?%s\s*%s`, q, regexp.QuoteMeta(string(*userDelim)), q)
	} else {
		pattern = fmt.Sprintf(`%s\s*?(?P<delim>[^\w\n'"`+"`"+`])\s*%s`, q, q)
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, 0, err
	}

	delimIdx := re.SubexpIndex("delim")
	delimCounts := map[byte]int{}
	for _, line := range lines {
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			count++
			if userDelim == nil && delimIdx >= 0 {
				captured := m[delimIdx]
				if len(captured) == 1 {
					delimCounts[captured[0]]++
				}
			}
		}
	}

	if userDelim != nil {
		return count, *userDelim, nil
	}
	if count == 0 {
		return 0, 0, nil
	}

	// Walk candidate bytes in increasing numeric order rather than
	// ranging over the map directly, so a count tie always resolves to
	// the lowest delimiter byte instead of depending on Go's randomized
	// map iteration order.
	var modalDelim byte
	var modalCount int
	for d := 0; d < 256; d++ {
		if c := delimCounts[byte(d)]; c > modalCount {
			modalCount, modalDelim = c, byte(d)
		}
	}
	if modalCount == 0 {
		return 0, 0, fmt.Errorf("invalid regex match: %w", ErrNoDelimiter)
	}
	return count, modalDelim, nil
}
