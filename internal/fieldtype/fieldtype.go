// Package fieldtype guesses the admissible semantic types of a CSV field
// and reduces a column's combined guesses to its narrowest representative
// type. It is grounded on the bitflag-and-intersection design of the
// reference sniffer's field_type.rs, generalized with Date, DateTime, and
// NULL guesses and an explicit day/month preference rather than task-local
// configuration.
package fieldtype

import (
	"strconv"
	"strings"
	"time"
)

// DatePreference resolves the day/month ambiguity in purely numeric dates
// such as "03/04/2021".
type DatePreference int

const (
	// PreferMDY parses ambiguous numeric dates as month/day/year.
	PreferMDY DatePreference = iota
	// PreferDMY parses ambiguous numeric dates as day/month/year.
	PreferDMY
)

// Type is a guessed semantic type, ordered narrowest (Null) to widest
// (Text).
type Type int

const (
	Null Type = iota
	Boolean
	Unsigned
	Signed
	Float
	DateTime
	Date
	Text
)

func (t Type) String() string {
	switch t {
	case Null:
		return "NULL"
	case Boolean:
		return "Boolean"
	case Unsigned:
		return "Unsigned"
	case Signed:
		return "Signed"
	case Float:
		return "Float"
	case DateTime:
		return "DateTime"
	case Date:
		return "Date"
	case Text:
		return "Text"
	default:
		return "Unknown"
	}
}

// Guesses is a bitset over the eight Type values.
type Guesses uint8

const (
	bitNull Guesses = 1 << iota
	bitBoolean
	bitUnsigned
	bitSigned
	bitFloat
	bitDateTime
	bitDate
	bitText

	// All is the bitset with every type bit set -- the admissible-type set
	// for an empty field, and the identity element for intersection.
	All = bitNull | bitBoolean | bitUnsigned | bitSigned | bitFloat | bitDateTime | bitDate | bitText
)

var booleanPrefixes = map[string]bool{
	"0": true, "1": true, "t": true, "f": true, "y": true, "n": true,
	"true": true, "false": true, "yes": true, "no": true,
}

// Guess computes the admissible TypeGuesses bitset for a single field.
//
// An empty field allows any type. A non-empty field always allows TEXT,
// plus every type whose parser accepts the field. The NULL bit is never
// set explicitly for a non-empty field: it can only survive a column-wide
// intersection when every field observed in that column was empty, which
// is exactly the condition under which Guesses.Best reports Null.
func Guess(s string, pref DatePreference) Guesses {
	if s == "" {
		return All
	}

	g := bitText
	if _, err := strconv.ParseUint(s, 10, 64); err == nil {
		g |= bitUnsigned
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		g |= bitSigned
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		g |= bitFloat
	}
	if isBooleanLike(s) {
		g |= bitBoolean
	}
	if isDate, ok := guessCalendar(s, pref); ok {
		if isDate {
			g |= bitDate
		} else {
			g |= bitDateTime
		}
	}
	return g
}

func isBooleanLike(s string) bool {
	prefix := strings.ToLower(s)
	if len(prefix) > 5 {
		prefix = prefix[:5]
	}
	return booleanPrefixes[prefix]
}

// unambiguousLayouts are tried first, then the preferenceLayouts for the
// configured day/month preference; the first to parse wins. Layouts that
// include a time-of-day component produce DateTime unless the parsed time
// happens to land exactly on midnight UTC, in which case the canonical
// rendering collapses to the same "date-only" signature as a bare date.
var unambiguousLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func preferenceLayouts(pref DatePreference) []string {
	if pref == PreferDMY {
		return []string{"02/01/2006 15:04:05", "02/01/2006", "2/1/2006", "02-01-2006"}
	}
	return []string{"01/02/2006 15:04:05", "01/02/2006", "1/2/2006", "01-02-2006"}
}

// guessCalendar reports whether s parses as a calendar value under the
// configured day/month preference, and whether the canonical rendering of
// the parsed value identifies it as a bare Date (true) or a DateTime
// (false).
func guessCalendar(s string, pref DatePreference) (isDate bool, ok bool) {
	layouts := append(append([]string{}, unambiguousLayouts...), preferenceLayouts(pref)...)
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		canonical := t.Format("2006-01-02T15:04:05-07:00")
		return strings.HasSuffix(canonical, "T00:00:00+00:00"), true
	}
	return false, false
}

// Best reduces a bitset to its narrowest representative Type.
func (g Guesses) Best() Type {
	switch {
	case g == All:
		return Null
	case g&bitBoolean != 0:
		return Boolean
	case g&bitUnsigned != 0:
		return Unsigned
	case g&bitSigned != 0:
		return Signed
	case g&bitFloat != 0:
		return Float
	case g&bitDateTime != 0:
		return DateTime
	case g&bitDate != 0:
		return Date
	default:
		return Text
	}
}

// Allows reports whether g admits at least one type that other does not --
// i.e. whether g \ other is non-empty. This is the header-vs-data
// comparison operator: a header row is declared present when some data
// column's bitset does *not* allow that column's header-row bitset (the
// data is more restrictive than the header looks).
func (g Guesses) Allows(other Guesses) bool {
	return g&^other != 0
}

// CombineColumn intersects a row's per-field bitset into an accumulated
// column bitset. Callers should seed the accumulator with All.
func CombineColumn(column, field Guesses) Guesses {
	return column & field
}

// Record maps Guess across every field of a record.
func Record(fields []string, pref DatePreference) []Guesses {
	out := make([]Guesses, len(fields))
	for i, f := range fields {
		out[i] = Guess(f, pref)
	}
	return out
}

// BestAll maps Best across a slice of column bitsets.
func BestAll(columns []Guesses) []Type {
	out := make([]Type, len(columns))
	for i, c := range columns {
		out[i] = c.Best()
	}
	return out
}
