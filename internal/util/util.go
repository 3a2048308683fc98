// Package util holds small helpers shared by the sniffer's formatting
// code.
//
// The teacher's internal/util additionally carried IndexNonQuoted (a
// quote-aware substring scan) and the TokenizeTerminators/
// ResetTerminatorTokens/IsExtraneousQuoteError/IsBareQuoteError family, all
// in service of permissivecsv's record-repair features (padding
// truncated records, recovering from bare/extraneous quotes). The
// sniffer's Non-goals explicitly exclude repairing malformed data, so
// those helpers have no home here; only Panic survives, reused for the
// same purpose the teacher used it: forcing a template-rendering error
// that should never occur in practice to surface immediately rather than
// being silently swallowed.
package util

// Panic panics if err is non-nil.
func Panic(err error) {
	if err != nil {
		panic(err)
	}
}
