package csvsniffer

import (
	"errors"
	"io"
	"os"

	"github.com/eltorocorp/csvsniffer/internal/chain"
	"github.com/eltorocorp/csvsniffer/internal/fieldtype"
	"github.com/eltorocorp/csvsniffer/internal/qcsv"
	"github.com/eltorocorp/csvsniffer/internal/quotedelim"
)

func openFile(path string) (*os.File, error) { return os.Open(path) }

// Sniffer is a builder for sniffing a CSV byte stream's Dialect and column
// types. Zero value is ready to use; the setters narrow what the pipeline
// has to infer.
type Sniffer struct {
	delimiter      *byte
	quote          *Quote
	header         *Header
	sampleSize     *SampleSize
	datePreference DatePreference
}

// New returns a Sniffer with no configuration narrowed yet.
func New() *Sniffer { return &Sniffer{} }

// Delimiter fixes the delimiter byte, skipping delimiter inference.
func (s *Sniffer) Delimiter(delimiter byte) *Sniffer {
	s.delimiter = &delimiter
	return s
}

// Header fixes the header/preamble shape, skipping that inference.
func (s *Sniffer) Header(header Header) *Sniffer {
	s.header = &header
	return s
}

// Quote fixes the quoting style. QuoteNone skips quote inference. A
// concrete quote character is the only candidate tried; unless the
// delimiter is fixed too, the sample is still searched for it, and if it
// never appears around a delimiter the sniffed dialect reports QuoteNone.
func (s *Sniffer) Quote(quote Quote) *Sniffer {
	s.quote = &quote
	return s
}

// SampleSize bounds how much of the stream is examined. Defaults to
// SampleBytes(16384).
func (s *Sniffer) SampleSize(size SampleSize) *Sniffer {
	s.sampleSize = &size
	return s
}

// DatePreference sets the day/month resolution used for ambiguous numeric
// dates. Defaults to PreferMDY.
func (s *Sniffer) DatePreference(pref DatePreference) *Sniffer {
	s.datePreference = pref
	return s
}

func (s *Sniffer) sampleSizeOrDefault() SampleSize {
	if s.sampleSize != nil {
		return *s.sampleSize
	}
	return DefaultSampleSize()
}

// SniffPath opens path and sniffs it; see SniffReader.
func (s *Sniffer) SniffPath(path string) (Metadata, error) {
	f, err := openFile(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()
	return s.SniffReader(f)
}

// SniffReader examines r (which must support seeking back to the start)
// and returns its inferred Metadata. r is rewound to 0 before each of the
// pipeline's read phases and again before SniffReader returns.
func (s *Sniffer) SniffReader(r io.ReadSeeker) (Metadata, error) {
	run := &sniffRun{
		delimiter:      s.delimiter,
		sampleSize:     s.sampleSizeOrDefault(),
		datePreference: s.datePreference,
		isUTF8:         true,
	}
	if s.quote != nil {
		q := *s.quote
		run.quote = &q
	}
	if s.header != nil {
		h := *s.header
		run.header = &h
		run.headerFixed = true
	}

	defer r.Seek(0, io.SeekStart)

	if err := run.inferQuoteDelim(r); err != nil {
		return Metadata{}, err
	}
	if run.delimiter != nil {
		if err := run.inferPreambleKnownDelim(r); err != nil {
			return Metadata{}, err
		}
	} else {
		if err := run.inferDelimPreamble(r); err != nil {
			return Metadata{}, err
		}
	}
	if err := run.inferTypes(r); err != nil {
		return Metadata{}, err
	}

	return run.metadata()
}

// OpenPath opens path and returns the result of OpenReader over it.
func (s *Sniffer) OpenPath(path string) (interface {
	Read() ([]string, error)
}, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	return s.OpenReader(f)
}

// OpenReader sniffs r and returns a reader configured from the inferred
// Dialect, rewound and with the preamble already skipped.
func (s *Sniffer) OpenReader(r io.ReadSeeker) (interface {
	Read() ([]string, error)
}, error) {
	metadata, err := s.SniffReader(r)
	if err != nil {
		return nil, err
	}
	return metadata.Dialect.OpenReader(r)
}

// sniffRun holds the mutable state accumulated across one SniffReader
// call. Keeping it separate from Sniffer lets the same builder be reused
// across multiple calls without cross-contaminating inferred state.
type sniffRun struct {
	delimiter      *byte
	header         *Header
	headerFixed    bool
	quote          *Quote
	flexible       *bool
	hasHeaderRow   *bool
	delimiterFreq  int
	fields         []string
	types          []Type
	avgRecordLen   int
	sampleSize     SampleSize
	datePreference DatePreference
	isUTF8         bool
}

func (r *sniffRun) sampleLines(reader io.ReadSeeker) ([]string, error) {
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	s := newSampler(reader, r.sampleSize)
	lines, err := s.collect()
	if !s.isUTF8 {
		r.isUTF8 = false
	}
	return lines, err
}

// inferQuoteDelim is C5: co-infer the quote character and (if not already
// known) the delimiter byte.
func (r *sniffRun) inferQuoteDelim(reader io.ReadSeeker) error {
	if r.quote != nil && r.delimiter != nil {
		return nil
	}
	if r.quote != nil && !r.quote.IsSome() {
		return nil
	}

	lines, err := r.sampleLines(reader)
	if err != nil {
		return err
	}

	var userQuote *byte
	if r.quote != nil && r.quote.IsSome() {
		c := r.quote.Char()
		userQuote = &c
	}

	res, err := quotedelim.Infer(lines, userQuote, r.delimiter)
	if err != nil {
		if errors.Is(err, quotedelim.ErrNoDelimiter) {
			return sniffingFailed("%s", err)
		}
		return err
	}
	if !res.HasQuote {
		q := QuoteNone
		r.quote = &q
		return nil
	}
	q := QuoteChar(res.Quote)
	r.quote = &q
	if r.delimiter == nil {
		d := res.Delimiter
		r.delimiter = &d
	}
	return nil
}

// inferPreambleKnownDelim is C6's single-chain branch, used once the
// delimiter is already known (fixed by the caller or resolved by C5).
func (r *sniffRun) inferPreambleKnownDelim(reader io.ReadSeeker) error {
	lines, err := r.sampleLines(reader)
	if err != nil {
		return err
	}

	hasQuote := r.quote != nil && r.quote.IsSome()
	var quoteChar byte
	if hasQuote {
		quoteChar = r.quote.Char()
	}
	delim := *r.delimiter

	var c chain.Chain
	for _, line := range lines {
		if hasQuote {
			_, nEnds := qcsv.SplitLine(line, delim, quoteChar, true)
			c.AddObservation(nEnds)
		} else {
			c.AddObservation(countByte(line, delim))
		}
	}
	return r.runChains([]*chain.Chain{&c})
}

// inferDelimPreamble is C6's 128-chain branch, used when the delimiter is
// not yet known.
func (r *sniffRun) inferDelimPreamble(reader io.ReadSeeker) error {
	lines, err := r.sampleLines(reader)
	if err != nil {
		return err
	}

	const numASCII = 128
	chains := make([]*chain.Chain, numASCII)
	for i := range chains {
		chains[i] = &chain.Chain{}
	}

	for _, line := range lines {
		var freqs [numASCII]int
		for i := 0; i < len(line); i++ {
			b := line[i]
			if b < numASCII {
				freqs[b]++
			}
		}
		for b, f := range freqs {
			chains[b].AddObservation(f)
		}
	}
	return r.runChains(chains)
}

// runChains selects the best chain (by narrowest final state, then
// highest final probability), derives flexible and num_preamble_rows from
// its Viterbi path, and -- if the delimiter wasn't already known --
// assigns it from the winning chain's index.
func (r *sniffRun) runChains(chains []*chain.Chain) error {
	bestDelimIdx := 0
	bestState := chain.StateUnsteady
	bestProb := 0.0
	bestFreq := 0
	var bestPath []chain.PathStep

	for i, c := range chains {
		res := c.Viterbi()
		if len(res.Path) == 0 {
			continue
		}
		final := res.Path[len(res.Path)-1]
		if final.State < bestState || (final.State == bestState && final.Prob > bestProb) {
			bestDelimIdx = i
			bestFreq = res.MaxDelimFreq
			bestState = final.State
			bestPath = res.Path
			bestProb = final.Prob
		}
	}

	switch bestState {
	case chain.StateSteadyStrict:
		f := false
		r.flexible = &f
	case chain.StateSteadyFlex:
		t := true
		r.flexible = &t
	default:
		return sniffingFailed("unable to find valid delimiter")
	}

	if r.delimiter == nil {
		d := byte(bestDelimIdx)
		r.delimiter = &d
	}
	r.delimiterFreq = bestFreq
	if r.header == nil {
		r.header = &Header{}
	}

	if !r.headerFixed {
		numPreambleRows := 0
		if len(bestPath) > 2 {
			for _, step := range bestPath[2:] {
				if step.State != bestState {
					numPreambleRows++
				} else {
					break
				}
			}
		}
		if numPreambleRows > 0 {
			numPreambleRows++
		}
		r.header.NumPreambleRows = numPreambleRows
	}
	return nil
}

// inferTypes is C7: rewind, snip the preamble, parse records through a
// dialect-configured reader with headers disabled, and infer column types
// and header presence.
func (r *sniffRun) inferTypes(reader io.ReadSeeker) error {
	fieldCount := r.delimiterFreq + 1

	cr, err := r.createReader(reader)
	if err != nil {
		return err
	}

	nBytes, nRecords := 0, 0

	first, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return sniffingFailed("CSV empty (after preamble)")
		}
		return err
	}
	nRecords++
	nBytes += recordByteLen(first)
	headerRowTypes := fieldtype.Record(first, r.datePreference)

	rowTypes := make([]fieldtype.Guesses, fieldCount)
	for i := range rowTypes {
		rowTypes[i] = fieldtype.All
	}

readLoop:
	for {
		record, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		for i, f := range record {
			if i >= fieldCount {
				break
			}
			rowTypes[i] = fieldtype.CombineColumn(rowTypes[i], fieldtype.Guess(f, r.datePreference))
		}
		nRecords++
		nBytes += recordByteLen(record)

		switch r.sampleSize.kind {
		case sampleKindRecords:
			if nRecords > r.sampleSize.bound {
				break readLoop
			}
		case sampleKindBytes:
			if nBytes > r.sampleSize.bound {
				break readLoop
			}
		}
	}

	if nRecords == 1 {
		f := false
		if r.headerFixed {
			f = r.header.HasHeaderRow
		}
		r.hasHeaderRow = &f
		r.types = fieldtype.BestAll(headerRowTypes)
		r.avgRecordLen = nBytes
		return nil
	}

	hasHeader := r.headerFixed && r.header.HasHeaderRow
	if !r.headerFixed {
		for i := range headerRowTypes {
			if !rowTypes[i].Allows(headerRowTypes[i]) {
				hasHeader = true
				break
			}
		}
	}
	r.hasHeaderRow = &hasHeader
	if hasHeader {
		r.fields = first
	}
	r.types = fieldtype.BestAll(rowTypes)
	r.avgRecordLen = nBytes / nRecords
	return nil
}

func (r *sniffRun) createReader(reader io.ReadSeeker) (interface {
	Read() ([]string, error)
}, error) {
	d := Dialect{
		Delimiter: *r.delimiter,
		Header:    Header{NumPreambleRows: r.header.NumPreambleRows},
		Quote:     *r.quote,
		Flexible:  *r.flexible,
	}
	return d.OpenReader(reader)
}

// metadata assembles the final Metadata from the run's accumulated state,
// failing if any required field was never determined.
func (r *sniffRun) metadata() (Metadata, error) {
	if r.delimiter == nil || r.header == nil || r.quote == nil || r.flexible == nil || r.hasHeaderRow == nil {
		return Metadata{}, sniffingFailed("Failed to infer all metadata: %+v", r)
	}
	return Metadata{
		Dialect: Dialect{
			Delimiter: *r.delimiter,
			Header: Header{
				HasHeaderRow:    *r.hasHeaderRow,
				NumPreambleRows: r.header.NumPreambleRows,
			},
			Quote:    *r.quote,
			Flexible: *r.flexible,
			IsUTF8:   r.isUTF8,
		},
		AvgRecordLen: r.avgRecordLen,
		NumFields:    r.delimiterFreq + 1,
		Fields:       r.fields,
		Types:        r.types,
	}, nil
}

func countByte(s string, b byte) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			n++
		}
	}
	return n
}

func recordByteLen(record []string) int {
	n := 0
	for _, f := range record {
		n += len(f)
	}
	return n
}
