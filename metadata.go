package csvsniffer

import (
	"bytes"
	"encoding/csv"
	"io"
	"text/template"

	"github.com/eltorocorp/csvsniffer/internal/fieldtype"
	"github.com/eltorocorp/csvsniffer/internal/qcsv"
	"github.com/eltorocorp/csvsniffer/internal/util"
)

// Type is a guessed semantic type for a CSV column, narrowest (TypeNull)
// to widest (TypeText). It is a direct alias of fieldtype.Type so the
// exported API and the internal inference machinery share one
// definition.
type Type = fieldtype.Type

const (
	TypeNull     = fieldtype.Null
	TypeBoolean  = fieldtype.Boolean
	TypeUnsigned = fieldtype.Unsigned
	TypeSigned   = fieldtype.Signed
	TypeFloat    = fieldtype.Float
	TypeDateTime = fieldtype.DateTime
	TypeDate     = fieldtype.Date
	TypeText     = fieldtype.Text
)

// DatePreference resolves day/month ambiguity in purely numeric dates.
type DatePreference = fieldtype.DatePreference

const (
	PreferMDY = fieldtype.PreferMDY
	PreferDMY = fieldtype.PreferDMY
)

// Quote describes whether (and with what character) a dialect quotes
// fields. The zero value is QuoteNone; build a concrete quote with
// QuoteChar.
type Quote struct {
	set  bool
	char byte
}

// QuoteNone is the absence of a quote character.
var QuoteNone = Quote{}

// QuoteChar returns a Quote that uses c as the quote character.
func QuoteChar(c byte) Quote { return Quote{set: true, char: c} }

// IsSome reports whether the quote is a concrete character.
func (q Quote) IsSome() bool { return q.set }

// Char returns the quote character. Only meaningful if IsSome is true.
func (q Quote) Char() byte { return q.char }

func (q Quote) String() string {
	if !q.set {
		return "none"
	}
	return string(q.char)
}

// Header describes whether the sniffed dialect believes the file carries
// a header row, and how many rows precede the header (or the first data
// row, if there's no header).
type Header struct {
	HasHeaderRow    bool
	NumPreambleRows int
}

// Dialect is the full set of syntactic parameters needed to parse a CSV
// file.
//
// Invariant: Delimiter is a 7-bit ASCII byte, and if Quote.IsSome() then
// Quote.Char() != Delimiter.
type Dialect struct {
	Delimiter byte
	Header    Header
	Quote     Quote
	Flexible  bool
	IsUTF8    bool
}

// OpenReader rewinds r to the start, skips the dialect's preamble rows,
// and returns a reader that yields the remaining records per this
// Dialect. When the sniffed quote character is the standard '"' (or
// there's no quoting at all), the returned value wraps an
// *encoding/csv.Reader; otherwise (quote is ' or `, which encoding/csv
// cannot express) it's a *qcsv.Reader with an equivalent
// Read() ([]string, error) method.
func (d Dialect) OpenReader(r io.ReadSeeker) (interface {
	Read() ([]string, error)
}, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if err := snipPreamble(r, d.Header.NumPreambleRows); err != nil {
		return nil, err
	}

	if !d.Quote.IsSome() || d.Quote.Char() == '"' {
		cr := csv.NewReader(r)
		cr.Comma = rune(d.Delimiter)
		if d.Flexible {
			cr.FieldsPerRecord = -1
		}
		if !d.Quote.IsSome() {
			cr.LazyQuotes = true
		}
		return csvReaderAdapter{cr}, nil
	}

	qr := qcsv.NewReader(r)
	qr.Delim = d.Delimiter
	qr.HasQuote = true
	qr.Quote = d.Quote.Char()
	qr.Flexible = d.Flexible
	return qr, nil
}

// OpenPath opens path and returns the result of OpenReader over it.
func (d Dialect) OpenPath(path string) (interface {
	Read() ([]string, error)
}, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	return d.OpenReader(f)
}

// csvReaderAdapter adapts *encoding/csv.Reader's Read() ([]string, error)
// signature to match qcsv.Reader's, so callers of Dialect.OpenReader get a
// single interface regardless of which quote character won.
type csvReaderAdapter struct {
	*csv.Reader
}

func (a csvReaderAdapter) Read() ([]string, error) {
	return a.Reader.Read()
}

// DelimiterChar renders the dialect's delimiter byte as a one-character
// string, for display purposes.
func (d Dialect) DelimiterChar() string { return string(d.Delimiter) }

// Metadata is the result of sniffing a CSV byte stream: the inferred
// Dialect plus per-column shape and type information.
type Metadata struct {
	Dialect      Dialect
	AvgRecordLen int
	NumFields    int
	Fields       []string
	Types        []Type
}

const metadataTemplate = `Metadata
========
Dialect:
	Delimiter: {{.Dialect.DelimiterChar}}
	Has header row?: {{.Dialect.Header.HasHeaderRow}}
	Number of preamble rows: {{.Dialect.Header.NumPreambleRows}}
	Quote character: {{.Dialect.Quote}}
	Flexible: {{.Dialect.Flexible}}
	UTF-8 clean: {{.Dialect.IsUTF8}}
Number of fields: {{.NumFields}}
Average record length: {{.AvgRecordLen}}
{{if .Fields}}Fields:
{{range $i, $f := .Fields}}	{{$i}}: {{$f}}
{{end}}{{end}}Types:
{{range $i, $t := .Types}}	{{$i}}: {{$t}}
{{end}}`

// String returns a human-readable report of the metadata, rendered with
// text/template in the same style as the teacher's ScanSummary.String().
func (m Metadata) String() string {
	tmpl := template.Must(template.New("metadata").Parse(metadataTemplate))
	buf := new(bytes.Buffer)
	util.Panic(tmpl.Execute(buf, m))
	return buf.String()
}
