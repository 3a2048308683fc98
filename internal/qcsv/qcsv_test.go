package qcsv_test

import (
	"io"
	"strings"
	"testing"

	"github.com/eltorocorp/csvsniffer/internal/qcsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SplitLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		delim     byte
		quote     byte
		hasQuote  bool
		expFields []string
		expNEnds  int
	}{
		{
			name:      "simple",
			line:      "a,b,c",
			delim:     ',',
			quote:     '\'',
			hasQuote:  false,
			expFields: []string{"a", "b", "c"},
			expNEnds:  2,
		},
		{
			name:      "quoted delimiter is not a separator",
			line:      `'a,x',b,'c'`,
			delim:     ',',
			quote:     '\'',
			hasQuote:  true,
			expFields: []string{"a,x", "b", "c"},
			expNEnds:  2,
		},
		{
			name:      "doubled quote escapes",
			line:      `'it''s',b`,
			delim:     ',',
			quote:     '\'',
			hasQuote:  true,
			expFields: []string{"it's", "b"},
			expNEnds:  1,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			fields, nEnds := qcsv.SplitLine(test.line, test.delim, test.quote, test.hasQuote)
			assert.Equal(t, test.expFields, fields)
			assert.Equal(t, test.expNEnds, nEnds)
		})
	}
}

func Test_Reader_ReadsMultipleRecords(t *testing.T) {
	r := qcsv.NewReader(strings.NewReader("'a','b'\n'c','d'\n"))
	r.HasQuote = true
	r.Quote = '\''

	rec1, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rec1)

	rec2, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, rec2)

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func Test_Reader_MultiLineQuotedField(t *testing.T) {
	r := qcsv.NewReader(strings.NewReader("'a\nb','c'\n"))
	r.HasQuote = true
	r.Quote = '\''

	rec, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"a\nb", "c"}, rec)
}

func Test_Reader_FieldCountEnforcement(t *testing.T) {
	t.Run("rejects mismatch when not flexible", func(t *testing.T) {
		r := qcsv.NewReader(strings.NewReader("a,b\nc\n"))
		_, err := r.Read()
		require.NoError(t, err)
		_, err = r.Read()
		assert.Equal(t, qcsv.ErrFieldCount, err)
	})

	t.Run("flexible allows mismatch", func(t *testing.T) {
		r := qcsv.NewReader(strings.NewReader("a,b\nc\n"))
		r.Flexible = true
		_, err := r.Read()
		require.NoError(t, err)
		rec, err := r.Read()
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, rec)
	})
}
