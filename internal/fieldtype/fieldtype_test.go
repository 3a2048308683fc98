package fieldtype_test

import (
	"testing"

	"github.com/eltorocorp/csvsniffer/internal/fieldtype"
	"github.com/stretchr/testify/assert"
)

func Test_Guess(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		pref    fieldtype.DatePreference
		expBest fieldtype.Type
	}{
		{"empty field allows everything", "", fieldtype.PreferMDY, fieldtype.Null},
		{"unsigned", "42", fieldtype.PreferMDY, fieldtype.Unsigned},
		{"signed", "-42", fieldtype.PreferMDY, fieldtype.Signed},
		{"float", "3.14", fieldtype.PreferMDY, fieldtype.Float},
		{"boolean true", "true", fieldtype.PreferMDY, fieldtype.Boolean},
		{"boolean false", "false", fieldtype.PreferMDY, fieldtype.Boolean},
		{"boolean yes", "yes", fieldtype.PreferMDY, fieldtype.Boolean},
		{"boolean no", "no", fieldtype.PreferMDY, fieldtype.Boolean},
		{"boolean t", "t", fieldtype.PreferMDY, fieldtype.Boolean},
		{"boolean f", "f", fieldtype.PreferMDY, fieldtype.Boolean},
		{"text", "hello world", fieldtype.PreferMDY, fieldtype.Text},
		{"date", "2021-04-03", fieldtype.PreferMDY, fieldtype.Date},
		{"date time", "2021-04-03T15:04:05Z", fieldtype.PreferMDY, fieldtype.DateTime},
		{"ambiguous numeric date, MDY preference", "03/04/2021", fieldtype.PreferMDY, fieldtype.Date},
		{"ambiguous numeric date, DMY preference", "03/04/2021", fieldtype.PreferDMY, fieldtype.Date},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			g := fieldtype.Guess(test.field, test.pref)
			assert.Equal(t, test.expBest, g.Best())
			if test.expBest == fieldtype.Null {
				assert.Equal(t, fieldtype.All, g)
			}
		})
	}
}

func Test_CombineColumn(t *testing.T) {
	t.Run("intersection narrows across rows", func(t *testing.T) {
		col := fieldtype.All
		col = fieldtype.CombineColumn(col, fieldtype.Guess("1", fieldtype.PreferMDY))
		col = fieldtype.CombineColumn(col, fieldtype.Guess("2", fieldtype.PreferMDY))
		assert.Equal(t, fieldtype.Unsigned, col.Best())

		col = fieldtype.CombineColumn(col, fieldtype.Guess("not a number", fieldtype.PreferMDY))
		assert.Equal(t, fieldtype.Text, col.Best(), "a non-numeric field joining the column widens it to Text")
	})

	t.Run("all empty column stays null", func(t *testing.T) {
		col := fieldtype.All
		col = fieldtype.CombineColumn(col, fieldtype.Guess("", fieldtype.PreferMDY))
		col = fieldtype.CombineColumn(col, fieldtype.Guess("", fieldtype.PreferMDY))
		assert.Equal(t, fieldtype.Null, col.Best())
	})
}

func Test_Guesses_Allows(t *testing.T) {
	header := fieldtype.Guess("id", fieldtype.PreferMDY) // Text only
	data := fieldtype.Guess("1", fieldtype.PreferMDY)    // Boolean, Unsigned, Signed, Float, Text

	assert.True(t, data.Allows(header), "data admits numeric and boolean types that header lacks")

	sameShape := fieldtype.Guess("2", fieldtype.PreferMDY) // Unsigned, Signed, Float, Text
	assert.False(t, sameShape.Allows(data), "a subset allows nothing the other doesn't")
}

func Test_Record_MapsGuessAcrossFields(t *testing.T) {
	guesses := fieldtype.Record([]string{"1", "x", ""}, fieldtype.PreferMDY)
	assert.Len(t, guesses, 3)
	assert.Equal(t, fieldtype.All, guesses[2], "empty field allows everything")
}

func Test_BestAll_MapsBestAcrossColumns(t *testing.T) {
	types := fieldtype.BestAll([]fieldtype.Guesses{
		fieldtype.Guess("42", fieldtype.PreferMDY),
		fieldtype.Guess("hello", fieldtype.PreferMDY),
	})
	assert.Equal(t, []fieldtype.Type{fieldtype.Unsigned, fieldtype.Text}, types)
}
