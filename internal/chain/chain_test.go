package chain_test

import (
	"testing"

	"github.com/eltorocorp/csvsniffer/internal/chain"
	"github.com/stretchr/testify/assert"
)

func Test_Viterbi(t *testing.T) {
	tests := []struct {
		name            string
		observations    []int
		expMaxDelimFreq int
		expPathLen      int
		expFinalState   int
	}{
		{
			name:            "no observations",
			observations:    nil,
			expMaxDelimFreq: 0,
			expPathLen:      0,
			expFinalState:   -1,
		},
		{
			name:            "all zero observations",
			observations:    []int{0, 0, 0, 0, 0},
			expMaxDelimFreq: 0,
			expPathLen:      1,
			expFinalState:   chain.StateUnsteady,
		},
		{
			name:            "path length is observation count plus one",
			observations:    []int{3, 3, 3, 3, 0, 3, 3},
			expMaxDelimFreq: 3,
			expPathLen:      8,
			expFinalState:   -1,
		},
		{
			name:            "max delim freq is observation max",
			observations:    []int{1, 4, 2, 7, 3},
			expMaxDelimFreq: 7,
			expPathLen:      6,
			expFinalState:   -1,
		},
		{
			name:            "steady strict for constant frequency",
			observations:    repeat(4, 20),
			expMaxDelimFreq: 4,
			expPathLen:      21,
			expFinalState:   chain.StateSteadyStrict,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var c chain.Chain
			for _, f := range test.observations {
				c.AddObservation(f)
			}
			res := c.Viterbi()
			assert.Equal(t, test.expMaxDelimFreq, res.MaxDelimFreq, "MaxDelimFreq")
			if test.expPathLen == 0 {
				assert.Nil(t, res.Path, "Path")
				return
			}
			assert.Len(t, res.Path, test.expPathLen, "Path")
			if test.expFinalState >= 0 {
				final := res.Path[len(res.Path)-1]
				assert.Equal(t, test.expFinalState, final.State, "final state")
			}
		})
	}
}

func Test_Viterbi_PathPredecessorsChainBackToStart(t *testing.T) {
	var c chain.Chain
	for _, f := range []int{2, 2, 2, 0, 2, 2} {
		c.AddObservation(f)
	}
	res := c.Viterbi()
	for i := len(res.Path) - 1; i > 0; i-- {
		prev := res.Path[i].Prev
		assert.GreaterOrEqual(t, prev, 0, "Path[%d].Prev", i)
		assert.LessOrEqual(t, prev, 2, "Path[%d].Prev", i)
		assert.Equal(t, prev, res.Path[i-1].State, "Path[%d].Prev vs Path[%d].State", i, i-1)
	}
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}
