// Package chain implements the per-candidate-delimiter Markov chain and its
// Viterbi decoder used to classify row-structure regularity.
//
// Each Chain accumulates one observation per sampled row: the row's
// delimiter-byte frequency. Viterbi decodes the most probable sequence of
// three hidden states -- SteadyStrict, SteadyFlex, and Unsteady -- given
// those frequencies, reduced to one of three emission symbols (MaxValue,
// Other, Zero) per row.
package chain

const (
	// StateSteadyStrict is the narrowest row-regularity state: every row
	// produces the same delimiter frequency.
	StateSteadyStrict = iota
	// StateSteadyFlex allows rows to vary in delimiter frequency.
	StateSteadyFlex
	// StateUnsteady is the widest, catch-all state for erratic rows.
	StateUnsteady

	numStates = 3
)

const (
	obsMaxValue = iota
	obsOther
	obsZero

	numObs = 3
)

// PathStep is one entry of a decoded Viterbi path: the state occupied at
// this step, its probability, and the predecessor state that produced it.
// Prev is -1 for the initial (index 0) step, which has no predecessor.
type PathStep struct {
	State int
	Prob  float64
	Prev  int
}

// Result is the outcome of running Viterbi over a Chain's observations.
type Result struct {
	// MaxDelimFreq is the highest delimiter frequency observed across all
	// rows fed to the chain.
	MaxDelimFreq int
	// Path has len(observations)+1 entries: one initial state plus one per
	// observation. With no observations Path is nil; when every
	// observation is zero it is a single Unsteady step with Prob 0 and
	// Prev set to StateUnsteady.
	Path []PathStep
}

// Chain accumulates delimiter-frequency observations, one per sampled row,
// for a single candidate delimiter byte.
type Chain struct {
	observations []int
}

// AddObservation records one row's delimiter frequency.
func (c *Chain) AddObservation(freq int) {
	c.observations = append(c.observations, freq)
}

// Viterbi decodes the most probable state path for this chain's
// observations so far.
func (c *Chain) Viterbi() Result {
	if len(c.observations) == 0 {
		return Result{MaxDelimFreq: 0, Path: nil}
	}

	maxValue := c.observations[0]
	for _, v := range c.observations[1:] {
		if v > maxValue {
			maxValue = v
		}
	}
	if maxValue == 0 {
		return Result{
			MaxDelimFreq: 0,
			Path:         []PathStep{{State: StateUnsteady, Prob: 0, Prev: StateUnsteady}},
		}
	}

	startProb := [numStates]float64{1.0 / 3.0, 1.0 / 3.0, 1.0 / 3.0}

	// trans[from][to]
	trans := [numStates][numStates]float64{
		{1.0, 0.0, 0.0},
		{0.0, 1.0, 0.0},
		{0.2, 0.2, 0.6},
	}
	const delta = 0.01
	drift := func() {
		trans[StateUnsteady][StateSteadyStrict] = fmax0(trans[StateUnsteady][StateSteadyStrict] - delta)
		trans[StateUnsteady][StateSteadyFlex] = fmax0(trans[StateUnsteady][StateSteadyFlex] - delta)
		trans[StateUnsteady][StateUnsteady] = fmin1(trans[StateUnsteady][StateUnsteady] + 2*delta)
	}

	emitUniform := 1.0 / (float64(maxValue) + 1.0)
	emit := [numStates][numObs]float64{
		{1.0, 0.0, 0.0},
		{0.7, 0.3, 0.0},
		{emitUniform, 1 - 2*emitUniform, emitUniform},
	}
	observe := func(freq int) int {
		switch {
		case freq == maxValue:
			return obsMaxValue
		case freq == 0:
			return obsZero
		default:
			return obsOther
		}
	}

	type node struct {
		prob float64
		prev int
	}
	iterations := make([][numStates]node, len(c.observations)+1)
	for s := 0; s < numStates; s++ {
		iterations[0][s] = node{prob: startProb[s], prev: -1}
	}

	for t, freq := range c.observations {
		obs := observe(freq)
		for s := 0; s < numStates; s++ {
			bestPrev, bestProb := 0, -1.0
			for p := 0; p < numStates; p++ {
				tr := iterations[t][p].prob * trans[p][s]
				if bestProb < 0 || tr > bestProb {
					bestPrev, bestProb = p, tr
				}
			}
			iterations[t+1][s] = node{prob: bestProb * emit[s][obs], prev: bestPrev}
			// The transition matrix drifts after every per-state update,
			// not just once per row: three drifts accumulate per
			// timestep, biasing the chain toward staying Unsteady early
			// in the sample so transient header anomalies don't latch
			// the path into a steady state.
			drift()
		}
	}

	finalIdx := len(iterations) - 1
	bestState, bestProb := 0, iterations[finalIdx][0].prob
	for s := 1; s < numStates; s++ {
		if iterations[finalIdx][s].prob > bestProb {
			bestState, bestProb = s, iterations[finalIdx][s].prob
		}
	}

	path := make([]PathStep, len(iterations))
	state := bestState
	for t := finalIdx; t >= 0; t-- {
		n := iterations[t][state]
		path[t] = PathStep{State: state, Prob: n.prob, Prev: n.prev}
		state = n.prev
	}
	return Result{MaxDelimFreq: maxValue, Path: path}
}

func fmax0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func fmin1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
