package analysis

import (
	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/models"
)

// Equilibrium returns the fixed point reached from a population of total
// size n and whether it is endemic. With beta*n <= delta the infection dies
// out and the disease-free state {S: n} is returned.
func Equilibrium(p models.Params, n float64) (dynamo.State, bool) {
	if p.Beta <= 0 || p.Beta*n <= p.Delta {
		return dynamo.State{S: n}, false
	}

	s := p.Delta / p.Beta
	rest := n - s
	if p.Delta+p.Lambda == 0 {
		return dynamo.State{S: s, I: rest}, true
	}
	return dynamo.State{
		S: s,
		I: p.Lambda * rest / (p.Delta + p.Lambda),
		R: p.Delta * rest / (p.Delta + p.Lambda),
	}, true
}
