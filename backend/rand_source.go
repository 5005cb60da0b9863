package main

import (
	"lukechampine.com/frand"

	"github.com/Befador/tictactoe/engine"
)

// frandSource draws from frand's package-level generator, which is safe for
// concurrent use by every AI player.
type frandSource struct{}

var _ engine.RandSource = frandSource{}

func (frandSource) Float64() float64 {
	return frand.Float64()
}

func (frandSource) Intn(n int) int {
	return frand.Intn(n)
}
