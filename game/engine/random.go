package engine

import "math/rand/v2"

// RandomSource produces uniformly distributed integers in [0, n).
type RandomSource interface {
	Intn(n int) int
}

// RandomFunc adapts a plain function to RandomSource
type RandomFunc func(n int) int

// Intn calls f(n)
func (f RandomFunc) Intn(n int) int {
	return f(n)
}

type pcgSource struct {
	r *rand.Rand
}

func (p *pcgSource) Intn(n int) int {
	return p.r.IntN(n)
}

// NewRandomSource returns a deterministic source seeded with seed. Two
// sources built from the same seed produce the same sequence.
func NewRandomSource(seed uint64) RandomSource {
	return &pcgSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type globalSource struct{}

func (globalSource) Intn(n int) int {
	return rand.IntN(n)
}

// DefaultRandomSource returns the process-wide source. It is safe for
// concurrent use.
func DefaultRandomSource() RandomSource {
	return globalSource{}
}

// draw pulls one value from rng and folds it into [0, n) so a misbehaving
// source can never place the target off the grid.
func draw(rng RandomSource, n int) int {
	v := rng.Intn(n) % n
	if v < 0 {
		v += n
	}
	return v
}
