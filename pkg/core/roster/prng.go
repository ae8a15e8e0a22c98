package roster

// Rand is a mulberry32 pseudo-random stream. The same seed always yields
// the same sequence of draws.
type Rand struct {
	state uint32
}

// NewRand returns a stream seeded with seed
func NewRand(seed int32) *Rand {
	return &Rand{state: uint32(seed)}
}

// Float64 returns the next draw in [0, 1)
func (r *Rand) Float64() float64 {
	r.state += 0x6d2b79f5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296
}

// Intn returns a draw in [0, n) derived from Float64
func (r *Rand) Intn(n int) int {
	return int(r.Float64() * float64(n))
}

// Shuffle performs a Fisher-Yates shuffle over n elements
func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, r.Intn(i+1))
	}
}
