package montecarlo

// Option configures a Sampler.
type Option func(*Sampler)

// WithSeed fixes the seed of every call's random stream. Two calls with the
// same inputs then return the same estimate.
func WithSeed(seed uint64) Option {
	return func(s *Sampler) {
		s.seed = seed
		s.seeded = true
	}
}

// WithBounds clips every draw into [lo, hi]. Ignored when lo >= hi.
func WithBounds(lo, hi float64) Option {
	return func(s *Sampler) {
		if lo < hi {
			s.lo, s.hi = lo, hi
			s.clip = true
		}
	}
}

// WithSpreadScale sets the numerator of the games-played spread
// (sd = scale / sqrt(games)).
func WithSpreadScale(scale float64) Option {
	return func(s *Sampler) {
		if scale > 0 {
			s.spreadScale = scale
		}
	}
}

// WithDefaultTrials sets the trial count used when a call passes 0.
func WithDefaultTrials(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.defaultTrials = n
		}
	}
}
