package api

import (
	"golang.org/x/time/rate"

	"github.com/okian/mlbsim/pkg/logger"
)

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits business endpoints to rps requests per second with
// the given burst, shared by all clients. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = newRateLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
