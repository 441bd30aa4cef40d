package ratelimiter

// RateLimiter is the interface for rate limiting. Allow reports whether
// a request may proceed.
type RateLimiter interface {
	Allow() bool
}
