// Package clock abstracts wall-clock time so timestamps are testable
package clock

import "time"

//go:generate mockgen -destination=mock/mock.go -package=clockmock github.com/KirkDiggler/kingdom-api/internal/pkg/clock Clock

// Clock reports the current time
type Clock interface {
	Now() time.Time
}

// Real uses the system clock
type Real struct{}

// Now returns time.Now in UTC
func (c *Real) Now() time.Time {
	return time.Now().UTC()
}

// New returns the system clock
func New() Clock {
	return &Real{}
}

// Fixed always reports the same instant
type Fixed struct {
	At time.Time
}

// Now returns the fixed instant
func (c *Fixed) Now() time.Time {
	return c.At
}
