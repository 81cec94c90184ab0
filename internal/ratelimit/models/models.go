// Package models holds rate limit results and key construction.
package models

import (
	"math"
	"time"
)

// Result is the outcome of one sliding-window check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole number of seconds until the window frees a slot.
func (r *Result) RetryAfter(now time.Time) int {
	d := r.ResetAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

// Limit is a per-window request budget.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Key namespaces a limiter subject such as a person id or client IP.
func Key(class, subject string) string {
	return "rl:" + class + ":" + subject
}
