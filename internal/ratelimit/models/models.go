// Package models holds the rate limiter's result and key types.
package models

import (
	"fmt"
	"time"

	id "rsu/pkg/domain"
)

// Class separates read and write budgets so bulk reads cannot starve writes.
type Class string

const (
	ClassRead  Class = "read"
	ClassWrite Class = "write"
)

// ClassForMethod maps safe HTTP methods to reads and everything else to writes.
func ClassForMethod(method string) Class {
	switch method {
	case "GET", "HEAD", "OPTIONS":
		return ClassRead
	default:
		return ClassWrite
	}
}

// Limit is a request budget per sliding window.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// RateLimitResult is the outcome of one Allow call.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// NewOperatorKey builds the bucket key for an operator and request class.
func NewOperatorKey(operatorID id.OperatorID, class Class) string {
	return fmt.Sprintf("rsu:ratelimit:%s:%s", class, operatorID)
}

// RateLimitExceededResponse is the body of a 429 response.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// RetryAfterSeconds rounds up so clients never retry early.
func RetryAfterSeconds(resetAt, now time.Time) int {
	d := resetAt.Sub(now)
	if d <= 0 {
		return 1
	}
	secs := int(d / time.Second)
	if d%time.Second != 0 {
		secs++
	}
	return secs
}
