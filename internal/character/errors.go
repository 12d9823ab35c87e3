// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is returned when the upstream source answers 429.
	ErrRateLimited = errors.New("upstream rate limit exceeded")

	// ErrNotFound is returned when the upstream source answers 404.
	ErrNotFound = errors.New("upstream reported no data")
)

// UpstreamError is any other failed upstream call. StatusCode is 0 when the
// failure happened before or after the HTTP exchange (transport, decoding,
// payload validation).
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upstream: %v", e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("upstream: status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream: status %d: %v", e.StatusCode, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
