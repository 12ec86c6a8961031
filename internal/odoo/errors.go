// SPDX-License-Identifier: MIT

package odoo

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrConfiguration = errors.New("backend: credentials not configured")
	ErrAuthFailed    = errors.New("backend: authentication rejected")
	ErrUnavailable   = errors.New("backend: host unreachable or transport failure")
	ErrBadResponse   = errors.New("backend: invalid response format or malformed data")
	ErrBackend       = errors.New("backend: remote execution fault")
)

// Error is a rich error type that wraps the sentinel errors with context.
type Error struct {
	Sentinel error
	Op       string
	Detail   string
	Err      error // Nested lower-level error (e.g. net.Error)
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("odoo: %s: %v", e.Op, e.Sentinel)
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Sentinel
}
