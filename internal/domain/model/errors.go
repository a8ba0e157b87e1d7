package model

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork           = errors.New("listing request failed")
	ErrFormat            = errors.New("listing response malformed")
	ErrViewNotFound      = errors.New("view not found")
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrUnknownSite       = errors.New("unknown site")
)

// FetchError is returned when the listings endpoint cannot be reached or
// answers with a non-success status. Status is 0 for transport failures.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("fetch listings: %v", e.Err)
	}
	return fmt.Sprintf("fetch listings: unexpected status %d", e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrNetwork }

// ParseError is returned when the response body does not have the
// expected {"data": [...]} shape.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse listings: %s: %v", e.Reason, e.Err)
	}
	return "parse listings: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrFormat }

// StatusOf maps a load error to the status recorded in the journal.
func StatusOf(err error) LoadStatus {
	switch {
	case err == nil:
		return LoadOK
	case errors.Is(err, ErrFormat):
		return LoadFormatError
	default:
		return LoadNetworkError
	}
}

// HTTPStatusOf returns the upstream status carried by err, or 0.
func HTTPStatusOf(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Status
	}
	return 0
}
