package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrNoSession        = errors.New("no session")
	ErrSessionCompleted = errors.New("session already completed")
	ErrBusy             = errors.New("request already in flight")
	ErrDone             = errors.New("no more comparisons")
	ErrInvalidChoice    = errors.New("invalid choice")
)

// StatusError is a non-2xx backend response.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend status %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("backend status %d", e.Code)
}

// IsSessionError reports whether err says the session id is no longer usable.
func IsSessionError(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	switch statusErr.Code {
	case http.StatusNotFound, http.StatusUnauthorized, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

// Message turns err into the single line shown to the user.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && strings.TrimSpace(statusErr.Detail) != "" {
		return statusErr.Detail
	}
	switch {
	case errors.Is(err, ErrSessionCompleted):
		return "This session is complete. Thank you for voting!"
	case errors.Is(err, ErrDone):
		return "No more comparisons left."
	case errors.Is(err, ErrInvalidChoice):
		return err.Error()
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}
