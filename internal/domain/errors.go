package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvedSymbol means the resolver found no coin for the input.
	ErrUnresolvedSymbol = errors.New("unresolved symbol")
	// ErrProviderUnavailable means the upstream fetch failed and no
	// cached fallback existed.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrInsufficientHistory means fewer usable samples than the hard
	// floor were available, so moving averages would be misleading.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrIndicatorUnavailable marks a single skipped indicator. The
	// rest of the report is still produced.
	ErrIndicatorUnavailable = errors.New("indicator unavailable")
	// ErrCacheWriteConflict is logged and non-fatal; the cache is
	// best-effort.
	ErrCacheWriteConflict = errors.New("cache write conflict")
)

// AnalysisError wraps a failure with enough detail for the caller to
// render a specific message: which stage failed and for which coin.
type AnalysisError struct {
	Stage    string
	Coin     string
	Interval Interval
	Err      error
}

func (e *AnalysisError) Error() string {
	if e.Interval > 0 {
		return fmt.Sprintf("%s: coin %s interval %dd: %v", e.Stage, e.Coin, e.Interval, e.Err)
	}
	return fmt.Sprintf("%s: coin %s: %v", e.Stage, e.Coin, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

func NewAnalysisError(stage, coin string, interval Interval, err error) *AnalysisError {
	return &AnalysisError{Stage: stage, Coin: coin, Interval: interval, Err: err}
}
