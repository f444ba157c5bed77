package domain

import "fmt"

// DataError means a price series could not be used: empty, no usable
// price column, or corrupt values. Fatal to a single asset only.
type DataError struct {
	Symbol string
	Reason string
}

func (e DataError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("invalid price data: %s", e.Reason)
	}
	return fmt.Sprintf("invalid price data for %s: %s", e.Symbol, e.Reason)
}

// NotFoundError means there is no data for an asset, either at all or
// within the requested date range.
type NotFoundError struct {
	Symbol string
	Reason string
}

func (e NotFoundError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("no data found for %s", e.Symbol)
	}
	return fmt.Sprintf("no data found for %s: %s", e.Symbol, e.Reason)
}

// ValidationError rejects a whole request before any per-asset work.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid request: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
