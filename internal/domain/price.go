package domain

import (
	"fmt"
	"math"
	"time"
)

type PriceColumn string

const (
	PriceColumnAdjClose PriceColumn = "Adj Close"
	PriceColumnClose    PriceColumn = "Close"
)

// PricePoint is one daily observation. Fixed-income and other synthetic
// series only carry Close.
type PricePoint struct {
	Date     time.Time `json:"date"`
	Close    *float64  `json:"close,omitempty"`
	AdjClose *float64  `json:"adjClose,omitempty"`
}

func NewClosePoint(date time.Time, close float64) PricePoint {
	return PricePoint{
		Date:  date,
		Close: &close,
	}
}

func NewAdjustedPoint(date time.Time, close, adjClose float64) PricePoint {
	return PricePoint{
		Date:     date,
		Close:    &close,
		AdjClose: &adjClose,
	}
}

// PriceSeries is read-only once loaded: callers derive copies and never
// modify Points in place.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

func (s PriceSeries) Len() int {
	return len(s.Points)
}

// ReferenceColumn prefers the adjusted close whenever any observation
// has one.
func (s PriceSeries) ReferenceColumn() (PriceColumn, error) {
	hasClose := false
	for _, p := range s.Points {
		if p.AdjClose != nil {
			return PriceColumnAdjClose, nil
		}
		if p.Close != nil {
			hasClose = true
		}
	}
	if !hasClose {
		return "", DataError{
			Symbol: s.Symbol,
			Reason: "series has neither an adjusted close nor a close column",
		}
	}
	return PriceColumnClose, nil
}

// ReferencePrices returns the reference column as a plain slice, in
// series order.
func (s PriceSeries) ReferencePrices() ([]float64, PriceColumn, error) {
	if len(s.Points) == 0 {
		return nil, "", DataError{
			Symbol: s.Symbol,
			Reason: "series is empty",
		}
	}
	column, err := s.ReferenceColumn()
	if err != nil {
		return nil, "", err
	}

	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		v := p.Close
		if column == PriceColumnAdjClose {
			v = p.AdjClose
		}
		if v == nil {
			return nil, "", DataError{
				Symbol: s.Symbol,
				Reason: fmt.Sprintf("missing %s on %s", column, p.Date.Format(time.DateOnly)),
			}
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return nil, "", DataError{
				Symbol: s.Symbol,
				Reason: fmt.Sprintf("invalid %s on %s: %f", column, p.Date.Format(time.DateOnly), *v),
			}
		}
		out[i] = *v
	}

	return out, column, nil
}

// Between copies the observations whose date falls within [start, end].
// A nil bound is open.
func (s PriceSeries) Between(start, end *time.Time) PriceSeries {
	out := PriceSeries{
		Symbol: s.Symbol,
		Points: []PricePoint{},
	}
	for _, p := range s.Points {
		if start != nil && p.Date.Before(*start) {
			continue
		}
		if end != nil && p.Date.After(*end) {
			continue
		}
		out.Points = append(out.Points, p)
	}
	return out
}

func (s PriceSeries) FirstDate() (time.Time, bool) {
	if len(s.Points) == 0 {
		return time.Time{}, false
	}
	return s.Points[0].Date, true
}

func (s PriceSeries) LastDate() (time.Time, bool) {
	if len(s.Points) == 0 {
		return time.Time{}, false
	}
	return s.Points[len(s.Points)-1].Date, true
}
