package domain

import (
	"sort"
	"time"
)

// AllocationSet maps ticker to percentage of the principal (0-100).
// Entries <= 0 don't participate; anything below 100 in total is idle
// cash.
type AllocationSet map[string]float64

// Positive returns the participating entries with normalized tickers.
func (a AllocationSet) Positive() AllocationSet {
	out := AllocationSet{}
	for ticker, pct := range a {
		if pct > 0 {
			out[NormalizeTicker(ticker)] += pct
		}
	}
	return out
}

func (a AllocationSet) AllocatedPct() float64 {
	total := 0.0
	for _, pct := range a {
		if pct > 0 {
			total += pct
		}
	}
	return total
}

func (a AllocationSet) UnallocatedPct() float64 {
	unallocated := 100 - a.AllocatedPct()
	if unallocated < 0 {
		return 0
	}
	return unallocated
}

// SortedTickers gives a stable processing order.
func (a AllocationSet) SortedTickers() []string {
	out := make([]string, 0, len(a))
	for ticker := range a {
		out = append(out, ticker)
	}
	sort.Strings(out)
	return out
}

type AssetBreakdown struct {
	Ticker         string        `json:"ticker"`
	Initial        float64       `json:"initial"`
	Current        float64       `json:"current"`
	GainLoss       float64       `json:"gainLoss"`
	GainLossPct    float64       `json:"gainLossPct"`
	Volatility     float64       `json:"volatility"`
	AvgDailyReturn float64       `json:"avgDailyReturn"`
	MaxDrawdownPct float64       `json:"maxDrawdownPct"`
	CurrentPrice   float64       `json:"currentPrice"`
	MaxPrice       float64       `json:"maxPrice"`
	MinPrice       float64       `json:"minPrice"`
	StartDate      time.Time     `json:"startDate"`
	EndDate        time.Time     `json:"endDate"`
	Series         *ReturnSeries `json:"series"`
	Info           Asset         `json:"info"`
}

// PortfolioResult is recomputed for every simulation request.
// TotalInitial is the full principal, including any unallocated part.
type PortfolioResult struct {
	TotalInitial     float64                   `json:"totalInitial"`
	TotalCurrent     float64                   `json:"totalCurrent"`
	TotalGainLoss    float64                   `json:"totalGainLoss"`
	TotalGainLossPct float64                   `json:"totalGainLossPct"`
	Breakdown        map[string]AssetBreakdown `json:"breakdown"`
}

// SortedBreakdown orders assets by current value, largest first.
func (p PortfolioResult) SortedBreakdown() []AssetBreakdown {
	out := make([]AssetBreakdown, 0, len(p.Breakdown))
	for _, b := range p.Breakdown {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Current != out[j].Current {
			return out[i].Current > out[j].Current
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}

func (p PortfolioResult) InvestedInitial() float64 {
	total := 0.0
	for _, b := range p.Breakdown {
		total += b.Initial
	}
	return total
}
