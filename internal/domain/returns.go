package domain

import "time"

type ReturnRow struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
	// DailyReturn is a fraction and is nil on the first row, where it
	// is undefined.
	DailyReturn      *float64 `json:"dailyReturn"`
	CumulativeReturn float64  `json:"cumulativeReturn"`
	PortfolioValue   float64  `json:"portfolioValue"`
	GainLoss         float64  `json:"gainLoss"`
	GainLossPct      float64  `json:"gainLossPct"`
}

// ReturnSeries is derived from a PriceSeries and an initial investment.
// Rows[0].PortfolioValue is always exactly InitialInvestment.
type ReturnSeries struct {
	Symbol            string      `json:"symbol"`
	InitialInvestment float64     `json:"initialInvestment"`
	PriceColumn       PriceColumn `json:"priceColumn"`
	Rows              []ReturnRow `json:"rows"`
}

func (r ReturnSeries) Len() int {
	return len(r.Rows)
}

func (r ReturnSeries) Last() (ReturnRow, bool) {
	if len(r.Rows) == 0 {
		return ReturnRow{}, false
	}
	return r.Rows[len(r.Rows)-1], true
}

// DailyReturns skips the undefined first entry.
func (r ReturnSeries) DailyReturns() []float64 {
	out := []float64{}
	for _, row := range r.Rows {
		if row.DailyReturn != nil {
			out = append(out, *row.DailyReturn)
		}
	}
	return out
}

func (r ReturnSeries) Prices() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.Price
	}
	return out
}

func (r ReturnSeries) PortfolioValues() []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row.PortfolioValue
	}
	return out
}

type PerformanceMetrics struct {
	TotalReturnPct    float64 `json:"totalReturnPct"`
	TotalReturnDollar float64 `json:"totalReturnDollar"`
	FinalValue        float64 `json:"finalValue"`
	// AvgDailyReturn and Volatility are percentages of daily returns
	AvgDailyReturn float64 `json:"avgDailyReturn"`
	Volatility     float64 `json:"volatility"`
	MaxDrawdownPct float64 `json:"maxDrawdownPct"`
	MaxPrice       float64 `json:"maxPrice"`
	MinPrice       float64 `json:"minPrice"`
	CurrentPrice   float64 `json:"currentPrice"`
}
