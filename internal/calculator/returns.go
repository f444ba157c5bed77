package calculator

import (
	"investorly/internal/domain"
	"math"
	"time"
)

// ComputeReturns derives per-day returns and dollar values for one asset
// from its price series. Values are relative to the first price, so the
// first row is always worth exactly initialInvestment. The input series
// is not modified.
func ComputeReturns(series domain.PriceSeries, initialInvestment float64) (*domain.ReturnSeries, error) {
	if initialInvestment <= 0 || math.IsNaN(initialInvestment) || math.IsInf(initialInvestment, 0) {
		return nil, domain.ValidationError{
			Field:  "initialInvestment",
			Reason: "must be a positive amount",
		}
	}

	prices, column, err := series.ReferencePrices()
	if err != nil {
		return nil, err
	}

	basePrice := prices[0]
	if basePrice <= 0 {
		return nil, domain.DataError{
			Symbol: series.Symbol,
			Reason: "first price must be positive",
		}
	}

	rows := make([]domain.ReturnRow, len(prices))
	cumulative := 1.0
	for i, price := range prices {
		row := domain.ReturnRow{
			Date:  series.Points[i].Date,
			Price: price,
		}
		if i == 0 {
			row.PortfolioValue = initialInvestment
		} else {
			prev := prices[i-1]
			if prev == 0 {
				return nil, domain.DataError{
					Symbol: series.Symbol,
					Reason: "zero price on " + series.Points[i-1].Date.Format(time.DateOnly),
				}
			}
			dailyReturn := (price - prev) / prev
			row.DailyReturn = &dailyReturn
			cumulative *= 1 + dailyReturn
			row.PortfolioValue = (price / basePrice) * initialInvestment
		}
		row.CumulativeReturn = cumulative
		row.GainLoss = row.PortfolioValue - initialInvestment
		row.GainLossPct = row.GainLoss / initialInvestment * 100
		rows[i] = row
	}

	return &domain.ReturnSeries{
		Symbol:            series.Symbol,
		InitialInvestment: initialInvestment,
		PriceColumn:       column,
		Rows:              rows,
	}, nil
}
