package calculator

import (
	"fmt"
	"investorly/internal/domain"

	"github.com/montanaflynn/stats"
)

// ComputeMetrics summarizes an already computed return series. Callers
// doing dollar simulations should always come through here with the
// series they got from ComputeReturns.
func ComputeMetrics(returns *domain.ReturnSeries) (*domain.PerformanceMetrics, error) {
	if returns == nil || len(returns.Rows) == 0 {
		symbol := ""
		if returns != nil {
			symbol = returns.Symbol
		}
		return nil, domain.DataError{
			Symbol: symbol,
			Reason: "return series is empty",
		}
	}

	last := returns.Rows[len(returns.Rows)-1]

	avgDailyReturn, volatility, err := dailyReturnStats(returns.DailyReturns())
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily return stats for %s: %w", returns.Symbol, err)
	}

	prices := returns.Prices()
	maxPrice, err := stats.Max(prices)
	if err != nil {
		return nil, fmt.Errorf("failed to compute max price for %s: %w", returns.Symbol, err)
	}
	minPrice, err := stats.Min(prices)
	if err != nil {
		return nil, fmt.Errorf("failed to compute min price for %s: %w", returns.Symbol, err)
	}

	return &domain.PerformanceMetrics{
		TotalReturnPct:    last.GainLossPct,
		TotalReturnDollar: last.GainLoss,
		FinalValue:        last.PortfolioValue,
		AvgDailyReturn:    avgDailyReturn,
		Volatility:        volatility,
		MaxDrawdownPct:    maxDrawdownPct(returns.PortfolioValues()),
		MaxPrice:          maxPrice,
		MinPrice:          minPrice,
		CurrentPrice:      last.Price,
	}, nil
}

// ComputeMetricsFromPrices uses the first price as a $1 baseline, so the
// dollar fields are per unit of that price.
func ComputeMetricsFromPrices(series domain.PriceSeries) (*domain.PerformanceMetrics, error) {
	prices, _, err := series.ReferencePrices()
	if err != nil {
		return nil, err
	}
	returns, err := ComputeReturns(series, prices[0])
	if err != nil {
		return nil, fmt.Errorf("failed to compute returns for %s: %w", series.Symbol, err)
	}
	return ComputeMetrics(returns)
}

// dailyReturnStats returns mean and sample stdev, both as percentages
func dailyReturnStats(dailyReturns []float64) (float64, float64, error) {
	if len(dailyReturns) == 0 {
		return 0, 0, nil
	}
	mean, err := stats.Mean(dailyReturns)
	if err != nil {
		return 0, 0, err
	}
	if len(dailyReturns) < 2 {
		return mean * 100, 0, nil
	}
	stdev, err := stats.StandardDeviationSample(dailyReturns)
	if err != nil {
		return 0, 0, err
	}
	return mean * 100, stdev * 100, nil
}

// maxDrawdownPct is the largest peak-to-trough decline, as a positive
// percentage of the peak
func maxDrawdownPct(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	peak := values[0]
	maxDrawdown := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		drawdown := (peak - v) / peak
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return maxDrawdown * 100
}
