package internal

import (
	"investorly/internal/domain"
	"investorly/internal/repository"
	"investorly/internal/util"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BenchmarkHandler struct {
	PriceRepository repository.PriceRepository
}

type benchmarkPrice struct {
	Date  time.Time
	Price decimal.Decimal
}

// Granularity maps daily/weekly/monthly to a sampling step. Anything
// else samples daily.
func Granularity(s string) time.Duration {
	granularity := time.Hour * 24
	switch strings.ToLower(s) {
	case "weekly":
		granularity *= 7
	case "monthly":
		granularity *= 30
	}
	return granularity
}

// GetIntraPeriodChange get historic prices for an asset
// and converts it to % change from start
func (h BenchmarkHandler) GetIntraPeriodChange(
	symbol string,
	start,
	end time.Time,
	granularity time.Duration,
) (map[time.Time]float64, error) {
	series, err := h.PriceRepository.Load(symbol)
	if err != nil {
		return nil, err
	}

	filtered := series.Between(&start, &end)
	if filtered.Len() == 0 {
		return nil, domain.NotFoundError{
			Symbol: domain.NormalizeTicker(symbol),
			Reason: "no prices between " + util.FormatDate(start) + " and " + util.FormatDate(end),
		}
	}
	values, _, err := filtered.ReferencePrices()
	if err != nil {
		return nil, err
	}
	if values[0] == 0 {
		return nil, domain.DataError{Symbol: filtered.Symbol, Reason: "first price in range is zero"}
	}

	prices := make([]benchmarkPrice, len(values))
	for i, v := range values {
		prices[i] = benchmarkPrice{
			Date:  filtered.Points[i].Date,
			Price: decimal.NewFromFloat(v),
		}
	}

	return intraPeriodChangeIterator(prices, end, granularity), nil
}

// walks forward from the first price, emitting the % change at every
// granularity step that lands on a trading day
func intraPeriodChangeIterator(
	prices []benchmarkPrice,
	end time.Time,
	granularity time.Duration,
) map[time.Time]float64 {
	layout := "2006-01-02"
	if len(prices) == 0 {
		return map[time.Time]float64{}
	}

	sort.Slice(prices, func(i2, j int) bool {
		return prices[i2].Date.Before(prices[j].Date)
	})

	i := 1
	out := map[time.Time]float64{
		prices[0].Date: 0,
	}
	nextTarget := prices[0].Date.Add(granularity)
	for i < len(prices) && util.DateLte(prices[i].Date, end) {
		for nextTarget.Format(layout) < prices[i].Date.Format(layout) {
			nextTarget = nextTarget.Add(24 * time.Hour)
		}
		if prices[i].Date.Format(layout) == nextTarget.Format(layout) {
			out[nextTarget] = decimal.NewFromInt(100).Mul((prices[i].Price.Sub(prices[0].Price))).Div(prices[0].Price).InexactFloat64()
			nextTarget = nextTarget.Add(granularity)
		}
		i++
	}

	return out
}
