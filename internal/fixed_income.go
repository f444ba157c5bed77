package internal

import (
	"fmt"
	"investorly/internal/domain"
	"investorly/internal/repository"
	"math"
	"time"
)

const DefaultFixedIncomePrincipal = 10000.0

// GenerateFixedIncomeRows compounds principal daily at the given APY,
// one Close row per calendar day from start through end:
// value[i] = principal * (1+apy)^(i/365).
func GenerateFixedIncomeRows(start, end time.Time, apy, principal float64) []repository.PriceCsvRow {
	rows := []repository.PriceCsvRow{}
	for i, d := 0, start; !d.After(end); i, d = i+1, d.AddDate(0, 0, 1) {
		value := principal * math.Pow(1+apy, float64(i)/365)
		rows = append(rows, repository.PriceCsvRow{
			Date:  d.Format(time.DateOnly),
			Close: &value,
		})
	}
	return rows
}

// GenerateFixedIncomeDatasets writes a synthetic series for every fixed
// income product in the registry.
func GenerateFixedIncomeDatasets(
	start, end time.Time,
	registry *domain.AssetRegistry,
	priceRepository repository.PriceRepository,
) ([]string, error) {
	if end.Before(start) {
		return nil, domain.ValidationError{Field: "end", Reason: "must not be before start"}
	}
	written := []string{}
	for _, a := range registry.ListByCategory(domain.AssetCategoryFixedIncome) {
		if a.APY == nil {
			continue
		}
		rows := GenerateFixedIncomeRows(start, end, *a.APY, DefaultFixedIncomePrincipal)
		if err := priceRepository.Save(a.Ticker, rows); err != nil {
			return written, fmt.Errorf("failed to save %s: %w", a.Ticker, err)
		}
		written = append(written, a.Ticker)
	}
	return written, nil
}
