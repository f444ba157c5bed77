package service

import (
	"errors"
	"fmt"
	"investorly/internal/calculator"
	"investorly/internal/domain"
	"investorly/internal/repository"
	"math"
	"time"
)

type SimulatePortfolioInput struct {
	InvestmentAmount float64
	InvestmentDate   time.Time
	// EndDate defaults to the end of each series
	EndDate     *time.Time
	Allocations domain.AllocationSet
}

type SimulationService interface {
	SimulatePortfolio(in SimulatePortfolioInput) (*domain.PortfolioResult, []string, error)
	SimulateAsset(ticker string, principal float64, start time.Time, end *time.Time) (*domain.AssetBreakdown, error)
}

type simulationServiceHandler struct {
	PriceRepository repository.PriceRepository
	AssetRegistry   *domain.AssetRegistry
}

func NewSimulationService(priceRepository repository.PriceRepository, registry *domain.AssetRegistry) SimulationService {
	return simulationServiceHandler{
		PriceRepository: priceRepository,
		AssetRegistry:   registry,
	}
}

func (in SimulatePortfolioInput) validate() error {
	if math.IsNaN(in.InvestmentAmount) || math.IsInf(in.InvestmentAmount, 0) || in.InvestmentAmount <= 0 {
		return domain.ValidationError{Field: "investmentAmount", Reason: "must be greater than zero"}
	}
	if in.InvestmentDate.IsZero() {
		return domain.ValidationError{Field: "investmentDate", Reason: "is required"}
	}
	if in.EndDate != nil && in.EndDate.Before(in.InvestmentDate) {
		return domain.ValidationError{Field: "endDate", Reason: "must not be before investmentDate"}
	}
	return ValidateAllocations(in.Allocations)
}

// SimulatePortfolio runs every positive allocation independently. A
// request-level problem is returned as a ValidationError before any
// data is loaded; per-asset problems end up in the returned error list
// and the asset is left out of the breakdown. The result is nil when no
// asset could be simulated.
func (h simulationServiceHandler) SimulatePortfolio(in SimulatePortfolioInput) (*domain.PortfolioResult, []string, error) {
	if err := in.validate(); err != nil {
		return nil, nil, err
	}

	errs := []string{}
	breakdown := map[string]domain.AssetBreakdown{}
	totalCurrent := 0.0
	totalGainLoss := 0.0

	allocations := in.Allocations.Positive()
	for _, ticker := range allocations.SortedTickers() {
		principal := allocations[ticker] / 100 * in.InvestmentAmount

		b, err := h.SimulateAsset(ticker, principal, in.InvestmentDate, in.EndDate)
		if err != nil {
			errs = append(errs, describeAssetError(ticker, in.InvestmentDate, err))
			continue
		}

		totalCurrent += b.Current
		totalGainLoss += b.GainLoss
		breakdown[ticker] = *b
	}

	if len(breakdown) == 0 {
		return nil, errs, nil
	}

	return &domain.PortfolioResult{
		TotalInitial:     in.InvestmentAmount,
		TotalCurrent:     totalCurrent,
		TotalGainLoss:    totalGainLoss,
		TotalGainLossPct: totalGainLoss / in.InvestmentAmount * 100,
		Breakdown:        breakdown,
	}, errs, nil
}

// SimulateAsset loads, filters and evaluates a single asset.
func (h simulationServiceHandler) SimulateAsset(ticker string, principal float64, start time.Time, end *time.Time) (*domain.AssetBreakdown, error) {
	ticker = domain.NormalizeTicker(ticker)
	series, err := h.PriceRepository.Load(ticker)
	if err != nil {
		return nil, err
	}

	filtered := FilterByDateRange(*series, &start, end)
	if filtered.Len() == 0 {
		return nil, domain.NotFoundError{
			Symbol: ticker,
			Reason: noDataInRange,
		}
	}

	returns, err := calculator.ComputeReturns(filtered, principal)
	if err != nil {
		return nil, err
	}
	metrics, err := calculator.ComputeMetrics(returns)
	if err != nil {
		return nil, err
	}

	startDate, _ := filtered.FirstDate()
	endDate, _ := filtered.LastDate()

	return &domain.AssetBreakdown{
		Ticker:         ticker,
		Initial:        principal,
		Current:        metrics.FinalValue,
		GainLoss:       metrics.TotalReturnDollar,
		GainLossPct:    metrics.TotalReturnPct,
		Volatility:     metrics.Volatility,
		AvgDailyReturn: metrics.AvgDailyReturn,
		MaxDrawdownPct: metrics.MaxDrawdownPct,
		CurrentPrice:   metrics.CurrentPrice,
		MaxPrice:       metrics.MaxPrice,
		MinPrice:       metrics.MinPrice,
		StartDate:      startDate,
		EndDate:        endDate,
		Series:         returns,
		Info:           h.AssetRegistry.Describe(ticker),
	}, nil
}

// FilterByDateRange keeps observations within [start, end]. Nil bounds
// are open. The input is not modified.
func FilterByDateRange(series domain.PriceSeries, start, end *time.Time) domain.PriceSeries {
	return series.Between(start, end)
}

const noDataInRange = "no prices in the requested date range"

func describeAssetError(ticker string, start time.Time, err error) string {
	var notFound domain.NotFoundError
	if errors.As(err, &notFound) && notFound.Reason == noDataInRange {
		return fmt.Sprintf("no data available for %s from %s", ticker, start.Format(time.DateOnly))
	}
	return fmt.Sprintf("could not load data for %s: %s", ticker, err.Error())
}
