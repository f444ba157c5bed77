package service

import (
	"errors"
	"investorly/internal/domain"
	mock_repository "investorly/internal/repository/mocks"
	"investorly/internal/util"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func closeSeries(symbol string, start time.Time, prices ...float64) *domain.PriceSeries {
	out := &domain.PriceSeries{Symbol: symbol}
	for i, p := range prices {
		out.Points = append(out.Points, domain.NewClosePoint(start.AddDate(0, 0, i), p))
	}
	return out
}

func TestSimulationService_SimulatePortfolio(t *testing.T) {
	registry := domain.DefaultAssetRegistry()

	t.Run("one missing dataset does not abort the simulation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		priceRepository.EXPECT().Load("A").Return(closeSeries("A", util.NewDate(2020, 1, 1), 100, 110), nil)
		priceRepository.EXPECT().Load("B").Return(nil, domain.NotFoundError{Symbol: "B"})

		svc := NewSimulationService(priceRepository, registry)
		result, errs, err := svc.SimulatePortfolio(SimulatePortfolioInput{
			InvestmentAmount: 1000,
			InvestmentDate:   util.NewDate(2020, 1, 1),
			Allocations:      domain.AllocationSet{"A": 60, "B": 40},
		})
		require.NoError(t, err)
		require.Equal(t, "", cmp.Diff([]string{"could not load data for B: no data found for B"}, errs))
		require.NotNil(t, result)
		require.Len(t, result.Breakdown, 1)

		a := result.Breakdown["A"]
		require.Equal(t, 600.0, a.Initial)
		require.Equal(t, 660.0, a.Current)
		require.Equal(t, a.Current, result.TotalCurrent)
		require.Equal(t, 1000.0, result.TotalInitial)
		require.InDelta(t, 60, result.TotalGainLoss, 1e-9)
		require.InDelta(t, 6, result.TotalGainLossPct, 1e-9)
		require.Equal(t, "A", a.Info.Ticker)
		require.Len(t, a.Series.Rows, 2)
	})

	t.Run("percentage uses the full principal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		priceRepository.EXPECT().Load("X").Return(closeSeries("X", util.NewDate(2020, 1, 1), 100, 120), nil)
		priceRepository.EXPECT().Load("Y").Return(closeSeries("Y", util.NewDate(2020, 1, 1), 100, 90), nil)

		svc := NewSimulationService(priceRepository, registry)
		allocations := domain.AllocationSet{"X": 50, "Y": 30}
		result, errs, err := svc.SimulatePortfolio(SimulatePortfolioInput{
			InvestmentAmount: 1000,
			InvestmentDate:   util.NewDate(2020, 1, 1),
			Allocations:      allocations,
		})
		require.NoError(t, err)
		require.Empty(t, errs)
		require.InDelta(t, 870, result.TotalCurrent, 1e-9)
		require.InDelta(t, 70, result.TotalGainLoss, 1e-9)
		require.InDelta(t, 7, result.TotalGainLossPct, 1e-9)

		summary := ComposeDashboard(result, allocations, 1000, 0.15)
		require.True(t, decimal.NewFromInt(1070).Equal(summary.TotalCurrent))
		require.True(t, decimal.NewFromInt(200).Equal(summary.CashValue))
		require.False(t, summary.TotalCurrent.Equal(decimal.NewFromFloat(result.TotalCurrent)))
	})

	t.Run("filters to the investment date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		priceRepository.EXPECT().Load("VOO").Return(closeSeries("VOO", util.NewDate(2020, 1, 1), 50, 100, 150, 200), nil)

		svc := NewSimulationService(priceRepository, registry)
		end := util.NewDate(2020, 1, 3)
		result, errs, err := svc.SimulatePortfolio(SimulatePortfolioInput{
			InvestmentAmount: 100,
			InvestmentDate:   util.NewDate(2020, 1, 2),
			EndDate:          &end,
			Allocations:      domain.AllocationSet{"voo": 100},
		})
		require.NoError(t, err)
		require.Empty(t, errs)

		voo := result.Breakdown["VOO"]
		require.Equal(t, util.NewDate(2020, 1, 2), voo.StartDate)
		require.Equal(t, end, voo.EndDate)
		require.Equal(t, 150.0, voo.Current)
		require.Equal(t, 150.0, voo.CurrentPrice)
		require.Equal(t, "Vanguard S&P 500 ETF", voo.Info.Name)
	})

	t.Run("no data after the investment date", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		priceRepository.EXPECT().Load("BTC").Return(closeSeries("BTC", util.NewDate(2020, 1, 1), 1, 2), nil)

		svc := NewSimulationService(priceRepository, registry)
		result, errs, err := svc.SimulatePortfolio(SimulatePortfolioInput{
			InvestmentAmount: 100,
			InvestmentDate:   util.NewDate(2021, 1, 1),
			Allocations:      domain.AllocationSet{"BTC": 10},
		})
		require.NoError(t, err)
		require.Nil(t, result)
		require.Equal(t, "", cmp.Diff([]string{"no data available for BTC from 2021-01-01"}, errs))
	})

	t.Run("corrupt data is reported per asset", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		priceRepository.EXPECT().Load("QQQ").Return(nil, domain.DataError{Symbol: "QQQ", Reason: "duplicate date 2020-01-01"})

		svc := NewSimulationService(priceRepository, registry)
		result, errs, err := svc.SimulatePortfolio(SimulatePortfolioInput{
			InvestmentAmount: 100,
			InvestmentDate:   util.NewDate(2020, 1, 1),
			Allocations:      domain.AllocationSet{"QQQ": 50},
		})
		require.NoError(t, err)
		require.Nil(t, result)
		require.Equal(t, "", cmp.Diff([]string{"could not load data for QQQ: invalid price data for QQQ: duplicate date 2020-01-01"}, errs))
	})

	t.Run("no positive allocations", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		svc := NewSimulationService(priceRepository, registry)

		for _, allocations := range []domain.AllocationSet{{}, {"VOO": 0, "BTC": -5}} {
			result, errs, err := svc.SimulatePortfolio(SimulatePortfolioInput{
				InvestmentAmount: 100,
				InvestmentDate:   util.NewDate(2020, 1, 1),
				Allocations:      allocations,
			})
			require.NoError(t, err)
			require.Nil(t, result)
			require.NotNil(t, errs)
			require.Empty(t, errs)
		}
	})

	t.Run("request validation happens before any load", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		priceRepository := mock_repository.NewMockPriceRepository(ctrl)
		svc := NewSimulationService(priceRepository, registry)
		before := util.NewDate(2019, 1, 1)

		for _, in := range []SimulatePortfolioInput{
			{InvestmentAmount: 0, InvestmentDate: util.NewDate(2020, 1, 1), Allocations: domain.AllocationSet{"VOO": 100}},
			{InvestmentAmount: -10, InvestmentDate: util.NewDate(2020, 1, 1), Allocations: domain.AllocationSet{"VOO": 100}},
			{InvestmentAmount: 10, Allocations: domain.AllocationSet{"VOO": 100}},
			{InvestmentAmount: 10, InvestmentDate: util.NewDate(2020, 1, 1), EndDate: &before, Allocations: domain.AllocationSet{"VOO": 100}},
			{InvestmentAmount: 10, InvestmentDate: util.NewDate(2020, 1, 1), Allocations: domain.AllocationSet{"VOO": 70, "BTC": 40}},
		} {
			result, errs, err := svc.SimulatePortfolio(in)
			var validationErr domain.ValidationError
			require.True(t, errors.As(err, &validationErr), "%+v", in)
			require.Nil(t, result)
			require.Nil(t, errs)
		}
	})
}

func TestFilterByDateRange(t *testing.T) {
	series := closeSeries("X", util.NewDate(2020, 1, 1), 1, 2, 3, 4)
	start := util.NewDate(2020, 1, 2)
	end := util.NewDate(2020, 1, 3)

	filtered := FilterByDateRange(*series, &start, &end)
	require.Equal(t, 2, filtered.Len())
	require.Equal(t, 4, series.Len())

	require.Equal(t, 4, FilterByDateRange(*series, nil, nil).Len())
	require.Equal(t, 3, FilterByDateRange(*series, &start, nil).Len())
}
