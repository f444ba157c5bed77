package service

import (
	"bytes"
	"investorly/internal/domain"
	"investorly/internal/util"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func rowsFor(values map[int]float64, days ...int) []domain.ReturnRow {
	out := []domain.ReturnRow{}
	for _, d := range days {
		out = append(out, domain.ReturnRow{Date: util.NewDate(2020, 1, d), PortfolioValue: values[d]})
	}
	return out
}

func chartResult() *domain.PortfolioResult {
	return &domain.PortfolioResult{
		TotalInitial:     200,
		TotalCurrent:     230,
		TotalGainLoss:    30,
		TotalGainLossPct: 15,
		Breakdown: map[string]domain.AssetBreakdown{
			// trades every day
			"BTC": {
				Ticker:  "BTC",
				Initial: 100,
				Current: 140,
				Series:  &domain.ReturnSeries{Rows: rowsFor(map[int]float64{1: 100, 2: 120, 3: 140}, 1, 2, 3)},
			},
			// skips the 2nd
			"VOO": {
				Ticker:  "VOO",
				Initial: 100,
				Current: 90,
				Series:  &domain.ReturnSeries{Rows: rowsFor(map[int]float64{1: 100, 3: 90}, 1, 3)},
			},
		},
	}
}

func Test_alignPortfolioValues(t *testing.T) {
	series, err := alignPortfolioValues(chartResult(), 50)
	require.NoError(t, err)

	require.Len(t, series.Dates, 3)
	require.Equal(t, "", cmp.Diff([]string{"BTC", "VOO", "Total"}, series.Names))
	require.Equal(t, "", cmp.Diff([][]float64{
		{100, 120, 140},
		{100, 100, 90},
		{250, 270, 280},
	}, series.Values))

	_, err = alignPortfolioValues(&domain.PortfolioResult{}, 0)
	require.Error(t, err)
	_, err = alignPortfolioValues(nil, 0)
	require.Error(t, err)
}

func TestRenderPortfolioChart(t *testing.T) {
	png, err := RenderPortfolioChart(chartResult(), 50)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
