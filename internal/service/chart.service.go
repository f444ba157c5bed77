package service

import (
	"fmt"
	"investorly/internal/domain"
	"sort"
	"time"

	"github.com/vicanso/go-charts/v2"
)

const totalSeriesName = "Total"

type chartSeries struct {
	Dates  []time.Time
	Names  []string
	Values [][]float64
}

// alignPortfolioValues puts every asset's value curve on the union of
// their dates. An asset holds its last known value on days it didn't
// trade and its initial amount before its first row. The last series is
// the total including idle cash.
func alignPortfolioValues(result *domain.PortfolioResult, cashValue float64) (*chartSeries, error) {
	if result == nil || len(result.Breakdown) == 0 {
		return nil, domain.ValidationError{Field: "result", Reason: "nothing to chart"}
	}
	breakdown := result.SortedBreakdown()
	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Ticker < breakdown[j].Ticker
	})

	dateSet := map[time.Time]bool{}
	for _, b := range breakdown {
		if b.Series == nil {
			continue
		}
		for _, row := range b.Series.Rows {
			dateSet[row.Date] = true
		}
	}
	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	out := &chartSeries{Dates: dates}
	total := make([]float64, len(dates))
	for i := range total {
		total[i] = cashValue
	}
	for _, b := range breakdown {
		values := make([]float64, len(dates))
		last := b.Initial
		j := 0
		var rows []domain.ReturnRow
		if b.Series != nil {
			rows = b.Series.Rows
		}
		for i, d := range dates {
			for j < len(rows) && !rows[j].Date.After(d) {
				last = rows[j].PortfolioValue
				j++
			}
			values[i] = last
			total[i] += last
		}
		out.Names = append(out.Names, b.Ticker)
		out.Values = append(out.Values, values)
	}
	out.Names = append(out.Names, totalSeriesName)
	out.Values = append(out.Values, total)

	return out, nil
}

// RenderPortfolioChart draws one line per asset plus the portfolio
// total and returns a PNG.
func RenderPortfolioChart(result *domain.PortfolioResult, cashValue float64) ([]byte, error) {
	series, err := alignPortfolioValues(result, cashValue)
	if err != nil {
		return nil, err
	}

	xLabels := make([]string, len(series.Dates))
	for i, d := range series.Dates {
		xLabels[i] = d.Format("Jan '06")
	}
	splitNum := 6
	if len(xLabels) <= 30 {
		splitNum = len(xLabels) / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	title := "Portfolio Value"
	subtitle := fmt.Sprintf("Return: %.2f%% | Value: $%.2f", result.TotalGainLossPct, result.TotalCurrent+cashValue)

	p, err := charts.LineRender(
		series.Values,
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.LegendOptionFunc(charts.LegendOption{Data: series.Names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}
