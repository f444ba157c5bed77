package internal

import (
	"fmt"
	"investorly/internal/domain"
	"investorly/internal/repository"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type priceBar struct {
	Date     time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	AdjClose decimal.Decimal
	Volume   int
}

type barFetcher func(dataSymbol string, start, end time.Time) ([]priceBar, error)

func fetchDailyBars(dataSymbol string, start, end time.Time) ([]priceBar, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   dataSymbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	bars := []priceBar{}
	for iter.Next() {
		b := iter.Bar()
		bars = append(bars, priceBar{
			Date:     time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			AdjClose: b.AdjClose,
			Volume:   b.Volume,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", dataSymbol, err)
	}

	return bars, nil
}

func barsToRows(ticker string, bars []priceBar) []repository.PriceCsvRow {
	rows := make([]repository.PriceCsvRow, 0, len(bars))
	seen := map[string]bool{}
	for _, b := range bars {
		date := b.Date.Format(time.DateOnly)
		// intraday bars for today can repeat the last session
		if seen[date] {
			continue
		}
		seen[date] = true

		open := b.Open.InexactFloat64()
		high := b.High.InexactFloat64()
		low := b.Low.InexactFloat64()
		closePrice := b.Close.InexactFloat64()
		adjClose := b.AdjClose.InexactFloat64()
		volume := float64(b.Volume)
		rows = append(rows, repository.PriceCsvRow{
			Date:     date,
			Open:     &open,
			High:     &high,
			Low:      &low,
			Close:    &closePrice,
			AdjClose: &adjClose,
			Volume:   &volume,
			Ticker:   ticker,
		})
	}
	return rows
}

// IngestPrices downloads daily history for a registered market asset
// and writes it to the dataset store. Returns the number of rows saved.
func IngestPrices(
	ticker string,
	start time.Time,
	registry *domain.AssetRegistry,
	priceRepository repository.PriceRepository,
) (int, error) {
	return ingestPrices(ticker, start, time.Now().UTC(), registry, priceRepository, fetchDailyBars)
}

func ingestPrices(
	ticker string,
	start, end time.Time,
	registry *domain.AssetRegistry,
	priceRepository repository.PriceRepository,
	fetch barFetcher,
) (int, error) {
	asset := registry.Describe(ticker)
	if asset.Category == domain.AssetCategoryFixedIncome {
		return 0, fmt.Errorf("%s is a fixed income product, generate it instead of fetching", asset.Ticker)
	}

	bars, err := fetch(asset.DataSymbol, start, end)
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, domain.NotFoundError{Symbol: asset.Ticker, Reason: "provider returned no prices"}
	}

	rows := barsToRows(asset.DataSymbol, bars)
	if err := priceRepository.Save(asset.Ticker, rows); err != nil {
		return 0, err
	}

	return len(rows), nil
}

// UpdateRegistryPrices refreshes every market asset in the registry and
// keeps going past individual failures.
func UpdateRegistryPrices(
	start time.Time,
	registry *domain.AssetRegistry,
	priceRepository repository.PriceRepository,
) error {
	return updateRegistryPrices(start, time.Now().UTC(), registry, priceRepository, fetchDailyBars)
}

func updateRegistryPrices(
	start, end time.Time,
	registry *domain.AssetRegistry,
	priceRepository repository.PriceRepository,
	fetch barFetcher,
) error {
	lg := zap.S()
	assets := []domain.Asset{}
	for _, a := range registry.List() {
		if a.Category != domain.AssetCategoryFixedIncome {
			assets = append(assets, a)
		}
	}
	if len(assets) == 0 {
		return fmt.Errorf("no market assets found in registry")
	}

	errors := []error{}
	for _, a := range assets {
		n, err := ingestPrices(a.Ticker, start, end, registry, priceRepository, fetch)
		if err != nil {
			err = fmt.Errorf("failed to ingest historical prices for %s: %w", a.Ticker, err)
			lg.Error(err)
			errors = append(errors, err)
		} else {
			lg.Infof("saved %d prices for %s", n, a.Ticker)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("failed to update %d/%d asset prices. first err: %w", len(errors), len(assets), errors[0])
	}

	return nil
}
