package repository

import (
	"errors"
	"investorly/internal/domain"
	"investorly/internal/util"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, dir, name, contents string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644)
	require.NoError(t, err)
}

func TestPriceRepository_Load(t *testing.T) {
	registry := domain.DefaultAssetRegistry()

	t.Run("etf file is sorted and prefers adjusted close", func(t *testing.T) {
		dir := t.TempDir()
		writeDataset(t, dir, "voo.csv", `Open,High,Low,Close,Adj Close,Volume,Ticker,Date
1,1,1,110,105,100,VOO,2020-01-02
1,1,1,100,95,100,VOO,2020-01-01
`)
		repo := NewPriceRepository(dir, registry)

		series, err := repo.Load("voo")
		require.NoError(t, err)
		require.Equal(t,
			"",
			cmp.Diff(
				domain.PriceSeries{
					Symbol: "VOO",
					Points: []domain.PricePoint{
						domain.NewAdjustedPoint(util.NewDate(2020, 1, 1), 100, 95),
						domain.NewAdjustedPoint(util.NewDate(2020, 1, 2), 110, 105),
					},
				},
				*series,
			),
		)
	})

	t.Run("legacy etf file name", func(t *testing.T) {
		dir := t.TempDir()
		writeDataset(t, dir, "df_spy.csv", "Date,Close,Adj Close\n2020-01-01,10,9\n")
		repo := NewPriceRepository(dir, registry)

		series, err := repo.Load("SPY")
		require.NoError(t, err)
		require.Equal(t, 1, series.Len())
	})

	t.Run("crypto and fixed income file names", func(t *testing.T) {
		dir := t.TempDir()
		writeDataset(t, dir, "crypto_btc.csv", "Date,Close,Adj Close\n2021-05-01 00:00:00+00:00,50000,50000\n")
		writeDataset(t, dir, "df_hy_savings.csv", "Date,Close\n2021-05-01,10000\n2021-05-02,10000.92\n")
		repo := NewPriceRepository(dir, registry)

		btc, err := repo.Load("BTC")
		require.NoError(t, err)
		require.Equal(t, util.NewDate(2021, 5, 1), btc.Points[0].Date)

		savings, err := repo.Load("HY_SAVINGS")
		require.NoError(t, err)
		require.Nil(t, savings.Points[0].AdjClose)
		column, err := savings.ReferenceColumn()
		require.NoError(t, err)
		require.Equal(t, domain.PriceColumnClose, column)
	})

	t.Run("missing dataset is not found", func(t *testing.T) {
		repo := NewPriceRepository(t.TempDir(), registry)
		_, err := repo.Load("QQQ")
		var notFound domain.NotFoundError
		require.True(t, errors.As(err, &notFound))
		require.Equal(t, "QQQ", notFound.Symbol)
	})

	t.Run("duplicate date is a data error", func(t *testing.T) {
		dir := t.TempDir()
		writeDataset(t, dir, "qqq.csv", "Date,Close\n2020-01-01,1\n2020-01-01,2\n")
		repo := NewPriceRepository(dir, registry)
		_, err := repo.Load("QQQ")
		var dataErr domain.DataError
		require.True(t, errors.As(err, &dataErr))
	})

	t.Run("empty file is a data error", func(t *testing.T) {
		dir := t.TempDir()
		writeDataset(t, dir, "qqq.csv", "")
		repo := NewPriceRepository(dir, registry)
		_, err := repo.Load("QQQ")
		var dataErr domain.DataError
		require.True(t, errors.As(err, &dataErr))
	})

	t.Run("cached copies are independent", func(t *testing.T) {
		dir := t.TempDir()
		writeDataset(t, dir, "qqq.csv", "Date,Close\n2020-01-01,1\n2020-01-02,2\n")
		repo := NewPriceRepository(dir, registry)

		first, err := repo.Load("QQQ")
		require.NoError(t, err)
		first.Points[0] = domain.NewClosePoint(util.NewDate(1999, 1, 1), 0)

		second, err := repo.Load("QQQ")
		require.NoError(t, err)
		require.Equal(t, util.NewDate(2020, 1, 1), second.Points[0].Date)
	})
}

func TestPriceRepository_Save(t *testing.T) {
	registry := domain.DefaultAssetRegistry()

	t.Run("close only rows round trip", func(t *testing.T) {
		dir := t.TempDir()
		repo := NewPriceRepository(dir, registry)

		err := repo.Save("CD", []PriceCsvRow{
			{Date: "2020-01-01", Close: util.FloatPtr(10000)},
			{Date: "2020-01-02", Close: util.FloatPtr(10000.5)},
		})
		require.NoError(t, err)
		require.Equal(t, filepath.Join(dir, "df_cd.csv"), repo.Path("CD"))

		contents, err := os.ReadFile(filepath.Join(dir, "df_cd.csv"))
		require.NoError(t, err)
		require.Equal(t, "Date,Close\n2020-01-01,10000\n2020-01-02,10000.5\n", string(contents))

		series, err := repo.Load("CD")
		require.NoError(t, err)
		require.Equal(t, 2, series.Len())
	})

	t.Run("save replaces cached series", func(t *testing.T) {
		dir := t.TempDir()
		writeDataset(t, dir, "voo.csv", "Date,Close\n2020-01-01,1\n")
		repo := NewPriceRepository(dir, registry)

		series, err := repo.Load("VOO")
		require.NoError(t, err)
		require.Equal(t, 1, series.Len())

		err = repo.Save("VOO", []PriceCsvRow{
			{Date: "2020-01-01", Close: util.FloatPtr(1), AdjClose: util.FloatPtr(1), Ticker: "VOO"},
			{Date: "2020-01-02", Close: util.FloatPtr(2), AdjClose: util.FloatPtr(2), Ticker: "VOO"},
		})
		require.NoError(t, err)

		series, err = repo.Load("VOO")
		require.NoError(t, err)
		require.Equal(t, 2, series.Len())
	})
}
