package repository

import (
	"errors"
	"fmt"
	"investorly/internal/domain"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
)

// PriceRepository is the dataset store behind every simulation. A
// missing dataset is reported as domain.NotFoundError; unreadable or
// inconsistent files as domain.DataError.
type PriceRepository interface {
	Load(symbol string) (*domain.PriceSeries, error)
	Save(symbol string, rows []PriceCsvRow) error
	Path(symbol string) string
}

// PriceCsvRow is one line of a dataset file. Market data carries the
// full OHLC set; generated fixed-income files only have Date and Close.
type PriceCsvRow struct {
	Date     string   `csv:"Date"`
	Open     *float64 `csv:"Open,omitempty"`
	High     *float64 `csv:"High,omitempty"`
	Low      *float64 `csv:"Low,omitempty"`
	Close    *float64 `csv:"Close,omitempty"`
	AdjClose *float64 `csv:"Adj Close,omitempty"`
	Volume   *float64 `csv:"Volume,omitempty"`
	Ticker   string   `csv:"Ticker,omitempty"`
}

type closeOnlyCsvRow struct {
	Date  string  `csv:"Date"`
	Close float64 `csv:"Close"`
}

type priceRepositoryHandler struct {
	DatasetDir string
	Registry   *domain.AssetRegistry
	Cache      map[string]domain.PriceSeries
	ReadMutex  *sync.RWMutex
}

func NewPriceRepository(datasetDir string, registry *domain.AssetRegistry) PriceRepository {
	return &priceRepositoryHandler{
		DatasetDir: datasetDir,
		Registry:   registry,
		Cache:      map[string]domain.PriceSeries{},
		ReadMutex:  &sync.RWMutex{},
	}
}

func (h priceRepositoryHandler) getFromCache(symbol string) (domain.PriceSeries, bool) {
	h.ReadMutex.RLock()
	defer h.ReadMutex.RUnlock()
	s, ok := h.Cache[symbol]
	return s, ok
}

func (h priceRepositoryHandler) addToCache(series domain.PriceSeries) {
	h.ReadMutex.Lock()
	h.Cache[series.Symbol] = series
	h.ReadMutex.Unlock()
}

func (h priceRepositoryHandler) invalidate(symbol string) {
	h.ReadMutex.Lock()
	delete(h.Cache, symbol)
	h.ReadMutex.Unlock()
}

// candidateFiles lists dataset file names for a ticker, preferred first.
func (h priceRepositoryHandler) candidateFiles(ticker string) []string {
	lower := strings.ToLower(ticker)
	switch h.Registry.CategoryOf(ticker) {
	case domain.AssetCategoryCryptocurrency:
		return []string{fmt.Sprintf("crypto_%s.csv", strings.TrimSuffix(lower, "-usd"))}
	case domain.AssetCategoryMarketIndex:
		return []string{fmt.Sprintf("index_%s.csv", strings.TrimPrefix(lower, "^"))}
	case domain.AssetCategoryFixedIncome:
		return []string{fmt.Sprintf("df_%s.csv", lower)}
	}
	return []string{
		fmt.Sprintf("%s.csv", lower),
		fmt.Sprintf("df_%s.csv", lower),
	}
}

func (h priceRepositoryHandler) Path(symbol string) string {
	ticker := domain.NormalizeTicker(symbol)
	candidates := h.candidateFiles(ticker)
	for _, name := range candidates {
		path := filepath.Join(h.DatasetDir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(h.DatasetDir, candidates[0])
}

func (h priceRepositoryHandler) Load(symbol string) (*domain.PriceSeries, error) {
	ticker := domain.NormalizeTicker(symbol)
	if ticker == "" {
		return nil, domain.NotFoundError{Symbol: symbol, Reason: "empty ticker"}
	}
	if cached, ok := h.getFromCache(ticker); ok {
		return copySeries(cached), nil
	}

	candidates := h.candidateFiles(ticker)
	for _, name := range candidates {
		path := filepath.Join(h.DatasetDir, name)
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}

		series, err := parsePriceCsv(ticker, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		h.addToCache(*series)
		return copySeries(*series), nil
	}

	return nil, domain.NotFoundError{
		Symbol: ticker,
		Reason: fmt.Sprintf("no dataset file in %s (tried %s)", h.DatasetDir, strings.Join(candidates, ", ")),
	}
}

// Save writes rows to the preferred dataset file for the ticker. Rows
// without any OHLC or adjusted values are written as a Date/Close file.
func (h priceRepositoryHandler) Save(symbol string, rows []PriceCsvRow) error {
	ticker := domain.NormalizeTicker(symbol)
	if len(rows) == 0 {
		return fmt.Errorf("no rows to save for %s", ticker)
	}
	if err := os.MkdirAll(h.DatasetDir, 0o755); err != nil {
		return fmt.Errorf("failed to create dataset dir %s: %w", h.DatasetDir, err)
	}

	path := filepath.Join(h.DatasetDir, h.candidateFiles(ticker)[0])
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if isCloseOnly(rows) {
		out := make([]closeOnlyCsvRow, len(rows))
		for i, r := range rows {
			out[i] = closeOnlyCsvRow{Date: r.Date, Close: *r.Close}
		}
		err = gocsv.MarshalFile(&out, f)
	} else {
		err = gocsv.MarshalFile(&rows, f)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	h.invalidate(ticker)
	return nil
}

func isCloseOnly(rows []PriceCsvRow) bool {
	for _, r := range rows {
		if r.Close == nil || r.AdjClose != nil || r.Open != nil || r.High != nil || r.Low != nil || r.Volume != nil {
			return false
		}
	}
	return true
}

var csvDateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
}

func parseCsvDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parsePriceCsv(ticker string, f *os.File) (*domain.PriceSeries, error) {
	rows := []PriceCsvRow{}
	err := gocsv.UnmarshalFile(f, &rows)
	if errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return nil, domain.DataError{Symbol: ticker, Reason: "dataset file is empty"}
	}
	if err != nil {
		return nil, domain.DataError{Symbol: ticker, Reason: fmt.Sprintf("failed to parse %s: %v", f.Name(), err)}
	}

	series := domain.PriceSeries{
		Symbol: ticker,
		Points: make([]domain.PricePoint, 0, len(rows)),
	}
	for _, r := range rows {
		date, err := parseCsvDate(r.Date)
		if err != nil {
			return nil, domain.DataError{Symbol: ticker, Reason: err.Error()}
		}
		series.Points = append(series.Points, domain.PricePoint{
			Date:     date,
			Close:    r.Close,
			AdjClose: r.AdjClose,
		})
	}

	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Date.Before(series.Points[j].Date)
	})
	for i := 1; i < len(series.Points); i++ {
		if series.Points[i].Date.Equal(series.Points[i-1].Date) {
			return nil, domain.DataError{
				Symbol: ticker,
				Reason: "duplicate date " + series.Points[i].Date.Format(time.DateOnly),
			}
		}
	}

	return &series, nil
}

func copySeries(s domain.PriceSeries) *domain.PriceSeries {
	points := make([]domain.PricePoint, len(s.Points))
	copy(points, s.Points)
	return &domain.PriceSeries{
		Symbol: s.Symbol,
		Points: points,
	}
}
