package domain

import (
	"fmt"
	"sort"
	"strings"
)

type AssetCategory string

const (
	AssetCategoryEquityETF      AssetCategory = "equity_etf"
	AssetCategoryCryptocurrency AssetCategory = "cryptocurrency"
	AssetCategoryFixedIncome    AssetCategory = "fixed_income"
	AssetCategoryMarketIndex    AssetCategory = "market_index"
)

func (c AssetCategory) Valid() bool {
	switch c {
	case AssetCategoryEquityETF, AssetCategoryCryptocurrency, AssetCategoryFixedIncome, AssetCategoryMarketIndex:
		return true
	}
	return false
}

func (c AssetCategory) DisplayName() string {
	switch c {
	case AssetCategoryEquityETF:
		return "Stock"
	case AssetCategoryCryptocurrency:
		return "Cryptocurrency"
	case AssetCategoryFixedIncome:
		return "Fixed Income"
	case AssetCategoryMarketIndex:
		return "Index"
	}
	return string(c)
}

// Asset describes something the dashboard can allocate to.
type Asset struct {
	Ticker   string        `json:"ticker"`
	Name     string        `json:"name"`
	Icon     string        `json:"icon"`
	Category AssetCategory `json:"category"`
	// DataSymbol is the symbol used by the price fetcher, e.g. BTC-USD
	// for BTC. Empty for synthetic assets.
	DataSymbol string `json:"dataSymbol,omitempty"`
	// APY is only set for fixed-income products, as a fraction.
	APY *float64 `json:"apy,omitempty"`
}

const defaultIcon = "📊"

// AssetRegistry is built once at startup and only read afterwards.
type AssetRegistry struct {
	assets map[string]Asset
}

func NewAssetRegistry(assets ...Asset) (*AssetRegistry, error) {
	r := &AssetRegistry{
		assets: map[string]Asset{},
	}
	for _, a := range assets {
		ticker := NormalizeTicker(a.Ticker)
		if ticker == "" {
			return nil, fmt.Errorf("asset is missing a ticker")
		}
		if !a.Category.Valid() {
			return nil, fmt.Errorf("asset %s has unknown category %q", ticker, a.Category)
		}
		if _, ok := r.assets[ticker]; ok {
			return nil, fmt.Errorf("asset %s registered twice", ticker)
		}
		a.Ticker = ticker
		if a.Icon == "" {
			a.Icon = defaultIcon
		}
		r.assets[ticker] = a
	}
	return r, nil
}

func floatPtr(f float64) *float64 {
	return &f
}

func DefaultAssetRegistry() *AssetRegistry {
	r, err := NewAssetRegistry(
		Asset{Ticker: "VOO", Name: "Vanguard S&P 500 ETF", Icon: "🇺🇸", Category: AssetCategoryEquityETF, DataSymbol: "VOO"},
		Asset{Ticker: "SPY", Name: "SPDR S&P 500 ETF Trust", Icon: "🇺🇸", Category: AssetCategoryEquityETF, DataSymbol: "SPY"},
		Asset{Ticker: "QQQ", Name: "Invesco QQQ Trust", Icon: "💻", Category: AssetCategoryEquityETF, DataSymbol: "QQQ"},
		Asset{Ticker: "BTC", Name: "Bitcoin", Icon: "₿", Category: AssetCategoryCryptocurrency, DataSymbol: "BTC-USD"},
		Asset{Ticker: "ETH", Name: "Ethereum", Icon: "Ξ", Category: AssetCategoryCryptocurrency, DataSymbol: "ETH-USD"},
		Asset{Ticker: "SOL", Name: "Solana", Icon: "◎", Category: AssetCategoryCryptocurrency, DataSymbol: "SOL-USD"},
		Asset{Ticker: "HY_SAVINGS", Name: "High-Yield Savings Account", Icon: "🏦", Category: AssetCategoryFixedIncome, APY: floatPtr(0.034)},
		Asset{Ticker: "CD", Name: "Certificate of Deposit", Icon: "🔒", Category: AssetCategoryFixedIncome, APY: floatPtr(0.035)},
		Asset{Ticker: "GSPC", Name: "S&P 500 Index", Icon: "📈", Category: AssetCategoryMarketIndex, DataSymbol: "^GSPC"},
	)
	if err != nil {
		// static list, only fails if someone breaks it
		panic(err)
	}
	return r
}

func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func (r *AssetRegistry) Get(ticker string) (Asset, bool) {
	a, ok := r.assets[NormalizeTicker(ticker)]
	return a, ok
}

// Describe returns display metadata for any ticker, falling back to a
// generic equity descriptor for tickers the registry doesn't know.
func (r *AssetRegistry) Describe(ticker string) Asset {
	if a, ok := r.Get(ticker); ok {
		return a
	}
	t := NormalizeTicker(ticker)
	return Asset{
		Ticker:     t,
		Name:       t,
		Icon:       defaultIcon,
		Category:   AssetCategoryEquityETF,
		DataSymbol: t,
	}
}

func (r *AssetRegistry) CategoryOf(ticker string) AssetCategory {
	return r.Describe(ticker).Category
}

// List returns assets sorted by ticker.
func (r *AssetRegistry) List() []Asset {
	out := make([]Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Ticker < out[j].Ticker
	})
	return out
}

func (r *AssetRegistry) ListByCategory(category AssetCategory) []Asset {
	out := []Asset{}
	for _, a := range r.List() {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}
