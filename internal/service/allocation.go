package service

import (
	"fmt"
	"investorly/internal/domain"
	"math"
	"sort"
)

// ValidateAllocations rejects non-finite entries and positive entries
// that add up to more than 100%. Anything under 100 is idle cash.
func ValidateAllocations(allocations domain.AllocationSet) error {
	tickers := allocations.SortedTickers()
	for _, ticker := range tickers {
		pct := allocations[ticker]
		if math.IsNaN(pct) || math.IsInf(pct, 0) {
			return domain.ValidationError{
				Field:  "allocations",
				Reason: fmt.Sprintf("%s has an invalid percentage", ticker),
			}
		}
		if domain.NormalizeTicker(ticker) == "" && pct > 0 {
			return domain.ValidationError{
				Field:  "allocations",
				Reason: "empty ticker",
			}
		}
	}
	total := allocations.AllocatedPct()
	// allow for float noise from ui sliders
	if total > 100+1e-9 {
		return domain.ValidationError{
			Field:  "allocations",
			Reason: fmt.Sprintf("total allocation is %.2f%%, must not exceed 100%%", total),
		}
	}
	return nil
}

// NormalizeAllocations rescales the positive entries so they add up to
// exactly 100. Sets already at or below 100 are returned unchanged. This
// is the opt-in alternative to rejecting oversized allocations.
func NormalizeAllocations(allocations domain.AllocationSet) domain.AllocationSet {
	positive := allocations.Positive()
	total := positive.AllocatedPct()
	if total <= 100 {
		return positive
	}
	out := domain.AllocationSet{}
	for ticker, pct := range positive {
		out[ticker] = pct / total * 100
	}
	return out
}

// RiskFromAllocation maps the crypto share of the allocated amount to
// a 1-10 risk level. No allocation is treated as moderate.
func RiskFromAllocation(allocations domain.AllocationSet, registry *domain.AssetRegistry) int {
	positive := allocations.Positive()
	total := positive.AllocatedPct()
	if total == 0 {
		return 5
	}

	crypto := 0.0
	for ticker, pct := range positive {
		if registry.CategoryOf(ticker) == domain.AssetCategoryCryptocurrency {
			crypto += pct
		}
	}
	ratio := crypto / total

	// <=10% crypto is 1, each further 10% adds a level
	for level := 1; level < 10; level++ {
		if ratio <= float64(level)/10 {
			return level
		}
	}
	return 10
}

type SuggestedAllocation struct {
	RiskLevel   int                  `json:"riskLevel"`
	Allocations domain.AllocationSet `json:"allocations"`
	CashPct     float64              `json:"cashPct"`
}

type riskBucket struct {
	maxLevel int
	equity   float64
	crypto   float64
	cash     float64
}

var riskBuckets = []riskBucket{
	{maxLevel: 2, equity: 70, crypto: 10, cash: 20},
	{maxLevel: 3, equity: 60, crypto: 20, cash: 20},
	{maxLevel: 4, equity: 50, crypto: 30, cash: 20},
	{maxLevel: 5, equity: 50, crypto: 40, cash: 10},
	{maxLevel: 6, equity: 40, crypto: 50, cash: 10},
	{maxLevel: 7, equity: 30, crypto: 60, cash: 10},
	{maxLevel: 8, equity: 20, crypto: 70, cash: 10},
	{maxLevel: 10, equity: 10, crypto: 80, cash: 10},
}

const (
	suggestedEquity = "VOO"
	suggestedCrypto = "BTC"
)

// SuggestAllocation returns an equity/crypto/cash split for a 1-10 risk
// level. Aggressive profiles keep at least 10% in cash.
func SuggestAllocation(riskLevel int) (*SuggestedAllocation, error) {
	if riskLevel < 1 || riskLevel > 10 {
		return nil, domain.ValidationError{
			Field:  "riskLevel",
			Reason: "must be between 1 and 10",
		}
	}
	idx := sort.Search(len(riskBuckets), func(i int) bool {
		return riskBuckets[i].maxLevel >= riskLevel
	})
	b := riskBuckets[idx]

	return &SuggestedAllocation{
		RiskLevel: riskLevel,
		Allocations: domain.AllocationSet{
			suggestedEquity: b.equity,
			suggestedCrypto: b.crypto,
		},
		CashPct: b.cash,
	}, nil
}
