package service

import (
	"investorly/internal/domain"
	"sort"

	"github.com/shopspring/decimal"
)

const CashTicker = "CASH"

// DashboardLine is one row of the allocation table, including the
// synthetic cash line.
type DashboardLine struct {
	Ticker      string          `json:"ticker"`
	Name        string          `json:"name"`
	Icon        string          `json:"icon"`
	Category    string          `json:"category"`
	Initial     decimal.Decimal `json:"initial"`
	Current     decimal.Decimal `json:"current"`
	GainLoss    decimal.Decimal `json:"gainLoss"`
	GainLossPct decimal.Decimal `json:"gainLossPct"`
	Volatility  float64         `json:"volatility"`
}

// DashboardSummary is the caller-level view of a simulation: idle cash
// is added back at zero return and an after-tax value is estimated.
type DashboardSummary struct {
	TotalInitial     decimal.Decimal `json:"totalInitial"`
	TotalCurrent     decimal.Decimal `json:"totalCurrent"`
	TotalGainLoss    decimal.Decimal `json:"totalGainLoss"`
	TotalGainLossPct decimal.Decimal `json:"totalGainLossPct"`
	CashPct          decimal.Decimal `json:"cashPct"`
	CashValue        decimal.Decimal `json:"cashValue"`
	TaxRate          decimal.Decimal `json:"taxRate"`
	EstimatedTax     decimal.Decimal `json:"estimatedTax"`
	AfterTaxValue    decimal.Decimal `json:"afterTaxValue"`
	Lines            []DashboardLine `json:"lines"`
}

var hundred = decimal.NewFromInt(100)

// ComposeDashboard blends the simulated assets with idle cash. Cash is
// the unallocated share plus the principal of any allocated asset that
// is missing from the result. Gains are taxed at a flat rate; losses
// are not. Money values are rounded to cents.
func ComposeDashboard(
	result *domain.PortfolioResult,
	allocations domain.AllocationSet,
	investmentAmount float64,
	taxRate float64,
) DashboardSummary {
	amount := decimal.NewFromFloat(investmentAmount)
	rate := decimal.NewFromFloat(taxRate)

	positive := allocations.Positive()
	cashPct := decimal.NewFromFloat(positive.UnallocatedPct())

	lines := []DashboardLine{}
	current := decimal.Zero
	if result != nil {
		for _, b := range result.SortedBreakdown() {
			initial := decimal.NewFromFloat(b.Initial)
			value := decimal.NewFromFloat(b.Current)
			current = current.Add(value)
			lines = append(lines, DashboardLine{
				Ticker:      b.Ticker,
				Name:        b.Info.Name,
				Icon:        b.Info.Icon,
				Category:    b.Info.Category.DisplayName(),
				Initial:     initial.Round(2),
				Current:     value.Round(2),
				GainLoss:    value.Sub(initial).Round(2),
				GainLossPct: decimal.NewFromFloat(b.GainLossPct).Round(2),
				Volatility:  b.Volatility,
			})
		}
	}

	for _, ticker := range positive.SortedTickers() {
		if result != nil {
			if _, ok := result.Breakdown[ticker]; ok {
				continue
			}
		}
		cashPct = cashPct.Add(decimal.NewFromFloat(positive[ticker]))
	}

	cashValue := cashPct.Div(hundred).Mul(amount)
	if cashValue.IsPositive() {
		lines = append(lines, DashboardLine{
			Ticker:      CashTicker,
			Name:        "Cash",
			Icon:        "💵",
			Category:    "Cash",
			Initial:     cashValue.Round(2),
			Current:     cashValue.Round(2),
			GainLoss:    decimal.Zero,
			GainLossPct: decimal.Zero,
		})
	}

	totalCurrent := current.Add(cashValue)
	totalGainLoss := totalCurrent.Sub(amount)
	totalGainLossPct := decimal.Zero
	if amount.IsPositive() {
		totalGainLossPct = totalGainLoss.Div(amount).Mul(hundred)
	}

	tax := decimal.Zero
	if totalGainLoss.IsPositive() {
		tax = totalGainLoss.Mul(rate)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Current.GreaterThan(lines[j].Current)
	})

	return DashboardSummary{
		TotalInitial:     amount.Round(2),
		TotalCurrent:     totalCurrent.Round(2),
		TotalGainLoss:    totalGainLoss.Round(2),
		TotalGainLossPct: totalGainLossPct.Round(2),
		CashPct:          cashPct.Round(2),
		CashValue:        cashValue.Round(2),
		TaxRate:          rate,
		EstimatedTax:     tax.Round(2),
		AfterTaxValue:    totalCurrent.Sub(tax).Round(2),
		Lines:            lines,
	}
}
