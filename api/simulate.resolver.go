package api

import (
	"fmt"
	"investorly/internal/domain"
	"investorly/internal/service"
	"investorly/internal/util"

	"github.com/gin-gonic/gin"
)

type simulateRequest struct {
	InvestmentAmount float64            `json:"investmentAmount"`
	InvestmentDate   string             `json:"investmentDate"`
	EndDate          *string            `json:"endDate"`
	Allocations      map[string]float64 `json:"allocations"`
	// Rescale proportionally shrinks allocations over 100% instead of
	// rejecting them
	Rescale       bool `json:"rescale"`
	IncludeSeries bool `json:"includeSeries"`
}

type simulateResponse struct {
	Result    *domain.PortfolioResult  `json:"result"`
	Summary   service.DashboardSummary `json:"summary"`
	RiskLevel int                      `json:"riskLevel"`
	Context   domain.ChatContext       `json:"context"`
	Errors    []string                 `json:"errors"`
}

func (r simulateRequest) toInput() (*service.SimulatePortfolioInput, error) {
	investmentDate, err := util.ParseDate(r.InvestmentDate)
	if err != nil {
		return nil, domain.ValidationError{Field: "investmentDate", Reason: err.Error()}
	}
	in := &service.SimulatePortfolioInput{
		InvestmentAmount: r.InvestmentAmount,
		InvestmentDate:   investmentDate,
		Allocations:      domain.AllocationSet(r.Allocations),
	}
	if r.EndDate != nil && *r.EndDate != "" {
		end, err := util.ParseDate(*r.EndDate)
		if err != nil {
			return nil, domain.ValidationError{Field: "endDate", Reason: err.Error()}
		}
		in.EndDate = &end
	}
	if r.Rescale {
		in.Allocations = service.NormalizeAllocations(in.Allocations)
	}
	return in, nil
}

func (m ApiHandler) simulate(c *gin.Context) {
	var requestBody simulateRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	in, err := requestBody.toInput()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	result, errs, err := m.SimulationService.SimulatePortfolio(*in)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	if result != nil && !requestBody.IncludeSeries {
		for ticker, b := range result.Breakdown {
			b.Series = nil
			result.Breakdown[ticker] = b
		}
	}

	summary := service.ComposeDashboard(result, in.Allocations, in.InvestmentAmount, m.CapitalGainsRate)
	riskLevel := service.RiskFromAllocation(in.Allocations, m.AssetRegistry)

	c.JSON(200, simulateResponse{
		Result:    result,
		Summary:   summary,
		RiskLevel: riskLevel,
		Context:   service.NewChatContext(*in, result, summary, errs, &riskLevel),
		Errors:    errs,
	})
}

func (m ApiHandler) chart(c *gin.Context) {
	var requestBody simulateRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	in, err := requestBody.toInput()
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	result, errs, err := m.SimulationService.SimulatePortfolio(*in)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	if result == nil {
		returnErrorJsonCode(fmt.Errorf("no assets could be simulated: %v", errs), c, 404)
		return
	}

	summary := service.ComposeDashboard(result, in.Allocations, in.InvestmentAmount, m.CapitalGainsRate)
	png, err := service.RenderPortfolioChart(result, summary.CashValue.InexactFloat64())
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.Data(200, "image/png", png)
}
