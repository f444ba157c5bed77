package api

import (
	"fmt"
	"investorly/internal/domain"
	"investorly/internal/service"

	"github.com/gin-gonic/gin"
)

type suggestAllocationRequest struct {
	RiskLevel int `json:"riskLevel"`
}

func (m ApiHandler) suggestAllocation(c *gin.Context) {
	var requestBody suggestAllocationRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	out, err := service.SuggestAllocation(requestBody.RiskLevel)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, out)
}

type allocationRiskRequest struct {
	Allocations map[string]float64 `json:"allocations"`
}

type allocationRiskResponse struct {
	RiskLevel    int     `json:"riskLevel"`
	AllocatedPct float64 `json:"allocatedPct"`
	CashPct      float64 `json:"cashPct"`
}

func (m ApiHandler) allocationRisk(c *gin.Context) {
	var requestBody allocationRiskRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	allocations := domain.AllocationSet(requestBody.Allocations)
	if err := service.ValidateAllocations(allocations); err != nil {
		returnErrorJson(err, c)
		return
	}

	positive := allocations.Positive()
	c.JSON(200, allocationRiskResponse{
		RiskLevel:    service.RiskFromAllocation(positive, m.AssetRegistry),
		AllocatedPct: positive.AllocatedPct(),
		CashPct:      positive.UnallocatedPct(),
	})
}
