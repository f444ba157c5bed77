package api

import (
	"investorly/internal"
	"investorly/internal/domain"
	"investorly/internal/util"

	"github.com/gin-gonic/gin"
)

type updatePricesRequest struct {
	Since string `json:"since"`
}

const defaultPriceHistoryStart = "2015-01-01"

// updatePrices refreshes market datasets from the price provider and
// regenerates the fixed income series up to today.
func (m ApiHandler) updatePrices(c *gin.Context) {
	var requestBody updatePricesRequest
	// empty body is fine
	_ = c.ShouldBindJSON(&requestBody)
	if requestBody.Since == "" {
		requestBody.Since = defaultPriceHistoryStart
	}

	since, err := util.ParseDate(requestBody.Since)
	if err != nil {
		returnErrorJson(domain.ValidationError{Field: "since", Reason: err.Error()}, c)
		return
	}

	err = internal.UpdateRegistryPrices(since, m.AssetRegistry, m.PriceRepository)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	generated, err := internal.GenerateFixedIncomeDatasets(since, util.Today(), m.AssetRegistry, m.PriceRepository)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := map[string]any{
		"message":   "ok",
		"generated": generated,
	}

	c.JSON(200, out)
}
