package api

import (
	"investorly/internal/domain"

	"github.com/gin-gonic/gin"
)

type getAssetsResponse struct {
	Ticker   string               `json:"ticker"`
	Name     string               `json:"name"`
	Icon     string               `json:"icon"`
	Category domain.AssetCategory `json:"category"`
	Display  string               `json:"categoryDisplayName"`
	APY      *float64             `json:"apy,omitempty"`
}

func (m ApiHandler) getAssets(c *gin.Context) {
	category := domain.AssetCategory(c.Query("category"))
	if category != "" && !category.Valid() {
		returnErrorJson(domain.ValidationError{Field: "category", Reason: "unknown category"}, c)
		return
	}

	assets := m.AssetRegistry.List()
	if category != "" {
		assets = m.AssetRegistry.ListByCategory(category)
	}

	out := []getAssetsResponse{}
	for _, a := range assets {
		out = append(out, getAssetsResponse{
			Ticker:   a.Ticker,
			Name:     a.Name,
			Icon:     a.Icon,
			Category: a.Category,
			Display:  a.Category.DisplayName(),
			APY:      a.APY,
		})
	}

	c.JSON(200, out)
}
