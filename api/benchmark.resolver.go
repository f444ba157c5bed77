package api

import (
	"fmt"
	"investorly/internal"
	"investorly/internal/domain"
	"investorly/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type benchmarkResponse map[string]float64

type benchmarkRequest struct {
	Symbol      string `json:"symbol"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Granularity string `json:"granularity"`
}

func (h ApiHandler) benchmark(c *gin.Context) {
	var requestBody benchmarkRequest

	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	start, err := util.ParseDate(requestBody.Start)
	if err != nil {
		returnErrorJson(domain.ValidationError{Field: "start", Reason: err.Error()}, c)
		return
	}
	end := util.Today()
	if requestBody.End != "" {
		end, err = util.ParseDate(requestBody.End)
		if err != nil {
			returnErrorJson(domain.ValidationError{Field: "end", Reason: err.Error()}, c)
			return
		}
	}

	results, err := h.BenchmarkHandler.GetIntraPeriodChange(
		requestBody.Symbol,
		start,
		end,
		internal.Granularity(requestBody.Granularity),
	)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := benchmarkResponse{}
	for k, v := range results {
		out[k.Format(time.DateOnly)] = v
	}

	c.JSON(200, out)
}
