package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"investorly/internal"
	"investorly/internal/domain"
	mock_repository "investorly/internal/repository/mocks"
	"investorly/internal/service"
	"investorly/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func closeSeries(symbol string, start time.Time, prices ...float64) *domain.PriceSeries {
	out := &domain.PriceSeries{Symbol: symbol}
	for i, p := range prices {
		out.Points = append(out.Points, domain.NewClosePoint(start.AddDate(0, 0, i), p))
	}
	return out
}

type testDeps struct {
	priceRepository *mock_repository.MockPriceRepository
	llmRepository   *mock_repository.MockLlmRepository
	handler         ApiHandler
}

func newTestHandler(t *testing.T) testDeps {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	priceRepository := mock_repository.NewMockPriceRepository(ctrl)
	llmRepository := mock_repository.NewMockLlmRepository(ctrl)
	registry := domain.DefaultAssetRegistry()

	return testDeps{
		priceRepository: priceRepository,
		llmRepository:   llmRepository,
		handler: ApiHandler{
			SimulationService: service.NewSimulationService(priceRepository, registry),
			ChatService:       service.NewChatService(llmRepository, nil),
			BenchmarkHandler:  internal.BenchmarkHandler{PriceRepository: priceRepository},
			AssetRegistry:     registry,
			CapitalGainsRate:  0.15,
		},
	}
}

func doRequest(t *testing.T, h ApiHandler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.InitializeRouterEngine().ServeHTTP(w, req)
	return w
}

func TestSimulate(t *testing.T) {
	t.Run("happy path with cash", func(t *testing.T) {
		deps := newTestHandler(t)
		deps.priceRepository.EXPECT().Load("VOO").Return(closeSeries("VOO", util.NewDate(2020, 1, 1), 100, 110), nil)
		deps.priceRepository.EXPECT().Load("BTC").Return(closeSeries("BTC", util.NewDate(2020, 1, 1), 100, 150), nil)

		w := doRequest(t, deps.handler, http.MethodPost, "/api/v1/simulate", map[string]any{
			"investmentAmount": 10000,
			"investmentDate":   "2020-01-01",
			"allocations":      map[string]float64{"VOO": 60, "BTC": 20},
		})
		require.Equal(t, 200, w.Code, w.Body.String())

		var out struct {
			Result struct {
				TotalCurrent float64 `json:"totalCurrent"`
				Breakdown    map[string]struct {
					Current float64 `json:"current"`
					Series  any     `json:"series"`
				} `json:"breakdown"`
			} `json:"result"`
			Summary struct {
				TotalCurrent string `json:"totalCurrent"`
				CashValue    string `json:"cashValue"`
				AfterTax     string `json:"afterTaxValue"`
			} `json:"summary"`
			RiskLevel int      `json:"riskLevel"`
			Errors    []string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

		require.InDelta(t, 9600, out.Result.TotalCurrent, 1e-9)
		require.Nil(t, out.Result.Breakdown["VOO"].Series)
		require.Equal(t, "11600", out.Summary.TotalCurrent)
		require.Equal(t, "2000", out.Summary.CashValue)
		require.Equal(t, "11360", out.Summary.AfterTax)
		require.Equal(t, 3, out.RiskLevel)
		require.Empty(t, out.Errors)
	})

	t.Run("over-allocated is a bad request", func(t *testing.T) {
		deps := newTestHandler(t)
		w := doRequest(t, deps.handler, http.MethodPost, "/api/v1/simulate", map[string]any{
			"investmentAmount": 10000,
			"investmentDate":   "2020-01-01",
			"allocations":      map[string]float64{"VOO": 80, "BTC": 40},
		})
		require.Equal(t, 400, w.Code)
	})

	t.Run("rescale accepts over-allocated", func(t *testing.T) {
		deps := newTestHandler(t)
		deps.priceRepository.EXPECT().Load("VOO").Return(closeSeries("VOO", util.NewDate(2020, 1, 1), 100, 100), nil)
		deps.priceRepository.EXPECT().Load("BTC").Return(closeSeries("BTC", util.NewDate(2020, 1, 1), 100, 100), nil)

		w := doRequest(t, deps.handler, http.MethodPost, "/api/v1/simulate", map[string]any{
			"investmentAmount": 1200,
			"investmentDate":   "2020-01-01",
			"allocations":      map[string]float64{"VOO": 80, "BTC": 40},
			"rescale":          true,
		})
		require.Equal(t, 200, w.Code, w.Body.String())
	})

	t.Run("bad date", func(t *testing.T) {
		deps := newTestHandler(t)
		w := doRequest(t, deps.handler, http.MethodPost, "/api/v1/simulate", map[string]any{
			"investmentAmount": 10000,
			"investmentDate":   "01/01/2020",
			"allocations":      map[string]float64{"VOO": 100},
		})
		require.Equal(t, 400, w.Code)
	})

	t.Run("missing data is reported, not fatal", func(t *testing.T) {
		deps := newTestHandler(t)
		deps.priceRepository.EXPECT().Load("VOO").Return(nil, domain.NotFoundError{Symbol: "VOO"})

		w := doRequest(t, deps.handler, http.MethodPost, "/api/v1/simulate", map[string]any{
			"investmentAmount": 100,
			"investmentDate":   "2020-01-01",
			"allocations":      map[string]float64{"VOO": 100},
		})
		require.Equal(t, 200, w.Code)

		var out struct {
			Result *domain.PortfolioResult `json:"result"`
			Errors []string                `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Nil(t, out.Result)
		require.Equal(t, "", cmp.Diff([]string{"could not load data for VOO: no data found for VOO"}, out.Errors))
	})
}

func TestLlm(t *testing.T) {
	t.Run("model answer", func(t *testing.T) {
		deps := newTestHandler(t)
		deps.llmRepository.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("ETFs hold baskets of stocks.", nil)

		w := doRequest(t, deps.handler, http.MethodPost, "/api/v1/llm", map[string]any{
			"messages": []map[string]string{{"role": "user", "content": "what is an etf?"}},
		})
		require.Equal(t, 200, w.Code)
		require.JSONEq(t, `{"response":"ETFs hold baskets of stocks.","fallback":false}`, w.Body.String())
	})

	t.Run("provider failure falls back", func(t *testing.T) {
		deps := newTestHandler(t)
		deps.llmRepository.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("503"))
		deps.llmRepository.EXPECT().Provider().Return("groq").AnyTimes()

		w := doRequest(t, deps.handler, http.MethodPost, "/api/v1/llm", map[string]any{
			"messages": []map[string]string{{"role": "user", "content": "is bitcoin risky?"}},
		})
		require.Equal(t, 200, w.Code)

		var out service.ChatResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.True(t, out.Fallback)
		require.Equal(t, service.FallbackResponse("is bitcoin risky?"), out.Response)
	})

	t.Run("empty conversation", func(t *testing.T) {
		deps := newTestHandler(t)
		w := doRequest(t, deps.handler, http.MethodPost, "/api/v1/llm", map[string]any{
			"messages": []map[string]string{},
		})
		require.Equal(t, 400, w.Code)
	})

	t.Run("bad session id", func(t *testing.T) {
		deps := newTestHandler(t)
		w := doRequest(t, deps.handler, http.MethodPost, "/api/v1/llm", map[string]any{
			"messages":  []map[string]string{{"role": "user", "content": "hi"}},
			"sessionId": "nope",
		})
		require.Equal(t, 400, w.Code)
	})
}

func TestBenchmark(t *testing.T) {
	deps := newTestHandler(t)
	deps.priceRepository.EXPECT().Load("VOO").Return(closeSeries("VOO", util.NewDate(2020, 1, 1), 100, 110, 121), nil)

	w := doRequest(t, deps.handler, http.MethodPost, "/api/v1/benchmark", map[string]any{
		"symbol":      "VOO",
		"start":       "2020-01-01",
		"end":         "2020-01-03",
		"granularity": "daily",
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	out := benchmarkResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 3)
	require.InDelta(t, 21, out["2020-01-03"], 1e-9)
}

func TestAssetsAndAllocation(t *testing.T) {
	deps := newTestHandler(t)

	w := doRequest(t, deps.handler, http.MethodGet, "/api/v1/assets?category=fixed_income", nil)
	require.Equal(t, 200, w.Code, w.Body.String())
	assets := []getAssetsResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &assets))
	require.Len(t, assets, 2)
	require.Equal(t, "CD", assets[0].Ticker)

	w = doRequest(t, deps.handler, http.MethodGet, "/api/v1/assets?category=bonds", nil)
	require.Equal(t, 400, w.Code)

	w = doRequest(t, deps.handler, http.MethodPost, "/api/v1/allocation/suggest", map[string]any{"riskLevel": 11})
	require.Equal(t, 400, w.Code)

	w = doRequest(t, deps.handler, http.MethodPost, "/api/v1/allocation/risk", map[string]any{
		"allocations": map[string]float64{"VOO": 50, "ETH": 50},
	})
	require.Equal(t, 200, w.Code)
	require.JSONEq(t, `{"riskLevel":5,"allocatedPct":100,"cashPct":0}`, w.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	deps := newTestHandler(t)
	deps.handler.JwtDecodeToken = "secret"

	w := doRequest(t, deps.handler, http.MethodGet, "/health", nil)
	require.Equal(t, 200, w.Code)

	w = doRequest(t, deps.handler, http.MethodGet, "/health", nil, "Authorization", "Bearer junk")
	require.Equal(t, 401, w.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	w = doRequest(t, deps.handler, http.MethodGet, "/health", nil, "Authorization", "Bearer "+token)
	require.Equal(t, 200, w.Code)
}
