package api

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"investorly/internal"
	"investorly/internal/domain"
	"investorly/internal/logger"
	"investorly/internal/repository"
	"investorly/internal/service"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApiHandler struct {
	Db                   *sql.DB
	SimulationService    service.SimulationService
	ChatService          service.ChatService
	BenchmarkHandler     internal.BenchmarkHandler
	AssetRegistry        *domain.AssetRegistry
	PriceRepository      repository.PriceRepository
	ApiRequestRepository repository.ApiRequestRepository
	CapitalGainsRate     float64
	Port                 int
	// empty disables token parsing; requests are then anonymous
	JwtDecodeToken string
}

func int64Ptr(i int64) *int64 {
	return &i
}
func int32Ptr(i int32) *int32 {
	return &i
}
func strPtr(s string) *string {
	return &s
}

const userIDKey = "userID"

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.authMiddleware)
	router.Use(m.logRequestMiddlware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to investorly"})
	})
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.GET("/assets", m.getAssets)
	v1.POST("/simulate", m.simulate)
	v1.POST("/chart", m.chart)
	v1.POST("/llm", m.llm)
	v1.POST("/benchmark", m.benchmark)
	v1.POST("/allocation/suggest", m.suggestAllocation)
	v1.POST("/allocation/risk", m.allocationRisk)
	v1.POST("/prices/update", m.updatePrices)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	router := m.InitializeRouterEngine()
	return router.Run(fmt.Sprintf(":%d", port))
}

// statusForError maps domain errors onto http codes
func statusForError(err error) int {
	var validationErr domain.ValidationError
	var notFoundErr domain.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, statusForError(err))
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	lg := logger.FromContext(c)
	if code >= 500 {
		lg.Error(err.Error())
	} else {
		lg.Info(err.Error())
	}
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// authMiddleware resolves the caller from a bearer token when one is
// sent. Invalid tokens are rejected, missing ones are not.
func (m ApiHandler) authMiddleware(c *gin.Context) {
	if m.JwtDecodeToken == "" {
		return
	}
	header := c.GetHeader("Authorization")
	if header == "" {
		return
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	token, err := parseAuthToken(tokenStr, m.JwtDecodeToken)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
		return
	}
	c.Set(userIDKey, token.Subject)
}

func getUserID(c *gin.Context) *string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return &s
		}
	}
	return nil
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (m ApiHandler) logRequestMiddlware(ctx *gin.Context) {
	requestID := uuid.New()
	lg := zap.S().With("requestID", requestID.String(), "route", ctx.Request.URL.Path)
	ctx.Set(logger.ContextKey, lg)

	w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
	ctx.Writer = w

	body, err := ctx.GetRawData()
	if err != nil {
		lg.Warnf("failed to get raw data: %v", err)
	}
	ctx.Request.Body = io.NopCloser(bytes.NewReader(body))

	start := time.Now().UTC()
	var req *domain.ApiRequest
	if m.ApiRequestRepository != nil {
		req, err = m.ApiRequestRepository.Add(domain.ApiRequest{
			UserID:      getUserID(ctx),
			IPAddress:   strPtr(ctx.ClientIP()),
			Method:      ctx.Request.Method,
			Route:       ctx.Request.URL.Path,
			RequestBody: strPtr(string(body)),
			StartTs:     start,
		})
		if err != nil {
			lg.Error(err)
		}
	}

	ctx.Next()

	duration := time.Since(start).Milliseconds()
	lg.Infow("request complete", "status", ctx.Writer.Status(), "durationMs", duration)

	if req != nil {
		req.DurationMs = int64Ptr(duration)
		req.StatusCode = int32Ptr(int32(ctx.Writer.Status()))
		// png bodies aren't worth storing
		if strings.HasPrefix(ctx.Writer.Header().Get("Content-Type"), "application/json") {
			req.ResponseBody = strPtr(w.body.String())
		}

		err = m.ApiRequestRepository.Update(*req)
		if err != nil {
			lg.Error(err)
		}
	}
}
