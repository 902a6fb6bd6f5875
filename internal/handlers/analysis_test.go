package handlers

import (
  "encoding/json"
  "net/http"
  "net/http/httptest"
  "strings"
  "testing"

  "github.com/gin-gonic/gin"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/smartasset-org/smartasset-backend/internal/finmath"
  "github.com/smartasset-org/smartasset-backend/internal/services"
)

func newAnalysisRouter(t *testing.T) *gin.Engine {
  t.Helper()
  gin.SetMode(gin.TestMode)
  svc := services.NewAnalysisService(nil, testLogger(t), nil, nil)
  handler := NewAnalysisHandler(svc)
  router := gin.New()
  router.POST("/analysis/risk-metrics", handler.RiskMetrics)
  router.POST("/analysis/correlation", handler.CorrelationMatrix)
  return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
  t.Helper()
  req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
  req.Header.Set("Content-Type", "application/json")
  w := httptest.NewRecorder()
  router.ServeHTTP(w, req)
  return w
}

func TestRiskMetricsDefaultsRiskFreeRate(t *testing.T) {
  router := newAnalysisRouter(t)

  w := postJSON(t, router, "/analysis/risk-metrics", `{"returns":[0.10,0.20]}`)
  require.Equal(t, http.StatusOK, w.Code)

  var metrics finmath.RiskMetrics
  require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metrics))
  assert.InDelta(t, 2.6, metrics.SharpeRatio, 1e-9)
}

func TestRiskMetricsExplicitRiskFreeRate(t *testing.T) {
  router := newAnalysisRouter(t)

  w := postJSON(t, router, "/analysis/risk-metrics", `{"returns":[0.10,0.20],"risk_free_rate":0}`)
  require.Equal(t, http.StatusOK, w.Code)

  var metrics finmath.RiskMetrics
  require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metrics))
  assert.InDelta(t, 3.0, metrics.SharpeRatio, 1e-9)
}

func TestCorrelationEndpointRaggedRows(t *testing.T) {
  router := newAnalysisRouter(t)

  w := postJSON(t, router, "/analysis/correlation", `{"returns":[[0.1,0.2,0.3],[0.1,0.2]]}`)
  require.Equal(t, http.StatusOK, w.Code)

  var resp struct {
    CorrelationMatrix [][]float64 `json:"correlation_matrix"`
  }
  require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
  assert.Empty(t, resp.CorrelationMatrix)
}
