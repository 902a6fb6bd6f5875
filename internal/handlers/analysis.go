package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/smartasset-org/smartasset-backend/internal/apperrors"
  "github.com/smartasset-org/smartasset-backend/internal/services"
)

// defaultRiskFreeRate is the annualized rate assumed when a request does
// not supply one.
const defaultRiskFreeRate = 0.02

type AnalysisHandler struct {
  analysisService services.AnalysisService
}

func NewAnalysisHandler(analysisService services.AnalysisService) *AnalysisHandler {
  return &AnalysisHandler{analysisService: analysisService}
}

func (anh *AnalysisHandler) AnalyzePortfolio(c *gin.Context) {
  var req struct {
    PortfolioID string `json:"portfolio_id"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  portfolioID, err := uuid.Parse(req.PortfolioID)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "portfolio id is required"})
    return
  }
  analysis, err := anh.analysisService.AnalyzePortfolio(c.Request.Context(), portfolioID)
  if err != nil {
    status := http.StatusInternalServerError
    if apperrors.IsNotFound(err) {
      status = http.StatusNotFound
    }
    c.JSON(status, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, analysis)
}

func (anh *AnalysisHandler) AnalyzeAsset(c *gin.Context) {
  var req struct {
    AssetID string `json:"asset_id"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  assetID, err := uuid.Parse(req.AssetID)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "asset id is required"})
    return
  }
  analysis, err := anh.analysisService.AnalyzeAsset(c.Request.Context(), assetID)
  if err != nil {
    status := http.StatusInternalServerError
    if apperrors.IsNotFound(err) {
      status = http.StatusNotFound
    }
    c.JSON(status, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, analysis)
}

func (anh *AnalysisHandler) GetRecommendations(c *gin.Context) {
  recommendations, err := anh.analysisService.GetRecommendations(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, recommendations)
}

func (anh *AnalysisHandler) GetMarketSentiment(c *gin.Context) {
  sentiment, err := anh.analysisService.GetMarketSentiment(c.Request.Context())
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, sentiment)
}

func (anh *AnalysisHandler) RiskMetrics(c *gin.Context) {
  var req struct {
    Returns      []float64 `json:"returns"`
    RiskFreeRate *float64  `json:"risk_free_rate,omitempty"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  riskFreeRate := defaultRiskFreeRate
  if req.RiskFreeRate != nil {
    riskFreeRate = *req.RiskFreeRate
  }
  c.JSON(http.StatusOK, anh.analysisService.ComputeRiskMetrics(req.Returns, riskFreeRate))
}

func (anh *AnalysisHandler) CorrelationMatrix(c *gin.Context) {
  var req struct {
    Returns [][]float64 `json:"returns"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"correlation_matrix": anh.analysisService.CorrelationMatrix(req.Returns)})
}

func (anh *AnalysisHandler) OptimalWeights(c *gin.Context) {
  var req struct {
    Returns      [][]float64 `json:"returns"`
    TargetReturn *float64    `json:"target_return,omitempty"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  c.JSON(http.StatusOK, gin.H{"weights": anh.analysisService.OptimalWeights(req.Returns, req.TargetReturn)})
}
