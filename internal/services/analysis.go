package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/smartasset-org/smartasset-backend/internal/finmath"
  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

type AnalysisService interface {
  AnalyzePortfolio(ctx context.Context, portfolioID uuid.UUID) (*types.AnalysisResponse, error)
  AnalyzeAsset(ctx context.Context, assetID uuid.UUID) (*types.AnalysisResponse, error)
  GetRecommendations(ctx context.Context) (map[string]interface{}, error)
  GetMarketSentiment(ctx context.Context) (map[string]interface{}, error)

  ComputeRiskMetrics(returns []float64, riskFreeRate float64) finmath.RiskMetrics
  CorrelationMatrix(returnMatrix [][]float64) [][]float64
  OptimalWeights(returnMatrix [][]float64, targetReturn *float64) []float64
}

type analysisService struct {
  db               *gorm.DB
  log              *logger.Logger
  portfolioService PortfolioService
  assetService     AssetService
}

func NewAnalysisService(
  db *gorm.DB,
  log *logger.Logger,
  portfolioService PortfolioService,
  assetService AssetService,
) AnalysisService {
  return &analysisService{
    db:               db,
    log:              log.With("service", "AnalysisService"),
    portfolioService: portfolioService,
    assetService:     assetService,
  }
}

func (ans *analysisService) AnalyzePortfolio(ctx context.Context, portfolioID uuid.UUID) (*types.AnalysisResponse, error) {
  if _, err := ans.portfolioService.GetPortfolio(ctx, portfolioID); err != nil {
    return nil, err
  }
  performance, err := ans.portfolioService.GetPerformance(ctx, portfolioID)
  if err != nil {
    return nil, err
  }

  results := []types.AnalysisResult{
    {
      Metric:      "Total Return",
      Value:       performance.TotalReturn,
      Unit:        "USD",
      Description: "Total return from investments",
    },
    {
      Metric:      "Return Percentage",
      Value:       performance.ReturnPercentage,
      Unit:        "%",
      Description: "Percentage return on investment",
    },
    {
      Metric:      "Portfolio Value",
      Value:       performance.TotalPortfolioValue,
      Unit:        "USD",
      Description: "Total portfolio value including cash",
    },
  }

  var recommendations []types.Recommendation
  if performance.ReturnPercentage < 0 {
    recommendations = append(recommendations, types.Recommendation{
      Action:     "rebalance",
      Confidence: 0.75,
      Reasoning:  "Portfolio showing negative returns, consider rebalancing",
    })
  }

  return &types.AnalysisResponse{
    AnalysisID:      uuid.New(),
    Timestamp:       time.Now(),
    AnalysisType:    "portfolio_analysis",
    TargetID:        portfolioID,
    Results:         results,
    Recommendations: recommendations,
    Summary: fmt.Sprintf(
      "Portfolio shows a %.2f%% return with total value of $%.2f",
      performance.ReturnPercentage, performance.TotalPortfolioValue,
    ),
    RiskLevel:       assessPortfolioRisk(performance),
    ConfidenceScore: 0.85,
  }, nil
}

func (ans *analysisService) AnalyzeAsset(ctx context.Context, assetID uuid.UUID) (*types.AnalysisResponse, error) {
  asset, err := ans.assetService.GetAsset(ctx, assetID)
  if err != nil {
    return nil, err
  }

  peRatio := 0.0
  if asset.PERatio != nil {
    peRatio = *asset.PERatio
  }
  beta := 1.0
  if asset.Beta != nil {
    beta = *asset.Beta
  }

  results := []types.AnalysisResult{
    {
      Metric:      "Current Price",
      Value:       asset.CurrentPrice,
      Unit:        "USD",
      Description: "Current market price",
    },
    {
      Metric:      "P/E Ratio",
      Value:       peRatio,
      Unit:        "",
      Description: "Price-to-earnings ratio",
    },
    {
      Metric:      "Beta",
      Value:       beta,
      Unit:        "",
      Description: "Beta coefficient (volatility vs market)",
    },
  }

  var recommendations []types.Recommendation
  if asset.PERatio != nil && *asset.PERatio < 15 {
    recommendations = append(recommendations, types.Recommendation{
      Action:     "buy",
      AssetID:    &asset.ID,
      Confidence: 0.70,
      Reasoning:  fmt.Sprintf("Low P/E ratio of %g suggests undervaluation", *asset.PERatio),
    })
  }

  peLabel := "N/A"
  if asset.PERatio != nil {
    peLabel = fmt.Sprintf("%g", *asset.PERatio)
  }

  return &types.AnalysisResponse{
    AnalysisID:      uuid.New(),
    Timestamp:       time.Now(),
    AnalysisType:    "asset_analysis",
    TargetID:        assetID,
    Results:         results,
    Recommendations: recommendations,
    Summary: fmt.Sprintf(
      "%s (%s) is currently trading at $%.2f with a P/E ratio of %s",
      asset.Name, asset.Symbol, asset.CurrentPrice, peLabel,
    ),
    RiskLevel:       assessAssetRisk(asset),
    ConfidenceScore: 0.80,
  }, nil
}

// GetRecommendations returns static placeholder recommendations until a
// real signal pipeline exists.
func (ans *analysisService) GetRecommendations(ctx context.Context) (map[string]interface{}, error) {
  return map[string]interface{}{
    "recommendations": []map[string]interface{}{
      {
        "action":       "buy",
        "asset_symbol": "AAPL",
        "confidence":   0.75,
        "reasoning":    "Strong fundamentals and positive market sentiment",
      },
      {
        "action":       "hold",
        "asset_symbol": "MSFT",
        "confidence":   0.85,
        "reasoning":    "Stable performance, good for long-term holding",
      },
    },
    "market_sentiment": "bullish",
    "risk_level":       "moderate",
  }, nil
}

// GetMarketSentiment returns a static sentiment snapshot until an external
// data feed is wired in.
func (ans *analysisService) GetMarketSentiment(ctx context.Context) (map[string]interface{}, error) {
  return map[string]interface{}{
    "overall_sentiment": "neutral",
    "confidence":        0.70,
    "factors": []string{
      "Federal Reserve policy",
      "Earnings season performance",
      "Geopolitical events",
    },
    "sector_sentiment": map[string]string{
      "technology": "bullish",
      "healthcare": "neutral",
      "finance":    "bearish",
    },
  }, nil
}

func (ans *analysisService) ComputeRiskMetrics(returns []float64, riskFreeRate float64) finmath.RiskMetrics {
  return finmath.ComputeRiskMetrics(returns, riskFreeRate)
}

func (ans *analysisService) CorrelationMatrix(returnMatrix [][]float64) [][]float64 {
  return finmath.CorrelationMatrix(returnMatrix)
}

func (ans *analysisService) OptimalWeights(returnMatrix [][]float64, targetReturn *float64) []float64 {
  return finmath.OptimalWeights(returnMatrix, targetReturn)
}

func assessPortfolioRisk(performance *types.PortfolioPerformance) string {
  switch {
  case performance.ReturnPercentage < -10:
    return "high"
  case performance.ReturnPercentage < 5:
    return "moderate"
  default:
    return "low"
  }
}

func assessAssetRisk(asset *types.Asset) string {
  if asset.Beta == nil {
    return "unknown"
  }
  switch {
  case *asset.Beta > 1.5:
    return "high"
  case *asset.Beta > 0.8:
    return "moderate"
  default:
    return "low"
  }
}
