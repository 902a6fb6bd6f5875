package services

import (
  "context"
  "testing"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/smartasset-org/smartasset-backend/internal/apperrors"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

type fakePortfolioService struct {
  PortfolioService
  portfolio   *types.Portfolio
  performance *types.PortfolioPerformance
}

func (f *fakePortfolioService) GetPortfolio(_ context.Context, id uuid.UUID) (*types.Portfolio, error) {
  if f.portfolio == nil || f.portfolio.ID != id {
    return nil, apperrors.ErrPortfolioNotFound
  }
  return f.portfolio, nil
}

func (f *fakePortfolioService) GetPerformance(_ context.Context, _ uuid.UUID) (*types.PortfolioPerformance, error) {
  return f.performance, nil
}

type fakeAssetService struct {
  AssetService
  asset *types.Asset
}

func (f *fakeAssetService) GetAsset(_ context.Context, id uuid.UUID) (*types.Asset, error) {
  if f.asset == nil || f.asset.ID != id {
    return nil, apperrors.ErrAssetNotFound
  }
  return f.asset, nil
}

func floatPtr(v float64) *float64 { return &v }

func TestAnalyzePortfolio(t *testing.T) {
  portfolioID := uuid.New()
  portfolios := &fakePortfolioService{
    portfolio: &types.Portfolio{ID: portfolioID},
    performance: &types.PortfolioPerformance{
      PortfolioID:         portfolioID,
      TotalReturn:         1500,
      ReturnPercentage:    7.5,
      TotalPortfolioValue: 21500,
    },
  }
  svc := NewAnalysisService(nil, testLogger(t), portfolios, &fakeAssetService{})

  analysis, err := svc.AnalyzePortfolio(context.Background(), portfolioID)
  require.NoError(t, err)
  assert.Equal(t, "portfolio_analysis", analysis.AnalysisType)
  assert.Equal(t, portfolioID, analysis.TargetID)
  assert.Len(t, analysis.Results, 3)
  assert.Empty(t, analysis.Recommendations)
  assert.Equal(t, "low", analysis.RiskLevel)
  assert.InDelta(t, 0.85, analysis.ConfidenceScore, 1e-9)
  assert.Contains(t, analysis.Summary, "7.50%")
  assert.Contains(t, analysis.Summary, "$21500.00")
}

func TestAnalyzePortfolioNegativeReturnRecommendsRebalance(t *testing.T) {
  portfolioID := uuid.New()
  portfolios := &fakePortfolioService{
    portfolio: &types.Portfolio{ID: portfolioID},
    performance: &types.PortfolioPerformance{
      PortfolioID:      portfolioID,
      ReturnPercentage: -12,
    },
  }
  svc := NewAnalysisService(nil, testLogger(t), portfolios, &fakeAssetService{})

  analysis, err := svc.AnalyzePortfolio(context.Background(), portfolioID)
  require.NoError(t, err)
  require.Len(t, analysis.Recommendations, 1)
  assert.Equal(t, "rebalance", analysis.Recommendations[0].Action)
  assert.Equal(t, "high", analysis.RiskLevel)
}

func TestAnalyzePortfolioNotFound(t *testing.T) {
  svc := NewAnalysisService(nil, testLogger(t), &fakePortfolioService{}, &fakeAssetService{})
  _, err := svc.AnalyzePortfolio(context.Background(), uuid.New())
  assert.ErrorIs(t, err, apperrors.ErrPortfolioNotFound)
}

func TestAnalyzeAsset(t *testing.T) {
  asset := &types.Asset{
    ID:           uuid.New(),
    Name:         "Apple Inc.",
    Symbol:       "AAPL",
    CurrentPrice: 180.5,
    PERatio:      floatPtr(12),
    Beta:         floatPtr(1.2),
  }
  svc := NewAnalysisService(nil, testLogger(t), &fakePortfolioService{}, &fakeAssetService{asset: asset})

  analysis, err := svc.AnalyzeAsset(context.Background(), asset.ID)
  require.NoError(t, err)
  assert.Equal(t, "asset_analysis", analysis.AnalysisType)
  assert.Len(t, analysis.Results, 3)
  require.Len(t, analysis.Recommendations, 1)
  assert.Equal(t, "buy", analysis.Recommendations[0].Action)
  assert.Equal(t, &asset.ID, analysis.Recommendations[0].AssetID)
  assert.Equal(t, "moderate", analysis.RiskLevel)
  assert.Contains(t, analysis.Summary, "Apple Inc. (AAPL)")
  assert.Contains(t, analysis.Summary, "$180.50")
}

func TestAnalyzeAssetWithoutFundamentals(t *testing.T) {
  asset := &types.Asset{
    ID:           uuid.New(),
    Name:         "Mystery Fund",
    Symbol:       "MYST",
    CurrentPrice: 10,
  }
  svc := NewAnalysisService(nil, testLogger(t), &fakePortfolioService{}, &fakeAssetService{asset: asset})

  analysis, err := svc.AnalyzeAsset(context.Background(), asset.ID)
  require.NoError(t, err)
  assert.Empty(t, analysis.Recommendations)
  assert.Equal(t, "unknown", analysis.RiskLevel)
  assert.Contains(t, analysis.Summary, "N/A")
}

func TestAssessAssetRiskBands(t *testing.T) {
  assert.Equal(t, "high", assessAssetRisk(&types.Asset{Beta: floatPtr(1.6)}))
  assert.Equal(t, "moderate", assessAssetRisk(&types.Asset{Beta: floatPtr(1.0)}))
  assert.Equal(t, "low", assessAssetRisk(&types.Asset{Beta: floatPtr(0.5)}))
  assert.Equal(t, "unknown", assessAssetRisk(&types.Asset{}))
}

func TestGetRecommendationsAndSentiment(t *testing.T) {
  svc := NewAnalysisService(nil, testLogger(t), &fakePortfolioService{}, &fakeAssetService{})

  recs, err := svc.GetRecommendations(context.Background())
  require.NoError(t, err)
  assert.Equal(t, "bullish", recs["market_sentiment"])

  sentiment, err := svc.GetMarketSentiment(context.Background())
  require.NoError(t, err)
  assert.Equal(t, "neutral", sentiment["overall_sentiment"])
}
