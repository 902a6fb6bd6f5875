package types

import (
  "time"

  "github.com/google/uuid"
)

// Analysis payloads are transient response shapes, never persisted.

type AnalysisResult struct {
  Metric      string    `json:"metric"`
  Value       float64   `json:"value"`
  Unit        string    `json:"unit"`
  Description string    `json:"description"`
}

type Recommendation struct {
  Action      string      `json:"action"`
  AssetID     *uuid.UUID  `json:"asset_id,omitempty"`
  Quantity    *float64    `json:"quantity,omitempty"`
  Confidence  float64     `json:"confidence"`
  Reasoning   string      `json:"reasoning"`
}

type AnalysisResponse struct {
  AnalysisID      uuid.UUID         `json:"analysis_id"`
  Timestamp       time.Time         `json:"timestamp"`
  AnalysisType    string            `json:"analysis_type"`
  TargetID        uuid.UUID         `json:"target_id"`
  Results         []AnalysisResult  `json:"results"`
  Recommendations []Recommendation  `json:"recommendations"`
  Summary         string            `json:"summary"`
  RiskLevel       string            `json:"risk_level"`
  ConfidenceScore float64           `json:"confidence_score"`
}

type PortfolioPerformance struct {
  PortfolioID         uuid.UUID   `json:"portfolio_id"`
  TotalInvested       float64     `json:"total_invested"`
  CurrentValue        float64     `json:"current_value"`
  TotalReturn         float64     `json:"total_return"`
  ReturnPercentage    float64     `json:"return_percentage"`
  CashBalance         float64     `json:"cash_balance"`
  TotalPortfolioValue float64     `json:"total_portfolio_value"`
}
