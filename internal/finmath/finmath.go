package finmath

import (
  "math"
  "sort"

  "gonum.org/v1/gonum/stat"
)

// RiskMetrics bundles the headline risk numbers for a return series.
type RiskMetrics struct {
  Volatility  float64 `json:"volatility"`
  SharpeRatio float64 `json:"sharpe_ratio"`
  MaxDrawdown float64 `json:"max_drawdown"`
  VaR95       float64 `json:"var_95"`
}

// SharpeRatio is the mean excess return over the risk-free rate divided by
// the standard deviation of excess returns. Zero for an empty series or a
// zero-variance series.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
  if len(returns) == 0 {
    return 0
  }
  excess := make([]float64, len(returns))
  for i, r := range returns {
    excess[i] = r - riskFreeRate
  }
  sd := popStdDev(excess)
  if sd == 0 {
    return 0
  }
  return stat.Mean(excess, nil) / sd
}

// MaxDrawdown returns the most negative fractional drop from a running peak
// of the cumulative return series. Always <= 0; zero for an empty series.
func MaxDrawdown(returns []float64) float64 {
  if len(returns) == 0 {
    return 0
  }
  cumulative := 1.0
  runningMax := math.Inf(-1)
  minDrawdown := math.Inf(1)
  for _, r := range returns {
    cumulative *= 1 + r
    if cumulative > runningMax {
      runningMax = cumulative
    }
    drawdown := (cumulative - runningMax) / runningMax
    if drawdown < minDrawdown {
      minDrawdown = drawdown
    }
  }
  return minDrawdown
}

// PortfolioVolatility is the square root of the weights' quadratic form
// against the covariance matrix. Zero on a dimension mismatch.
func PortfolioVolatility(weights []float64, covariance [][]float64) float64 {
  n := len(weights)
  if n == 0 || len(covariance) != n {
    return 0
  }
  for _, row := range covariance {
    if len(row) != n {
      return 0
    }
  }
  var variance float64
  for i := 0; i < n; i++ {
    for j := 0; j < n; j++ {
      variance += weights[i] * covariance[i][j] * weights[j]
    }
  }
  return math.Sqrt(variance)
}

// PortfolioReturn is the dot product of weights and per-asset returns.
// Zero on a length mismatch or empty input.
func PortfolioReturn(weights, returns []float64) float64 {
  if len(weights) == 0 || len(weights) != len(returns) {
    return 0
  }
  var total float64
  for i, w := range weights {
    total += w * returns[i]
  }
  return total
}

// AllocationPercentage is the asset's share of the total portfolio value,
// in percent. Zero when the total is zero.
func AllocationPercentage(assetValue, totalValue float64) float64 {
  if totalValue == 0 {
    return 0
  }
  return assetValue / totalValue * 100
}

// CAGR is the compound annual growth rate between an initial and final
// value over the given number of years. Zero for invalid bounds.
func CAGR(initialValue, finalValue, years float64) float64 {
  if initialValue <= 0 || years <= 0 {
    return 0
  }
  return math.Pow(finalValue/initialValue, 1/years) - 1
}

// ComputeRiskMetrics evaluates volatility (population standard deviation),
// Sharpe ratio, max drawdown, and the empirical 5th-percentile VaR for a
// return series. All fields are zero for an empty series.
func ComputeRiskMetrics(returns []float64, riskFreeRate float64) RiskMetrics {
  if len(returns) == 0 {
    return RiskMetrics{}
  }
  return RiskMetrics{
    Volatility:  popStdDev(returns),
    SharpeRatio: SharpeRatio(returns, riskFreeRate),
    MaxDrawdown: MaxDrawdown(returns),
    VaR95:       Percentile(returns, 5),
  }
}

// OptimalWeights returns the portfolio weights for the given per-asset
// return rows. This is an equal-weighting placeholder, not a real
// mean-variance optimizer; targetReturn is accepted but has no effect.
func OptimalWeights(returnMatrix [][]float64, targetReturn *float64) []float64 {
  _ = targetReturn
  n := len(returnMatrix)
  if n == 0 {
    return []float64{}
  }
  weights := make([]float64, n)
  for i := range weights {
    weights[i] = 1 / float64(n)
  }
  return weights
}

// CorrelationMatrix computes the pairwise Pearson correlation matrix
// across asset return rows. Rows must share a length; a ragged matrix
// yields the empty matrix.
func CorrelationMatrix(returnMatrix [][]float64) [][]float64 {
  n := len(returnMatrix)
  if n == 0 {
    return [][]float64{}
  }
  for _, row := range returnMatrix {
    if len(row) != len(returnMatrix[0]) {
      return [][]float64{}
    }
  }
  matrix := make([][]float64, n)
  for i := range matrix {
    matrix[i] = make([]float64, n)
  }
  for i := 0; i < n; i++ {
    matrix[i][i] = 1
    for j := i + 1; j < n; j++ {
      corr := stat.Correlation(returnMatrix[i], returnMatrix[j], nil)
      corr = math.Max(-1, math.Min(1, corr))
      matrix[i][j] = corr
      matrix[j][i] = corr
    }
  }
  return matrix
}

// Percentile evaluates the p-th percentile of data using linear
// interpolation between closest ranks.
func Percentile(data []float64, p float64) float64 {
  if len(data) == 0 {
    return 0
  }
  sorted := make([]float64, len(data))
  copy(sorted, data)
  sort.Float64s(sorted)
  if len(sorted) == 1 {
    return sorted[0]
  }
  pos := p / 100 * float64(len(sorted)-1)
  lower := int(math.Floor(pos))
  upper := int(math.Ceil(pos))
  if lower == upper {
    return sorted[lower]
  }
  frac := pos - float64(lower)
  return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// popStdDev is the population standard deviation (divisor N, not N-1).
func popStdDev(data []float64) float64 {
  if len(data) == 0 {
    return 0
  }
  mean := stat.Mean(data, nil)
  var variance float64
  for _, v := range data {
    variance += (v - mean) * (v - mean)
  }
  variance /= float64(len(data))
  return math.Sqrt(variance)
}
