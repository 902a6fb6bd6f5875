package finmath

import (
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
)

func TestSharpeRatio(t *testing.T) {
  assert.Equal(t, 0.0, SharpeRatio(nil, 0.02))
  assert.Equal(t, 0.0, SharpeRatio([]float64{}, 0.02))

  // Zero variance: every excess return identical.
  assert.Equal(t, 0.0, SharpeRatio([]float64{0.05, 0.05, 0.05}, 0.02))

  // excess = [0.08, 0.18], mean 0.13, population std 0.05
  got := SharpeRatio([]float64{0.10, 0.20}, 0.02)
  assert.InDelta(t, 2.6, got, 1e-9)
}

func TestMaxDrawdown(t *testing.T) {
  assert.Equal(t, 0.0, MaxDrawdown(nil))

  // All non-negative returns never fall below a running peak.
  assert.Equal(t, 0.0, MaxDrawdown([]float64{0.1, 0.0, 0.05}))

  // cumulative: 1.1, 0.55, 0.66 against a 1.1 peak
  got := MaxDrawdown([]float64{0.1, -0.5, 0.2})
  assert.InDelta(t, -0.5, got, 1e-9)

  // Any series with a negative return draws down.
  assert.LessOrEqual(t, MaxDrawdown([]float64{0.3, -0.01, 0.3}), 0.0)
  assert.Less(t, MaxDrawdown([]float64{-0.2}), 0.0)
}

func TestPortfolioVolatility(t *testing.T) {
  assert.Equal(t, 0.0, PortfolioVolatility(nil, nil))
  assert.Equal(t, 0.0, PortfolioVolatility([]float64{0.5, 0.5}, [][]float64{{0.04}}))

  got := PortfolioVolatility([]float64{1}, [][]float64{{0.04}})
  assert.InDelta(t, 0.2, got, 1e-9)

  // Uncorrelated equal-weight pair: sqrt(0.25*0.04 + 0.25*0.04)
  got = PortfolioVolatility([]float64{0.5, 0.5}, [][]float64{{0.04, 0}, {0, 0.04}})
  assert.InDelta(t, 0.1414213562, got, 1e-9)
}

func TestPortfolioReturn(t *testing.T) {
  assert.Equal(t, 0.0, PortfolioReturn(nil, nil))
  assert.Equal(t, 0.0, PortfolioReturn([]float64{0.5}, []float64{0.1, 0.2}))
  assert.InDelta(t, 0.15, PortfolioReturn([]float64{0.5, 0.5}, []float64{0.1, 0.2}), 1e-9)
}

func TestAllocationPercentage(t *testing.T) {
  assert.Equal(t, 0.0, AllocationPercentage(50, 0))
  assert.Equal(t, 0.0, AllocationPercentage(-10, 0))
  assert.InDelta(t, 25.0, AllocationPercentage(50, 200), 1e-9)
}

func TestCAGR(t *testing.T) {
  assert.Equal(t, 0.0, CAGR(0, 100, 5))
  assert.Equal(t, 0.0, CAGR(-100, 100, 5))
  assert.Equal(t, 0.0, CAGR(100, 200, 0))
  assert.InDelta(t, 0.0, CAGR(100, 100, 5), 1e-9)
  assert.InDelta(t, 1.0, CAGR(100, 200, 1), 1e-9)
}

func TestComputeRiskMetricsEmpty(t *testing.T) {
  m := ComputeRiskMetrics(nil, 0.02)
  assert.Equal(t, 0.0, m.Volatility)
  assert.Equal(t, 0.0, m.SharpeRatio)
  assert.Equal(t, 0.0, m.MaxDrawdown)
  assert.Equal(t, 0.0, m.VaR95)
}

func TestComputeRiskMetrics(t *testing.T) {
  returns := []float64{-0.02, 0.01, 0.03}
  m := ComputeRiskMetrics(returns, 0.02)

  // population std of [-0.02, 0.01, 0.03]
  assert.InDelta(t, 0.0205480466, m.Volatility, 1e-9)
  assert.InDelta(t, SharpeRatio(returns, 0.02), m.SharpeRatio, 1e-12)
  assert.InDelta(t, MaxDrawdown(returns), m.MaxDrawdown, 1e-12)
  // 5th percentile with linear interpolation: -0.02 + 0.1*(0.01 - -0.02)
  assert.InDelta(t, -0.017, m.VaR95, 1e-9)
}

func TestOptimalWeights(t *testing.T) {
  assert.Empty(t, OptimalWeights(nil, nil))

  matrix := [][]float64{
    {0.01, 0.02},
    {0.03, 0.01},
    {0.02, 0.02},
  }
  weights := OptimalWeights(matrix, nil)
  require.Len(t, weights, 3)
  for _, w := range weights {
    assert.InDelta(t, 1.0/3.0, w, 1e-12)
  }

  // targetReturn is documented as having no effect.
  target := 0.08
  assert.Equal(t, weights, OptimalWeights(matrix, &target))
}

func TestCorrelationMatrix(t *testing.T) {
  assert.Empty(t, CorrelationMatrix(nil))

  matrix := CorrelationMatrix([][]float64{
    {1, 2, 3},
    {2, 4, 6},
  })
  require.Len(t, matrix, 2)
  assert.InDelta(t, 1.0, matrix[0][0], 1e-12)
  assert.InDelta(t, 1.0, matrix[1][1], 1e-12)
  assert.InDelta(t, 1.0, matrix[0][1], 1e-9)
  assert.InDelta(t, matrix[0][1], matrix[1][0], 1e-12)

  anti := CorrelationMatrix([][]float64{
    {1, 2, 3},
    {3, 2, 1},
  })
  assert.InDelta(t, -1.0, anti[0][1], 1e-9)
}

func TestCorrelationMatrixRaggedRows(t *testing.T) {
  matrix := CorrelationMatrix([][]float64{
    {1, 2, 3},
    {1, 2},
  })
  assert.Empty(t, matrix)
}

func TestPercentile(t *testing.T) {
  assert.Equal(t, 0.0, Percentile(nil, 5))
  assert.Equal(t, 7.0, Percentile([]float64{7}, 5))
  assert.InDelta(t, 2.5, Percentile([]float64{1, 2, 3, 4}, 50), 1e-9)
}
