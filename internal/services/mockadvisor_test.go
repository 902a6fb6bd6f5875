package services

import (
  "context"
  "strings"
  "testing"

  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/smartasset-org/smartasset-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("development")
  require.NoError(t, err)
  return log
}

func TestMockGenerateKeywordRouting(t *testing.T) {
  ms := NewMockAdvisorService(testLogger(t))
  ctx := context.Background()

  tests := []struct {
    name    string
    message string
    want    string
  }{
    {"tfsa keyword", "How much TFSA room do I have?", mockReplyTFSA},
    {"tax-free phrase", "what is a tax-free savings account", mockReplyTFSA},
    {"rrsp keyword", "Should I max my RRSP?", mockReplyRRSP},
    {"retirement keyword", "planning for retirement", mockReplyRRSP},
    {"budget keyword", "help me with my budget", mockReplyBudget},
    {"expense keyword", "track my expense categories", mockReplyBudget},
    {"tax keyword", "when are taxes due", mockReplyTax},
    {"cra keyword", "what does the CRA require", mockReplyTax},
    {"no keyword", "hello there", mockReplyDefault},
  }
  for _, tt := range tests {
    t.Run(tt.name, func(t *testing.T) {
      assert.Equal(t, tt.want, ms.Generate(ctx, tt.message, nil))
    })
  }
}

func TestMockGeneratePrecedence(t *testing.T) {
  ms := NewMockAdvisorService(testLogger(t))

  // TFSA outranks RRSP, and both outrank the generic tax reply even
  // though "tax" appears as a substring.
  got := ms.Generate(context.Background(), "TFSA or RRSP for my tax situation?", nil)
  assert.Equal(t, mockReplyTFSA, got)

  got = ms.Generate(context.Background(), "RRSP tax deduction question", nil)
  assert.Equal(t, mockReplyRRSP, got)
}

func TestMockGenerateDefaultMentionsMockMode(t *testing.T) {
  ms := NewMockAdvisorService(testLogger(t))
  got := ms.Generate(context.Background(), "anything else", nil)
  assert.Contains(t, got, "mock mode")
}

func TestMockGenerateStreamConcatenatesToFullReply(t *testing.T) {
  ms := NewMockAdvisorService(testLogger(t))
  ctx := context.Background()
  message := "What is a TFSA?"

  var sb strings.Builder
  count := 0
  for fragment := range ms.GenerateStream(ctx, message, nil) {
    sb.WriteString(fragment)
    count++
  }
  assert.Greater(t, count, 1)
  assert.Equal(t, ms.Generate(ctx, message, nil), sb.String())
}

func TestMockGenerateStreamStopsOnCancel(t *testing.T) {
  ms := NewMockAdvisorService(testLogger(t))
  ctx, cancel := context.WithCancel(context.Background())

  fragments := ms.GenerateStream(ctx, "budget help", nil)
  _, ok := <-fragments
  require.True(t, ok)
  cancel()

  // The channel must close even though nobody drains the rest.
  for range fragments {
  }
}
