package services

import (
  "context"
  "strings"

  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

const mockReplyTFSA = `The Tax-Free Savings Account (TFSA) is a registered account that allows Canadian residents 18+ to earn investment income tax-free.

Key points for 2024:
- Annual contribution limit: $7,000
- Cumulative limit (since 2009): $95,000
- Unused room carries forward
- Withdrawals can be re-contributed the following year

Would you like more details about TFSA contribution strategies?`

const mockReplyRRSP = `The Registered Retirement Savings Plan (RRSP) helps Canadians save for retirement with tax advantages.

Key points for 2024:
- Contribution limit: 18% of previous year's earned income
- Maximum: $31,560
- Contributions are tax-deductible
- Deadline: 60 days after year-end (usually March 1)

Would you like to discuss RRSP vs TFSA strategies?`

const mockReplyBudget = `Great question about budgeting! Here's a simple framework:

**50/30/20 Rule:**
- 50% - Needs (housing, food, utilities)
- 30% - Wants (entertainment, dining out)
- 20% - Savings & debt repayment

Would you like me to help you create a personalized budget?`

const mockReplyTax = `I can help with Canadian tax questions! Common topics include:

- Filing deadlines (April 30 for most Canadians)
- Tax brackets and rates (federal + provincial)
- Deductions and credits
- TFSA/RRSP contributions

What specific tax topic would you like to explore?`

const mockReplyDefault = `Thanks for your question! As your SmartAsset financial assistant, I'm here to help with:

- **Budgeting** - Track expenses and plan spending
- **Canadian Taxes** - TFSA, RRSP, tax filing
- **Financial Planning** - Savings goals and strategies

[Note: Running in mock mode - Ollama not connected]

How can I assist you with your finances today?`

// MockAdvisorService produces deterministic canned replies keyed by
// keyword matching against the lowercased message. First match wins.
type MockAdvisorService struct {
  log *logger.Logger
}

func NewMockAdvisorService(log *logger.Logger) *MockAdvisorService {
  return &MockAdvisorService{log: log.With("service", "MockAdvisorService")}
}

func (ms *MockAdvisorService) Generate(_ context.Context, message string, _ []types.PromptMessage) string {
  lowered := strings.ToLower(message)
  switch {
  case containsAny(lowered, "tfsa", "tax-free", "tax free"):
    return mockReplyTFSA
  case containsAny(lowered, "rrsp", "retirement"):
    return mockReplyRRSP
  case containsAny(lowered, "budget", "spending", "expense"):
    return mockReplyBudget
  case containsAny(lowered, "tax", "taxes", "cra"):
    return mockReplyTax
  default:
    return mockReplyDefault
  }
}

// GenerateStream splits the canned reply into space-delimited fragments.
// Every fragment keeps its separating space so that concatenating the
// fragments reproduces the non-streaming reply exactly.
func (ms *MockAdvisorService) GenerateStream(ctx context.Context, message string, history []types.PromptMessage) <-chan string {
  out := make(chan string)
  go func() {
    defer close(out)
    words := strings.Split(ms.Generate(ctx, message, history), " ")
    for i, word := range words {
      fragment := word
      if i < len(words)-1 {
        fragment += " "
      }
      select {
      case out <- fragment:
      case <-ctx.Done():
        return
      }
    }
  }()
  return out
}

func containsAny(s string, keywords ...string) bool {
  for _, kw := range keywords {
    if strings.Contains(s, kw) {
      return true
    }
  }
  return false
}
