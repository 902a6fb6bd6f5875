package services

import (
  "context"

  "github.com/smartasset-org/smartasset-backend/internal/types"
)

// ReplyGenerator is a source of assistant replies. Both the live model
// backend and the canned mock generator implement it, so the orchestrator
// resolves the source once and drives either one identically.
//
// Generate never returns an error: every failure mode degrades to usable
// text. GenerateStream returns a finite channel of fragments; the channel
// is always closed, and a failure after streaming has begun surfaces as a
// final apology fragment rather than an error.
type ReplyGenerator interface {
  Generate(ctx context.Context, message string, history []types.PromptMessage) string
  GenerateStream(ctx context.Context, message string, history []types.PromptMessage) <-chan string
}
