package apperrors

import "errors"

// Sentinel errors surfaced to HTTP handlers. Anything not listed here is
// treated as an internal error.
var (
  ErrUserNotFound         = errors.New("user not found")
  ErrChatSessionNotFound  = errors.New("chat session not found")
  ErrAssetNotFound        = errors.New("asset not found")
  ErrPortfolioNotFound    = errors.New("portfolio not found")
  ErrPositionNotFound     = errors.New("position not found")
  ErrInsufficientFunds    = errors.New("insufficient funds for transaction")
  ErrInvalidTransaction   = errors.New("invalid transaction")
)

// IsNotFound reports whether err maps to a 404 response.
func IsNotFound(err error) bool {
  return errors.Is(err, ErrUserNotFound) ||
    errors.Is(err, ErrChatSessionNotFound) ||
    errors.Is(err, ErrAssetNotFound) ||
    errors.Is(err, ErrPortfolioNotFound) ||
    errors.Is(err, ErrPositionNotFound)
}
