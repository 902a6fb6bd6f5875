package types

import (
  "time"

  "github.com/google/uuid"
)

type TransactionType string

const (
  TransactionBuy        TransactionType = "buy"
  TransactionSell       TransactionType = "sell"
  TransactionDividend   TransactionType = "dividend"
  TransactionDeposit    TransactionType = "deposit"
  TransactionWithdrawal TransactionType = "withdrawal"
)

func (t TransactionType) Valid() bool {
  switch t {
  case TransactionBuy, TransactionSell, TransactionDividend,
    TransactionDeposit, TransactionWithdrawal:
    return true
  }
  return false
}

type Transaction struct {
  ID              uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  PortfolioID     uuid.UUID         `gorm:"index;not null" json:"portfolio_id"`
  AssetID         *uuid.UUID        `gorm:"index" json:"asset_id,omitempty"` // nil for cash transactions
  TransactionType TransactionType   `gorm:"column:transaction_type;not null" json:"transaction_type"`
  Quantity        float64           `gorm:"not null;default:0" json:"quantity"`
  PricePerUnit    float64           `gorm:"not null;default:0" json:"price_per_unit"`
  TotalAmount     float64           `gorm:"not null" json:"total_amount"`
  Fees            float64           `gorm:"default:0" json:"fees"`
  Notes           string            `gorm:"type:text" json:"notes,omitempty"`
  TransactionDate string            `gorm:"size:10;not null" json:"transaction_date"` // YYYY-MM-DD
  CreatedAt       time.Time         `gorm:"not null;default:now()" json:"created_at"`
}

func (Transaction) TableName() string {
  return "transaction"
}
