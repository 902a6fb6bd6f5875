package types

import (
  "time"

  "github.com/google/uuid"
)

// PortfolioAsset is one position: the holding of a single asset inside a
// portfolio.
type PortfolioAsset struct {
  ID                    uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  PortfolioID           uuid.UUID   `gorm:"index;not null" json:"portfolio_id"`
  AssetID               uuid.UUID   `gorm:"index;not null" json:"asset_id"`
  Quantity              float64     `gorm:"not null;default:0" json:"quantity"`
  AverageCost           float64     `gorm:"not null;default:0" json:"average_cost"`
  CurrentValue          float64     `gorm:"not null;default:0" json:"current_value"`
  AllocationPercentage  *float64    `json:"allocation_percentage,omitempty"`
  CreatedAt             time.Time   `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt             time.Time   `gorm:"not null;default:now()" json:"updated_at"`

  Asset                 *Asset      `gorm:"foreignKey:AssetID;references:ID" json:"asset,omitempty"`
}

func (PortfolioAsset) TableName() string {
  return "portfolio_asset"
}
