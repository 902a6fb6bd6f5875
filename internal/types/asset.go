package types

import (
  "time"

  "github.com/google/uuid"
)

type AssetType string

const (
  AssetTypeStock      AssetType = "stock"
  AssetTypeBond       AssetType = "bond"
  AssetTypeETF        AssetType = "etf"
  AssetTypeMutualFund AssetType = "mutual_fund"
  AssetTypeCrypto     AssetType = "crypto"
  AssetTypeCommodity  AssetType = "commodity"
  AssetTypeRealEstate AssetType = "real_estate"
  AssetTypeOther      AssetType = "other"
)

func (t AssetType) Valid() bool {
  switch t {
  case AssetTypeStock, AssetTypeBond, AssetTypeETF, AssetTypeMutualFund,
    AssetTypeCrypto, AssetTypeCommodity, AssetTypeRealEstate, AssetTypeOther:
    return true
  }
  return false
}

type Asset struct {
  ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Name          string        `gorm:"index;not null" json:"name"`
  Symbol        string        `gorm:"uniqueIndex;not null" json:"symbol"`
  AssetType     AssetType     `gorm:"column:asset_type;not null" json:"asset_type"`
  CurrentPrice  float64       `gorm:"not null" json:"current_price"`
  Currency      string        `gorm:"size:3;default:'USD'" json:"currency"`
  Description   string        `gorm:"type:text" json:"description,omitempty"`
  Sector        string        `json:"sector,omitempty"`
  MarketCap     *float64      `json:"market_cap,omitempty"`
  Volume        *float64      `json:"volume,omitempty"`
  PERatio       *float64      `gorm:"column:pe_ratio" json:"pe_ratio,omitempty"`
  DividendYield *float64      `json:"dividend_yield,omitempty"`
  Beta          *float64      `json:"beta,omitempty"`
  Volatility    *float64      `json:"volatility,omitempty"`
  CreatedAt     time.Time     `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt     time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (Asset) TableName() string {
  return "asset"
}
