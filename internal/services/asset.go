package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/repos"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

// AssetUpdate carries optional field updates; nil means leave unchanged.
type AssetUpdate struct {
  Name          *string           `json:"name,omitempty"`
  AssetType     *types.AssetType  `json:"asset_type,omitempty"`
  CurrentPrice  *float64          `json:"current_price,omitempty"`
  Currency      *string           `json:"currency,omitempty"`
  Description   *string           `json:"description,omitempty"`
  Sector        *string           `json:"sector,omitempty"`
  MarketCap     *float64          `json:"market_cap,omitempty"`
  Volume        *float64          `json:"volume,omitempty"`
  PERatio       *float64          `json:"pe_ratio,omitempty"`
  DividendYield *float64          `json:"dividend_yield,omitempty"`
  Beta          *float64          `json:"beta,omitempty"`
  Volatility    *float64          `json:"volatility,omitempty"`
}

type AssetService interface {
  CreateAsset(ctx context.Context, asset *types.Asset) (*types.Asset, error)
  GetAsset(ctx context.Context, id uuid.UUID) (*types.Asset, error)
  GetAssetBySymbol(ctx context.Context, symbol string) (*types.Asset, error)
  ListAssets(ctx context.Context, offset, limit int) ([]*types.Asset, error)
  ListAssetsByType(ctx context.Context, assetType types.AssetType) ([]*types.Asset, error)
  SearchAssets(ctx context.Context, query string) ([]*types.Asset, error)
  UpdateAsset(ctx context.Context, id uuid.UUID, update AssetUpdate) (*types.Asset, error)
  DeleteAsset(ctx context.Context, id uuid.UUID) error
}

type assetService struct {
  db        *gorm.DB
  log       *logger.Logger
  assetRepo repos.AssetRepo
}

func NewAssetService(db *gorm.DB, log *logger.Logger, assetRepo repos.AssetRepo) AssetService {
  return &assetService{
    db:        db,
    log:       log.With("service", "AssetService"),
    assetRepo: assetRepo,
  }
}

func (s *assetService) CreateAsset(ctx context.Context, asset *types.Asset) (*types.Asset, error) {
  if asset.Name == "" || asset.Symbol == "" {
    return nil, fmt.Errorf("asset name and symbol are required")
  }
  if !asset.AssetType.Valid() {
    return nil, fmt.Errorf("invalid asset type %q", asset.AssetType)
  }
  if asset.Currency == "" {
    asset.Currency = "USD"
  }
  return s.assetRepo.Create(ctx, nil, asset)
}

func (s *assetService) GetAsset(ctx context.Context, id uuid.UUID) (*types.Asset, error) {
  return s.assetRepo.GetByID(ctx, nil, id)
}

func (s *assetService) GetAssetBySymbol(ctx context.Context, symbol string) (*types.Asset, error) {
  return s.assetRepo.GetBySymbol(ctx, nil, symbol)
}

func (s *assetService) ListAssets(ctx context.Context, offset, limit int) ([]*types.Asset, error) {
  if limit <= 0 || limit > 100 {
    limit = 100
  }
  if offset < 0 {
    offset = 0
  }
  return s.assetRepo.List(ctx, nil, offset, limit)
}

func (s *assetService) ListAssetsByType(ctx context.Context, assetType types.AssetType) ([]*types.Asset, error) {
  if !assetType.Valid() {
    return nil, fmt.Errorf("invalid asset type %q", assetType)
  }
  return s.assetRepo.ListByType(ctx, nil, assetType)
}

func (s *assetService) SearchAssets(ctx context.Context, query string) ([]*types.Asset, error) {
  return s.assetRepo.Search(ctx, nil, query)
}

func (s *assetService) UpdateAsset(ctx context.Context, id uuid.UUID, update AssetUpdate) (*types.Asset, error) {
  asset, err := s.assetRepo.GetByID(ctx, nil, id)
  if err != nil {
    return nil, err
  }
  if update.Name != nil {
    asset.Name = *update.Name
  }
  if update.AssetType != nil {
    if !update.AssetType.Valid() {
      return nil, fmt.Errorf("invalid asset type %q", *update.AssetType)
    }
    asset.AssetType = *update.AssetType
  }
  if update.CurrentPrice != nil {
    asset.CurrentPrice = *update.CurrentPrice
  }
  if update.Currency != nil {
    asset.Currency = *update.Currency
  }
  if update.Description != nil {
    asset.Description = *update.Description
  }
  if update.Sector != nil {
    asset.Sector = *update.Sector
  }
  if update.MarketCap != nil {
    asset.MarketCap = update.MarketCap
  }
  if update.Volume != nil {
    asset.Volume = update.Volume
  }
  if update.PERatio != nil {
    asset.PERatio = update.PERatio
  }
  if update.DividendYield != nil {
    asset.DividendYield = update.DividendYield
  }
  if update.Beta != nil {
    asset.Beta = update.Beta
  }
  if update.Volatility != nil {
    asset.Volatility = update.Volatility
  }
  return s.assetRepo.Update(ctx, nil, asset)
}

func (s *assetService) DeleteAsset(ctx context.Context, id uuid.UUID) error {
  return s.assetRepo.Delete(ctx, nil, id)
}
