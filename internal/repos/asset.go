package repos

import (
  "context"
  "errors"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/smartasset-org/smartasset-backend/internal/apperrors"
  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

type AssetRepo interface {
  Create(ctx context.Context, tx *gorm.DB, asset *types.Asset) (*types.Asset, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Asset, error)
  GetBySymbol(ctx context.Context, tx *gorm.DB, symbol string) (*types.Asset, error)
  List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Asset, error)
  ListByType(ctx context.Context, tx *gorm.DB, assetType types.AssetType) ([]*types.Asset, error)
  Search(ctx context.Context, tx *gorm.DB, query string) ([]*types.Asset, error)
  Update(ctx context.Context, tx *gorm.DB, asset *types.Asset) (*types.Asset, error)
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type assetRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAssetRepo(db *gorm.DB, baseLog *logger.Logger) AssetRepo {
  return &assetRepo{
    db:  db,
    log: baseLog.With("repo", "AssetRepo"),
  }
}

func (ar *assetRepo) Create(ctx context.Context, tx *gorm.DB, asset *types.Asset) (*types.Asset, error) {
  if tx == nil {
    tx = ar.db
  }
  if asset.ID == uuid.Nil {
    asset.ID = uuid.New()
  }
  if err := tx.WithContext(ctx).Create(asset).Error; err != nil {
    ar.log.Error("failed to create asset", "error", err)
    return nil, err
  }
  return asset, nil
}

func (ar *assetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Asset, error) {
  if tx == nil {
    tx = ar.db
  }
  var a types.Asset
  if err := tx.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apperrors.ErrAssetNotFound
    }
    return nil, err
  }
  return &a, nil
}

func (ar *assetRepo) GetBySymbol(ctx context.Context, tx *gorm.DB, symbol string) (*types.Asset, error) {
  if tx == nil {
    tx = ar.db
  }
  var a types.Asset
  if err := tx.WithContext(ctx).Where("symbol = ?", symbol).First(&a).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apperrors.ErrAssetNotFound
    }
    return nil, err
  }
  return &a, nil
}

func (ar *assetRepo) List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.Asset, error) {
  if tx == nil {
    tx = ar.db
  }
  var assets []*types.Asset
  if err := tx.WithContext(ctx).
    Offset(offset).
    Limit(limit).
    Order("symbol ASC").
    Find(&assets).Error; err != nil {
    return nil, err
  }
  return assets, nil
}

func (ar *assetRepo) ListByType(ctx context.Context, tx *gorm.DB, assetType types.AssetType) ([]*types.Asset, error) {
  if tx == nil {
    tx = ar.db
  }
  var assets []*types.Asset
  if err := tx.WithContext(ctx).
    Where("asset_type = ?", assetType).
    Order("symbol ASC").
    Find(&assets).Error; err != nil {
    return nil, err
  }
  return assets, nil
}

func (ar *assetRepo) Search(ctx context.Context, tx *gorm.DB, query string) ([]*types.Asset, error) {
  if tx == nil {
    tx = ar.db
  }
  var assets []*types.Asset
  pattern := "%" + query + "%"
  if err := tx.WithContext(ctx).
    Where("name ILIKE ? OR symbol ILIKE ?", pattern, pattern).
    Order("symbol ASC").
    Find(&assets).Error; err != nil {
    return nil, err
  }
  return assets, nil
}

func (ar *assetRepo) Update(ctx context.Context, tx *gorm.DB, asset *types.Asset) (*types.Asset, error) {
  if tx == nil {
    tx = ar.db
  }
  if err := tx.WithContext(ctx).Save(asset).Error; err != nil {
    ar.log.Error("failed to update asset", "error", err)
    return nil, err
  }
  return asset, nil
}

func (ar *assetRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  if tx == nil {
    tx = ar.db
  }
  res := tx.WithContext(ctx).Where("id = ?", id).Delete(&types.Asset{})
  if res.Error != nil {
    ar.log.Error("failed to delete asset", "error", res.Error)
    return res.Error
  }
  if res.RowsAffected == 0 {
    return apperrors.ErrAssetNotFound
  }
  return nil
}
