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

type PortfolioAssetRepo interface {
  Create(ctx context.Context, tx *gorm.DB, position *types.PortfolioAsset) (*types.PortfolioAsset, error)
  GetByPortfolioAndAsset(ctx context.Context, tx *gorm.DB, portfolioID, assetID uuid.UUID) (*types.PortfolioAsset, error)
  ListByPortfolio(ctx context.Context, tx *gorm.DB, portfolioID uuid.UUID) ([]*types.PortfolioAsset, error)
  Update(ctx context.Context, tx *gorm.DB, position *types.PortfolioAsset) (*types.PortfolioAsset, error)
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type portfolioAssetRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPortfolioAssetRepo(db *gorm.DB, baseLog *logger.Logger) PortfolioAssetRepo {
  return &portfolioAssetRepo{
    db:  db,
    log: baseLog.With("repo", "PortfolioAssetRepo"),
  }
}

func (par *portfolioAssetRepo) Create(ctx context.Context, tx *gorm.DB, position *types.PortfolioAsset) (*types.PortfolioAsset, error) {
  if tx == nil {
    tx = par.db
  }
  if position.ID == uuid.Nil {
    position.ID = uuid.New()
  }
  if err := tx.WithContext(ctx).Create(position).Error; err != nil {
    par.log.Error("failed to create position", "error", err)
    return nil, err
  }
  return position, nil
}

func (par *portfolioAssetRepo) GetByPortfolioAndAsset(ctx context.Context, tx *gorm.DB, portfolioID, assetID uuid.UUID) (*types.PortfolioAsset, error) {
  if tx == nil {
    tx = par.db
  }
  var p types.PortfolioAsset
  if err := tx.WithContext(ctx).
    Where("portfolio_id = ? AND asset_id = ?", portfolioID, assetID).
    First(&p).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apperrors.ErrPositionNotFound
    }
    return nil, err
  }
  return &p, nil
}

func (par *portfolioAssetRepo) ListByPortfolio(ctx context.Context, tx *gorm.DB, portfolioID uuid.UUID) ([]*types.PortfolioAsset, error) {
  if tx == nil {
    tx = par.db
  }
  var positions []*types.PortfolioAsset
  if err := tx.WithContext(ctx).
    Preload("Asset").
    Where("portfolio_id = ?", portfolioID).
    Order("created_at ASC").
    Find(&positions).Error; err != nil {
    return nil, err
  }
  return positions, nil
}

func (par *portfolioAssetRepo) Update(ctx context.Context, tx *gorm.DB, position *types.PortfolioAsset) (*types.PortfolioAsset, error) {
  if tx == nil {
    tx = par.db
  }
  if err := tx.WithContext(ctx).Save(position).Error; err != nil {
    par.log.Error("failed to update position", "error", err)
    return nil, err
  }
  return position, nil
}

func (par *portfolioAssetRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  if tx == nil {
    tx = par.db
  }
  if err := tx.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.PortfolioAsset{}).Error; err != nil {
    par.log.Error("failed to delete position", "error", err)
    return err
  }
  return nil
}
