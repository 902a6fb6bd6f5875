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

type PortfolioRepo interface {
  Create(ctx context.Context, tx *gorm.DB, portfolio *types.Portfolio) (*types.Portfolio, error)
  GetOwned(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Portfolio, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Portfolio, error)
  Update(ctx context.Context, tx *gorm.DB, portfolio *types.Portfolio) (*types.Portfolio, error)
  Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type portfolioRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPortfolioRepo(db *gorm.DB, baseLog *logger.Logger) PortfolioRepo {
  return &portfolioRepo{
    db:  db,
    log: baseLog.With("repo", "PortfolioRepo"),
  }
}

func (pr *portfolioRepo) Create(ctx context.Context, tx *gorm.DB, portfolio *types.Portfolio) (*types.Portfolio, error) {
  if tx == nil {
    tx = pr.db
  }
  if portfolio.ID == uuid.Nil {
    portfolio.ID = uuid.New()
  }
  if err := tx.WithContext(ctx).Create(portfolio).Error; err != nil {
    pr.log.Error("failed to create portfolio", "error", err)
    return nil, err
  }
  return portfolio, nil
}

func (pr *portfolioRepo) GetOwned(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.Portfolio, error) {
  if tx == nil {
    tx = pr.db
  }
  var p types.Portfolio
  if err := tx.WithContext(ctx).
    Where("id = ? AND user_id = ?", id, userID).
    First(&p).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apperrors.ErrPortfolioNotFound
    }
    return nil, err
  }
  return &p, nil
}

func (pr *portfolioRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Portfolio, error) {
  if tx == nil {
    tx = pr.db
  }
  var portfolios []*types.Portfolio
  if err := tx.WithContext(ctx).
    Where("user_id = ?", userID).
    Offset(offset).
    Limit(limit).
    Order("created_at DESC").
    Find(&portfolios).Error; err != nil {
    return nil, err
  }
  return portfolios, nil
}

func (pr *portfolioRepo) Update(ctx context.Context, tx *gorm.DB, portfolio *types.Portfolio) (*types.Portfolio, error) {
  if tx == nil {
    tx = pr.db
  }
  if err := tx.WithContext(ctx).Save(portfolio).Error; err != nil {
    pr.log.Error("failed to update portfolio", "error", err)
    return nil, err
  }
  return portfolio, nil
}

func (pr *portfolioRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  if tx == nil {
    tx = pr.db
  }
  res := tx.WithContext(ctx).Where("id = ?", id).Delete(&types.Portfolio{})
  if res.Error != nil {
    pr.log.Error("failed to delete portfolio", "error", res.Error)
    return res.Error
  }
  if res.RowsAffected == 0 {
    return apperrors.ErrPortfolioNotFound
  }
  return nil
}
