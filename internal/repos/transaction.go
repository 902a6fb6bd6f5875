package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

type TransactionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, transaction *types.Transaction) (*types.Transaction, error)
  ListByPortfolio(ctx context.Context, tx *gorm.DB, portfolioID uuid.UUID, offset, limit int) ([]*types.Transaction, error)
}

type transactionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTransactionRepo(db *gorm.DB, baseLog *logger.Logger) TransactionRepo {
  return &transactionRepo{
    db:  db,
    log: baseLog.With("repo", "TransactionRepo"),
  }
}

func (tr *transactionRepo) Create(ctx context.Context, tx *gorm.DB, transaction *types.Transaction) (*types.Transaction, error) {
  if tx == nil {
    tx = tr.db
  }
  if transaction.ID == uuid.Nil {
    transaction.ID = uuid.New()
  }
  if err := tx.WithContext(ctx).Create(transaction).Error; err != nil {
    tr.log.Error("failed to create transaction", "error", err)
    return nil, err
  }
  return transaction, nil
}

func (tr *transactionRepo) ListByPortfolio(ctx context.Context, tx *gorm.DB, portfolioID uuid.UUID, offset, limit int) ([]*types.Transaction, error) {
  if tx == nil {
    tx = tr.db
  }
  var transactions []*types.Transaction
  if err := tx.WithContext(ctx).
    Where("portfolio_id = ?", portfolioID).
    Offset(offset).
    Limit(limit).
    Order("created_at DESC").
    Find(&transactions).Error; err != nil {
    return nil, err
  }
  return transactions, nil
}
