package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/smartasset-org/smartasset-backend/internal/apperrors"
  "github.com/smartasset-org/smartasset-backend/internal/finmath"
  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/repos"
  "github.com/smartasset-org/smartasset-backend/internal/requestdata"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

type PortfolioUpdate struct {
  Name           *string   `json:"name,omitempty"`
  Description    *string   `json:"description,omitempty"`
  CashBalance    *float64  `json:"cash_balance,omitempty"`
  RiskTolerance  *string   `json:"risk_tolerance,omitempty"`
  InvestmentGoal *string   `json:"investment_goal,omitempty"`
  TargetReturn   *float64  `json:"target_return,omitempty"`
  MaxDrawdown    *float64  `json:"max_drawdown,omitempty"`
}

type PortfolioService interface {
  CreatePortfolio(ctx context.Context, portfolio *types.Portfolio) (*types.Portfolio, error)
  GetPortfolio(ctx context.Context, id uuid.UUID) (*types.Portfolio, error)
  ListPortfolios(ctx context.Context, offset, limit int) ([]*types.Portfolio, error)
  UpdatePortfolio(ctx context.Context, id uuid.UUID, update PortfolioUpdate) (*types.Portfolio, error)
  DeletePortfolio(ctx context.Context, id uuid.UUID) error

  AddAssetToPortfolio(ctx context.Context, portfolioID, assetID uuid.UUID, quantity, price float64) (*types.PortfolioAsset, error)
  RemoveAssetFromPortfolio(ctx context.Context, portfolioID, assetID uuid.UUID, quantity float64) error
  GetPositions(ctx context.Context, portfolioID uuid.UUID) ([]*types.PortfolioAsset, error)
  GetPerformance(ctx context.Context, portfolioID uuid.UUID) (*types.PortfolioPerformance, error)

  RecordTransaction(ctx context.Context, transaction *types.Transaction) (*types.Transaction, error)
  ListTransactions(ctx context.Context, portfolioID uuid.UUID, offset, limit int) ([]*types.Transaction, error)
}

type portfolioService struct {
  db                 *gorm.DB
  log                *logger.Logger
  portfolioRepo      repos.PortfolioRepo
  portfolioAssetRepo repos.PortfolioAssetRepo
  assetRepo          repos.AssetRepo
  transactionRepo    repos.TransactionRepo
}

func NewPortfolioService(
  db *gorm.DB,
  log *logger.Logger,
  portfolioRepo repos.PortfolioRepo,
  portfolioAssetRepo repos.PortfolioAssetRepo,
  assetRepo repos.AssetRepo,
  transactionRepo repos.TransactionRepo,
) PortfolioService {
  return &portfolioService{
    db:                 db,
    log:                log.With("service", "PortfolioService"),
    portfolioRepo:      portfolioRepo,
    portfolioAssetRepo: portfolioAssetRepo,
    assetRepo:          assetRepo,
    transactionRepo:    transactionRepo,
  }
}

func (ps *portfolioService) requester(ctx context.Context) (*requestdata.RequestData, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("request data is not set in context")
  }
  return rd, nil
}

func (ps *portfolioService) owned(ctx context.Context, id uuid.UUID) (*types.Portfolio, error) {
  rd, err := ps.requester(ctx)
  if err != nil {
    return nil, err
  }
  return ps.portfolioRepo.GetOwned(ctx, nil, id, rd.UserID)
}

func (ps *portfolioService) CreatePortfolio(ctx context.Context, portfolio *types.Portfolio) (*types.Portfolio, error) {
  rd, err := ps.requester(ctx)
  if err != nil {
    return nil, err
  }
  if portfolio.Name == "" {
    return nil, fmt.Errorf("portfolio name is required")
  }
  portfolio.UserID = rd.UserID
  if portfolio.RiskTolerance == "" {
    portfolio.RiskTolerance = "moderate"
  }
  return ps.portfolioRepo.Create(ctx, nil, portfolio)
}

func (ps *portfolioService) GetPortfolio(ctx context.Context, id uuid.UUID) (*types.Portfolio, error) {
  return ps.owned(ctx, id)
}

func (ps *portfolioService) ListPortfolios(ctx context.Context, offset, limit int) ([]*types.Portfolio, error) {
  rd, err := ps.requester(ctx)
  if err != nil {
    return nil, err
  }
  if limit <= 0 || limit > 100 {
    limit = 100
  }
  if offset < 0 {
    offset = 0
  }
  return ps.portfolioRepo.ListByUser(ctx, nil, rd.UserID, offset, limit)
}

func (ps *portfolioService) UpdatePortfolio(ctx context.Context, id uuid.UUID, update PortfolioUpdate) (*types.Portfolio, error) {
  portfolio, err := ps.owned(ctx, id)
  if err != nil {
    return nil, err
  }
  if update.Name != nil {
    portfolio.Name = *update.Name
  }
  if update.Description != nil {
    portfolio.Description = *update.Description
  }
  if update.CashBalance != nil {
    portfolio.CashBalance = *update.CashBalance
  }
  if update.RiskTolerance != nil {
    portfolio.RiskTolerance = *update.RiskTolerance
  }
  if update.InvestmentGoal != nil {
    portfolio.InvestmentGoal = *update.InvestmentGoal
  }
  if update.TargetReturn != nil {
    portfolio.TargetReturn = update.TargetReturn
  }
  if update.MaxDrawdown != nil {
    portfolio.MaxDrawdown = update.MaxDrawdown
  }
  return ps.portfolioRepo.Update(ctx, nil, portfolio)
}

func (ps *portfolioService) DeletePortfolio(ctx context.Context, id uuid.UUID) error {
  if _, err := ps.owned(ctx, id); err != nil {
    return err
  }
  return ps.portfolioRepo.Delete(ctx, nil, id)
}

// AddAssetToPortfolio opens or grows a position. An existing position is
// merged at the blended average cost.
func (ps *portfolioService) AddAssetToPortfolio(ctx context.Context, portfolioID, assetID uuid.UUID, quantity, price float64) (*types.PortfolioAsset, error) {
  if quantity <= 0 || price < 0 {
    return nil, apperrors.ErrInvalidTransaction
  }
  if _, err := ps.owned(ctx, portfolioID); err != nil {
    return nil, err
  }
  if _, err := ps.assetRepo.GetByID(ctx, nil, assetID); err != nil {
    return nil, err
  }

  var result *types.PortfolioAsset
  err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existing, err := ps.portfolioAssetRepo.GetByPortfolioAndAsset(ctx, tx, portfolioID, assetID)
    switch {
    case err == nil:
      totalQuantity := existing.Quantity + quantity
      totalCost := existing.AverageCost*existing.Quantity + price*quantity
      existing.AverageCost = totalCost / totalQuantity
      existing.Quantity = totalQuantity
      updated, upErr := ps.portfolioAssetRepo.Update(ctx, tx, existing)
      if upErr != nil {
        return upErr
      }
      result = updated
      return nil
    case err == apperrors.ErrPositionNotFound:
      created, crErr := ps.portfolioAssetRepo.Create(ctx, tx, &types.PortfolioAsset{
        PortfolioID: portfolioID,
        AssetID:     assetID,
        Quantity:    quantity,
        AverageCost: price,
      })
      if crErr != nil {
        return crErr
      }
      result = created
      return nil
    default:
      return err
    }
  })
  if err != nil {
    return nil, err
  }
  return result, nil
}

func (ps *portfolioService) RemoveAssetFromPortfolio(ctx context.Context, portfolioID, assetID uuid.UUID, quantity float64) error {
  if quantity <= 0 {
    return apperrors.ErrInvalidTransaction
  }
  if _, err := ps.owned(ctx, portfolioID); err != nil {
    return err
  }
  return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    position, err := ps.portfolioAssetRepo.GetByPortfolioAndAsset(ctx, tx, portfolioID, assetID)
    if err != nil {
      return err
    }
    if position.Quantity < quantity {
      return apperrors.ErrInvalidTransaction
    }
    position.Quantity -= quantity
    if position.Quantity == 0 {
      return ps.portfolioAssetRepo.Delete(ctx, tx, position.ID)
    }
    _, err = ps.portfolioAssetRepo.Update(ctx, tx, position)
    return err
  })
}

func (ps *portfolioService) GetPositions(ctx context.Context, portfolioID uuid.UUID) ([]*types.PortfolioAsset, error) {
  if _, err := ps.owned(ctx, portfolioID); err != nil {
    return nil, err
  }
  positions, err := ps.portfolioAssetRepo.ListByPortfolio(ctx, nil, portfolioID)
  if err != nil {
    return nil, err
  }
  var totalValue float64
  for _, position := range positions {
    if position.Asset != nil {
      position.CurrentValue = position.Quantity * position.Asset.CurrentPrice
      totalValue += position.CurrentValue
    }
  }
  for _, position := range positions {
    allocation := AllocationFor(position, totalValue)
    position.AllocationPercentage = &allocation
  }
  return positions, nil
}

func (ps *portfolioService) GetPerformance(ctx context.Context, portfolioID uuid.UUID) (*types.PortfolioPerformance, error) {
  portfolio, err := ps.owned(ctx, portfolioID)
  if err != nil {
    return nil, err
  }
  positions, err := ps.portfolioAssetRepo.ListByPortfolio(ctx, nil, portfolioID)
  if err != nil {
    return nil, err
  }

  var totalInvested, currentValue float64
  for _, position := range positions {
    totalInvested += position.Quantity * position.AverageCost
    if position.Asset != nil {
      currentValue += position.Quantity * position.Asset.CurrentPrice
    }
  }
  totalReturn := currentValue - totalInvested
  var returnPercentage float64
  if totalInvested > 0 {
    returnPercentage = totalReturn / totalInvested * 100
  }

  return &types.PortfolioPerformance{
    PortfolioID:         portfolioID,
    TotalInvested:       totalInvested,
    CurrentValue:        currentValue,
    TotalReturn:         totalReturn,
    ReturnPercentage:    returnPercentage,
    CashBalance:         portfolio.CashBalance,
    TotalPortfolioValue: currentValue + portfolio.CashBalance,
  }, nil
}

// RecordTransaction persists the transaction and applies its effect on the
// portfolio: buys and sells adjust the position and cash balance, deposits
// and withdrawals only cash, dividends credit cash.
func (ps *portfolioService) RecordTransaction(ctx context.Context, transaction *types.Transaction) (*types.Transaction, error) {
  if !transaction.TransactionType.Valid() {
    return nil, apperrors.ErrInvalidTransaction
  }
  portfolio, err := ps.owned(ctx, transaction.PortfolioID)
  if err != nil {
    return nil, err
  }

  var result *types.Transaction
  err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    switch transaction.TransactionType {
    case types.TransactionBuy:
      if transaction.AssetID == nil {
        return apperrors.ErrInvalidTransaction
      }
      cost := transaction.TotalAmount + transaction.Fees
      if portfolio.CashBalance < cost {
        return apperrors.ErrInsufficientFunds
      }
      if err := ps.applyBuy(ctx, tx, portfolio, transaction); err != nil {
        return err
      }
      portfolio.CashBalance -= cost
    case types.TransactionSell:
      if transaction.AssetID == nil {
        return apperrors.ErrInvalidTransaction
      }
      if err := ps.applySell(ctx, tx, transaction); err != nil {
        return err
      }
      portfolio.CashBalance += transaction.TotalAmount - transaction.Fees
    case types.TransactionDeposit, types.TransactionDividend:
      portfolio.CashBalance += transaction.TotalAmount
    case types.TransactionWithdrawal:
      if portfolio.CashBalance < transaction.TotalAmount {
        return apperrors.ErrInsufficientFunds
      }
      portfolio.CashBalance -= transaction.TotalAmount
    }

    if _, err := ps.portfolioRepo.Update(ctx, tx, portfolio); err != nil {
      return err
    }
    created, err := ps.transactionRepo.Create(ctx, tx, transaction)
    if err != nil {
      return err
    }
    result = created
    return nil
  })
  if err != nil {
    return nil, err
  }
  return result, nil
}

func (ps *portfolioService) applyBuy(ctx context.Context, tx *gorm.DB, portfolio *types.Portfolio, transaction *types.Transaction) error {
  existing, err := ps.portfolioAssetRepo.GetByPortfolioAndAsset(ctx, tx, portfolio.ID, *transaction.AssetID)
  switch {
  case err == nil:
    totalQuantity := existing.Quantity + transaction.Quantity
    totalCost := existing.AverageCost*existing.Quantity + transaction.PricePerUnit*transaction.Quantity
    existing.AverageCost = totalCost / totalQuantity
    existing.Quantity = totalQuantity
    _, err = ps.portfolioAssetRepo.Update(ctx, tx, existing)
    return err
  case err == apperrors.ErrPositionNotFound:
    _, err = ps.portfolioAssetRepo.Create(ctx, tx, &types.PortfolioAsset{
      PortfolioID: portfolio.ID,
      AssetID:     *transaction.AssetID,
      Quantity:    transaction.Quantity,
      AverageCost: transaction.PricePerUnit,
    })
    return err
  default:
    return err
  }
}

func (ps *portfolioService) applySell(ctx context.Context, tx *gorm.DB, transaction *types.Transaction) error {
  position, err := ps.portfolioAssetRepo.GetByPortfolioAndAsset(ctx, tx, transaction.PortfolioID, *transaction.AssetID)
  if err != nil {
    return err
  }
  if position.Quantity < transaction.Quantity {
    return apperrors.ErrInvalidTransaction
  }
  position.Quantity -= transaction.Quantity
  if position.Quantity == 0 {
    return ps.portfolioAssetRepo.Delete(ctx, tx, position.ID)
  }
  _, err = ps.portfolioAssetRepo.Update(ctx, tx, position)
  return err
}

func (ps *portfolioService) ListTransactions(ctx context.Context, portfolioID uuid.UUID, offset, limit int) ([]*types.Transaction, error) {
  if _, err := ps.owned(ctx, portfolioID); err != nil {
    return nil, err
  }
  if limit <= 0 || limit > 100 {
    limit = 100
  }
  if offset < 0 {
    offset = 0
  }
  return ps.transactionRepo.ListByPortfolio(ctx, nil, portfolioID, offset, limit)
}

// AllocationFor computes a position's share of the portfolio's current value.
func AllocationFor(position *types.PortfolioAsset, totalValue float64) float64 {
  if position == nil || position.Asset == nil {
    return 0
  }
  return finmath.AllocationPercentage(position.Quantity*position.Asset.CurrentPrice, totalValue)
}
