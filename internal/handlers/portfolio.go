package handlers

import (
  "errors"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/smartasset-org/smartasset-backend/internal/apperrors"
  "github.com/smartasset-org/smartasset-backend/internal/services"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

type PortfolioHandler struct {
  portfolioService services.PortfolioService
}

func NewPortfolioHandler(portfolioService services.PortfolioService) *PortfolioHandler {
  return &PortfolioHandler{portfolioService: portfolioService}
}

func portfolioErrStatus(err error) int {
  switch {
  case apperrors.IsNotFound(err):
    return http.StatusNotFound
  case errors.Is(err, apperrors.ErrInsufficientFunds), errors.Is(err, apperrors.ErrInvalidTransaction):
    return http.StatusBadRequest
  default:
    return http.StatusInternalServerError
  }
}

func (ph *PortfolioHandler) CreatePortfolio(c *gin.Context) {
  var portfolio types.Portfolio
  if err := c.ShouldBindJSON(&portfolio); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  created, err := ph.portfolioService.CreatePortfolio(c.Request.Context(), &portfolio)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, created)
}

func (ph *PortfolioHandler) GetPortfolio(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
    return
  }
  portfolio, err := ph.portfolioService.GetPortfolio(c.Request.Context(), id)
  if err != nil {
    c.JSON(portfolioErrStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, portfolio)
}

func (ph *PortfolioHandler) ListPortfolios(c *gin.Context) {
  offset, limit := paginationParams(c)
  portfolios, err := ph.portfolioService.ListPortfolios(c.Request.Context(), offset, limit)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, portfolios)
}

func (ph *PortfolioHandler) UpdatePortfolio(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
    return
  }
  var update services.PortfolioUpdate
  if err := c.ShouldBindJSON(&update); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  portfolio, err := ph.portfolioService.UpdatePortfolio(c.Request.Context(), id, update)
  if err != nil {
    c.JSON(portfolioErrStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, portfolio)
}

func (ph *PortfolioHandler) DeletePortfolio(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
    return
  }
  if err := ph.portfolioService.DeletePortfolio(c.Request.Context(), id); err != nil {
    c.JSON(portfolioErrStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "portfolio deleted"})
}

func (ph *PortfolioHandler) AddAsset(c *gin.Context) {
  portfolioID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
    return
  }
  var req struct {
    AssetID  string  `json:"asset_id"`
    Quantity float64 `json:"quantity"`
    Price    float64 `json:"price"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  assetID, err := uuid.Parse(req.AssetID)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
    return
  }
  position, err := ph.portfolioService.AddAssetToPortfolio(c.Request.Context(), portfolioID, assetID, req.Quantity, req.Price)
  if err != nil {
    c.JSON(portfolioErrStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, position)
}

func (ph *PortfolioHandler) RemoveAsset(c *gin.Context) {
  portfolioID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
    return
  }
  assetID, err := uuid.Parse(c.Param("assetId"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
    return
  }
  var req struct {
    Quantity float64 `json:"quantity"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if err := ph.portfolioService.RemoveAssetFromPortfolio(c.Request.Context(), portfolioID, assetID, req.Quantity); err != nil {
    c.JSON(portfolioErrStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "asset removed from portfolio"})
}

func (ph *PortfolioHandler) GetPositions(c *gin.Context) {
  portfolioID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
    return
  }
  positions, err := ph.portfolioService.GetPositions(c.Request.Context(), portfolioID)
  if err != nil {
    c.JSON(portfolioErrStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, positions)
}

func (ph *PortfolioHandler) GetPerformance(c *gin.Context) {
  portfolioID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
    return
  }
  performance, err := ph.portfolioService.GetPerformance(c.Request.Context(), portfolioID)
  if err != nil {
    c.JSON(portfolioErrStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, performance)
}

func (ph *PortfolioHandler) RecordTransaction(c *gin.Context) {
  portfolioID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
    return
  }
  var transaction types.Transaction
  if err := c.ShouldBindJSON(&transaction); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  transaction.PortfolioID = portfolioID
  created, err := ph.portfolioService.RecordTransaction(c.Request.Context(), &transaction)
  if err != nil {
    c.JSON(portfolioErrStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, created)
}

func (ph *PortfolioHandler) ListTransactions(c *gin.Context) {
  portfolioID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
    return
  }
  offset, limit := paginationParams(c)
  transactions, err := ph.portfolioService.ListTransactions(c.Request.Context(), portfolioID, offset, limit)
  if err != nil {
    c.JSON(portfolioErrStatus(err), gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, transactions)
}
