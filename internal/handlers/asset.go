package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/smartasset-org/smartasset-backend/internal/apperrors"
  "github.com/smartasset-org/smartasset-backend/internal/services"
  "github.com/smartasset-org/smartasset-backend/internal/types"
)

type AssetHandler struct {
  assetService services.AssetService
}

func NewAssetHandler(assetService services.AssetService) *AssetHandler {
  return &AssetHandler{assetService: assetService}
}

func (ah *AssetHandler) CreateAsset(c *gin.Context) {
  var asset types.Asset
  if err := c.ShouldBindJSON(&asset); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  created, err := ah.assetService.CreateAsset(c.Request.Context(), &asset)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, created)
}

func (ah *AssetHandler) GetAsset(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
    return
  }
  asset, err := ah.assetService.GetAsset(c.Request.Context(), id)
  if err != nil {
    status := http.StatusInternalServerError
    if apperrors.IsNotFound(err) {
      status = http.StatusNotFound
    }
    c.JSON(status, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, asset)
}

func (ah *AssetHandler) GetAssetBySymbol(c *gin.Context) {
  asset, err := ah.assetService.GetAssetBySymbol(c.Request.Context(), c.Param("symbol"))
  if err != nil {
    status := http.StatusInternalServerError
    if apperrors.IsNotFound(err) {
      status = http.StatusNotFound
    }
    c.JSON(status, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, asset)
}

func (ah *AssetHandler) SearchAssets(c *gin.Context) {
  query := c.Query("q")
  if query == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
    return
  }
  assets, err := ah.assetService.SearchAssets(c.Request.Context(), query)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, assets)
}

func (ah *AssetHandler) ListAssets(c *gin.Context) {
  if assetType := c.Query("asset_type"); assetType != "" {
    assets, err := ah.assetService.ListAssetsByType(c.Request.Context(), types.AssetType(assetType))
    if err != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
      return
    }
    c.JSON(http.StatusOK, assets)
    return
  }
  offset, limit := paginationParams(c)
  assets, err := ah.assetService.ListAssets(c.Request.Context(), offset, limit)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, assets)
}

func (ah *AssetHandler) UpdateAsset(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
    return
  }
  var update services.AssetUpdate
  if err := c.ShouldBindJSON(&update); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  asset, err := ah.assetService.UpdateAsset(c.Request.Context(), id, update)
  if err != nil {
    status := http.StatusInternalServerError
    if apperrors.IsNotFound(err) {
      status = http.StatusNotFound
    }
    c.JSON(status, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, asset)
}

func (ah *AssetHandler) DeleteAsset(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
    return
  }
  if err := ah.assetService.DeleteAsset(c.Request.Context(), id); err != nil {
    status := http.StatusInternalServerError
    if apperrors.IsNotFound(err) {
      status = http.StatusNotFound
    }
    c.JSON(status, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "asset deleted"})
}

func paginationParams(c *gin.Context) (offset, limit int) {
  offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
  limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
  return offset, limit
}
