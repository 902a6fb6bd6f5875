package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/smartasset-org/smartasset-backend/internal/handlers"
  "github.com/smartasset-org/smartasset-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler      *handlers.AuthHandler
  AuthMiddleware   *middleware.AuthMiddleware
  ChatHandler      *handlers.ChatHandler
  AssetHandler     *handlers.AssetHandler
  PortfolioHandler *handlers.PortfolioHandler
  AnalysisHandler  *handlers.AnalysisHandler
  AllowOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  //-----------------------------------------
  // Cors Setup
  //-----------------------------------------
  allowOrigins := cfg.AllowOrigins
  if len(allowOrigins) == 0 {
    allowOrigins = []string{"http://localhost:3000"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     allowOrigins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    ExposeHeaders:    []string{"X-Session-ID"},
    AllowCredentials: true,
  }))

  //-----------------------------------------
  // Health Routes
  //-----------------------------------------
  router.GET("/healthz", handlers.Healthz)

  //-----------------------------------------
  // Public Routes
  //-----------------------------------------
  api := router.Group("/api/v1")
  {
    api.POST("/auth/register", cfg.AuthHandler.Register)
    api.POST("/auth/login", cfg.AuthHandler.Login)
    api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
  }

  //------------------------------------------
  // Protected Routes
  //------------------------------------------
  protected := api.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  protected.POST("/auth/logout", cfg.AuthHandler.Logout)

  //Chat
  protected.GET("/chat/sessions", cfg.ChatHandler.ListSessions)
  protected.POST("/chat/sessions", cfg.ChatHandler.CreateSession)
  protected.GET("/chat/sessions/:id", cfg.ChatHandler.GetSession)
  protected.PATCH("/chat/sessions/:id", cfg.ChatHandler.UpdateSession)
  protected.DELETE("/chat/sessions/:id", cfg.ChatHandler.DeleteSession)
  protected.POST("/chat/send", cfg.ChatHandler.Send)
  protected.POST("/chat/send/stream", cfg.ChatHandler.SendStream)

  //Assets
  protected.GET("/assets", cfg.AssetHandler.ListAssets)
  protected.POST("/assets", cfg.AssetHandler.CreateAsset)
  protected.GET("/assets/search", cfg.AssetHandler.SearchAssets)
  protected.GET("/assets/:id", cfg.AssetHandler.GetAsset)
  protected.GET("/assets/symbol/:symbol", cfg.AssetHandler.GetAssetBySymbol)
  protected.PUT("/assets/:id", cfg.AssetHandler.UpdateAsset)
  protected.DELETE("/assets/:id", cfg.AssetHandler.DeleteAsset)

  //Portfolios
  protected.GET("/portfolios", cfg.PortfolioHandler.ListPortfolios)
  protected.POST("/portfolios", cfg.PortfolioHandler.CreatePortfolio)
  protected.GET("/portfolios/:id", cfg.PortfolioHandler.GetPortfolio)
  protected.PUT("/portfolios/:id", cfg.PortfolioHandler.UpdatePortfolio)
  protected.DELETE("/portfolios/:id", cfg.PortfolioHandler.DeletePortfolio)
  protected.GET("/portfolios/:id/positions", cfg.PortfolioHandler.GetPositions)
  protected.POST("/portfolios/:id/assets", cfg.PortfolioHandler.AddAsset)
  protected.DELETE("/portfolios/:id/assets/:assetId", cfg.PortfolioHandler.RemoveAsset)
  protected.GET("/portfolios/:id/performance", cfg.PortfolioHandler.GetPerformance)
  protected.POST("/portfolios/:id/transactions", cfg.PortfolioHandler.RecordTransaction)
  protected.GET("/portfolios/:id/transactions", cfg.PortfolioHandler.ListTransactions)

  //Analysis
  protected.POST("/analysis/portfolio", cfg.AnalysisHandler.AnalyzePortfolio)
  protected.POST("/analysis/asset", cfg.AnalysisHandler.AnalyzeAsset)
  protected.GET("/analysis/recommendations", cfg.AnalysisHandler.GetRecommendations)
  protected.GET("/analysis/market-sentiment", cfg.AnalysisHandler.GetMarketSentiment)
  protected.POST("/analysis/risk-metrics", cfg.AnalysisHandler.RiskMetrics)
  protected.POST("/analysis/correlation", cfg.AnalysisHandler.CorrelationMatrix)
  protected.POST("/analysis/optimal-weights", cfg.AnalysisHandler.OptimalWeights)

  return router
}
