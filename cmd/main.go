package main

import (
  "fmt"
  "os"
  "strings"
  "time"

  "github.com/joho/godotenv"

  "github.com/smartasset-org/smartasset-backend/internal/db"
  "github.com/smartasset-org/smartasset-backend/internal/handlers"
  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/middleware"
  "github.com/smartasset-org/smartasset-backend/internal/repos"
  "github.com/smartasset-org/smartasset-backend/internal/server"
  "github.com/smartasset-org/smartasset-backend/internal/services"
  "github.com/smartasset-org/smartasset-backend/internal/utils"
)

func main() {
  // Logger Setup
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Environment Variables
  if err := godotenv.Load(); err != nil {
    log.Info("No .env file found, relying on process environment")
  }
  log.Info("Attempting to load environment variables for Main now...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  ollamaBaseURL := utils.GetEnv("OLLAMA_BASE_URL", "http://localhost:11434", log)
  ollamaModel := utils.GetEnv("OLLAMA_MODEL", "llama3.2", log)
  llmMockMode := utils.GetEnvAsBool("LLM_MOCK_MODE", false, log)
  allowOrigins := utils.GetEnv("CORS_ORIGINS", "http://localhost:3000", log)
  port := utils.GetEnv("PORT", "8080", log)
  log.Debug("Environment variables loaded for Main :)",
    "accessTokenTTL", accessTokenTTL,
    "refreshTokenTTL", refreshTokenTTL,
    "ollamaBaseURL", ollamaBaseURL,
    "ollamaModel", ollamaModel,
    "llmMockMode", llmMockMode,
    "port", port,
  )

  // Postgres Setup
  log.Info("Setting Up Postgres from Main now...")
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("DB init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  log.Info("Postgres Setup From Main Successful :)")

  // Repositories Setup
  log.Info("Setting Up Repositories from Main now...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  sessionRepo := repos.NewChatSessionRepo(thePG, log)
  messageRepo := repos.NewChatMessageRepo(thePG, log)
  assetRepo := repos.NewAssetRepo(thePG, log)
  portfolioRepo := repos.NewPortfolioRepo(thePG, log)
  portfolioAssetRepo := repos.NewPortfolioAssetRepo(thePG, log)
  transactionRepo := repos.NewTransactionRepo(thePG, log)
  log.Info("Repositories Set Up From Main Successful :)")

  // Services Setup
  log.Info("Setting up Services from Main now...")
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  mockAdvisorService := services.NewMockAdvisorService(log)
  ollamaService := services.NewOllamaService(log, ollamaBaseURL, ollamaModel, mockAdvisorService)
  advisorService := services.NewAdvisorService(thePG, log, sessionRepo, messageRepo, ollamaService, mockAdvisorService, llmMockMode)
  assetService := services.NewAssetService(thePG, log, assetRepo)
  portfolioService := services.NewPortfolioService(thePG, log, portfolioRepo, portfolioAssetRepo, assetRepo, transactionRepo)
  analysisService := services.NewAnalysisService(thePG, log, portfolioService, assetService)
  log.Info("Services Set Up From Main Successful :)")

  // Handler Setup
  log.Info("Setting Up Handlers from Main now...")
  authHandler := handlers.NewAuthHandler(authService)
  chatHandler := handlers.NewChatHandler(log, advisorService)
  assetHandler := handlers.NewAssetHandler(assetService)
  portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
  analysisHandler := handlers.NewAnalysisHandler(analysisService)
  log.Info("Handlers Set Up From Main Successful :)")

  // MiddleWare Setup
  log.Info("Setting Up Middleware from Main now...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)
  log.Info("Middleware Set Up From Main Successful :)")

  // Router Setup
  log.Info("Setting Up Router from Main now...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:      authHandler,
    AuthMiddleware:   authMiddleware,
    ChatHandler:      chatHandler,
    AssetHandler:     assetHandler,
    PortfolioHandler: portfolioHandler,
    AnalysisHandler:  analysisHandler,
    AllowOrigins:     strings.Split(allowOrigins, ","),
  })
  log.Info("Router Set Up From Main Successful :)")

  if err := router.Run(":" + port); err != nil {
    log.Error("server exited", "error", err)
    os.Exit(1)
  }
}
