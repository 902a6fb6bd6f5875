package db

import (
  "fmt"

  "gorm.io/driver/postgres"
  "gorm.io/gorm"

  "github.com/smartasset-org/smartasset-backend/internal/logger"
  "github.com/smartasset-org/smartasset-backend/internal/types"
  "github.com/smartasset-org/smartasset-backend/internal/utils"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "smartasset", log)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    serviceLog.Error("Failed to connect to Postgres DB", "error", err)
    return nil, fmt.Errorf("failed to connect to Postgres DB: %w", err)
  }
  serviceLog.Info("Connected to Postgres DB", "host", postgresHost, "dbname", postgresName)

  if err := database.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
  }

  return &PostgresService{db: database, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Starting AutoMigrateAll for all GORM models now...")

  err := s.db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.ChatSession{},
    &types.ChatMessage{},
    &types.Asset{},
    &types.Portfolio{},
    &types.PortfolioAsset{},
    &types.Transaction{},
  )
  if err != nil {
    s.log.Error("AutoMigrateAll failed", "error", err)
    return err
  }

  // GORM migrated with FK constraints disabled; add the ones we rely on
  // for cascade semantics by hand.
  constraints := []struct {
    name string
    stmt string
  }{
    {"fk_user_token_user_id", `
      ALTER TABLE "user_token"
      ADD CONSTRAINT "fk_user_token_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "user"("id")
      ON DELETE CASCADE`},
    {"fk_chat_session_user_id", `
      ALTER TABLE "chat_session"
      ADD CONSTRAINT "fk_chat_session_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "user"("id")
      ON DELETE CASCADE`},
    {"fk_chat_message_session_id", `
      ALTER TABLE "chat_message"
      ADD CONSTRAINT "fk_chat_message_session_id"
      FOREIGN KEY ("session_id")
      REFERENCES "chat_session"("id")
      ON DELETE CASCADE`},
    {"fk_portfolio_user_id", `
      ALTER TABLE "portfolio"
      ADD CONSTRAINT "fk_portfolio_user_id"
      FOREIGN KEY ("user_id")
      REFERENCES "user"("id")
      ON DELETE CASCADE`},
    {"fk_portfolio_asset_portfolio_id", `
      ALTER TABLE "portfolio_asset"
      ADD CONSTRAINT "fk_portfolio_asset_portfolio_id"
      FOREIGN KEY ("portfolio_id")
      REFERENCES "portfolio"("id")
      ON DELETE CASCADE`},
    {"fk_portfolio_asset_asset_id", `
      ALTER TABLE "portfolio_asset"
      ADD CONSTRAINT "fk_portfolio_asset_asset_id"
      FOREIGN KEY ("asset_id")
      REFERENCES "asset"("id")
      ON DELETE CASCADE`},
    {"fk_transaction_portfolio_id", `
      ALTER TABLE "transaction"
      ADD CONSTRAINT "fk_transaction_portfolio_id"
      FOREIGN KEY ("portfolio_id")
      REFERENCES "portfolio"("id")
      ON DELETE CASCADE`},
    {"fk_transaction_asset_id", `
      ALTER TABLE "transaction"
      ADD CONSTRAINT "fk_transaction_asset_id"
      FOREIGN KEY ("asset_id")
      REFERENCES "asset"("id")
      ON DELETE SET NULL`},
  }
  for _, c := range constraints {
    drop := fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT IF EXISTS %q`, tableFor(c.name), c.name)
    if err := s.db.Exec(drop).Error; err != nil {
      return fmt.Errorf("failed to drop constraint %s: %w", c.name, err)
    }
    if err := s.db.Exec(c.stmt).Error; err != nil {
      return fmt.Errorf("failed to add %s: %w", c.name, err)
    }
  }
  s.log.Info("AutoMigrateAll completed successfully")

  return nil
}

func tableFor(constraint string) string {
  switch constraint {
  case "fk_user_token_user_id":
    return `"user_token"`
  case "fk_chat_session_user_id":
    return `"chat_session"`
  case "fk_chat_message_session_id":
    return `"chat_message"`
  case "fk_portfolio_user_id":
    return `"portfolio"`
  case "fk_portfolio_asset_portfolio_id", "fk_portfolio_asset_asset_id":
    return `"portfolio_asset"`
  default:
    return `"transaction"`
  }
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
