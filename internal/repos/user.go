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

type UserRepo interface {
  Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error)
  GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error)
}

type userRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
  return &userRepo{
    db:  db,
    log: baseLog.With("repo", "UserRepo"),
  }
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
  if tx == nil {
    tx = ur.db
  }
  if user.ID == uuid.Nil {
    user.ID = uuid.New()
  }
  if err := tx.WithContext(ctx).Create(user).Error; err != nil {
    ur.log.Error("failed to create user", "error", err)
    return nil, err
  }
  return user, nil
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
  if tx == nil {
    tx = ur.db
  }
  var u types.User
  if err := tx.WithContext(ctx).
    Where("id = ?", id).
    First(&u).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apperrors.ErrUserNotFound
    }
    return nil, err
  }
  return &u, nil
}

func (ur *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
  if tx == nil {
    tx = ur.db
  }
  var u types.User
  if err := tx.WithContext(ctx).
    Where("email = ?", email).
    First(&u).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apperrors.ErrUserNotFound
    }
    return nil, err
  }
  return &u, nil
}
