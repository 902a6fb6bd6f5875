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

type ChatSessionRepo interface {
  CreateSession(ctx context.Context, tx *gorm.DB, session *types.ChatSession) (*types.ChatSession, error)
  // GetOwnedSession fetches a session only if it belongs to userID; an
  // unknown id and an ownership mismatch are indistinguishable to the
  // caller, both return ErrChatSessionNotFound.
  GetOwnedSession(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.ChatSession, error)
  GetUserSessions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ChatSession, error)
  UpdateTitle(ctx context.Context, tx *gorm.DB, id uuid.UUID, title string) (*types.ChatSession, error)
  Touch(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
  DeleteSession(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type chatSessionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChatSessionRepo(db *gorm.DB, baseLog *logger.Logger) ChatSessionRepo {
  return &chatSessionRepo{
    db:  db,
    log: baseLog.With("repo", "ChatSessionRepo"),
  }
}

func (csr *chatSessionRepo) CreateSession(ctx context.Context, tx *gorm.DB, session *types.ChatSession) (*types.ChatSession, error) {
  if tx == nil {
    tx = csr.db
  }
  if session.ID == uuid.Nil {
    session.ID = uuid.New()
  }
  if session.Title == "" {
    session.Title = "New Chat"
  }
  if err := tx.WithContext(ctx).Create(session).Error; err != nil {
    csr.log.Error("failed to create chat session", "error", err)
    return nil, err
  }
  return session, nil
}

func (csr *chatSessionRepo) GetOwnedSession(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) (*types.ChatSession, error) {
  if tx == nil {
    tx = csr.db
  }
  var s types.ChatSession
  if err := tx.WithContext(ctx).
    Where("id = ? AND user_id = ?", id, userID).
    First(&s).Error; err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apperrors.ErrChatSessionNotFound
    }
    return nil, err
  }
  return &s, nil
}

func (csr *chatSessionRepo) GetUserSessions(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ChatSession, error) {
  if tx == nil {
    tx = csr.db
  }
  var sessions []*types.ChatSession
  if err := tx.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("updated_at DESC").
    Find(&sessions).Error; err != nil {
    return nil, err
  }
  return sessions, nil
}

func (csr *chatSessionRepo) UpdateTitle(ctx context.Context, tx *gorm.DB, id uuid.UUID, title string) (*types.ChatSession, error) {
  if tx == nil {
    tx = csr.db
  }
  if err := tx.WithContext(ctx).
    Model(&types.ChatSession{}).
    Where("id = ?", id).
    Update("title", title).Error; err != nil {
    csr.log.Error("failed to update chat session title", "error", err)
    return nil, err
  }
  var s types.ChatSession
  if err := tx.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
    return nil, err
  }
  return &s, nil
}

func (csr *chatSessionRepo) Touch(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  if tx == nil {
    tx = csr.db
  }
  return tx.WithContext(ctx).
    Model(&types.ChatSession{}).
    Where("id = ?", id).
    Update("updated_at", gorm.Expr("now()")).Error
}

func (csr *chatSessionRepo) DeleteSession(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  if tx == nil {
    tx = csr.db
  }
  if err := tx.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.ChatSession{}).Error; err != nil {
    csr.log.Error("failed to delete chat session", "error", err)
    return err
  }
  return nil
}
