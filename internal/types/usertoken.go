package types

import (
  "time"

  "github.com/google/uuid"
)

// UserToken stores issued refresh tokens so logout can revoke them.
type UserToken struct {
  ID            uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID        uuid.UUID       `gorm:"index;not null" json:"user_id"`
  RefreshToken  string          `gorm:"uniqueIndex;not null" json:"-"`
  ExpiresAt     time.Time       `gorm:"not null" json:"expires_at"`
  CreatedAt     time.Time       `gorm:"not null;default:now()" json:"created_at"`
}

func (UserToken) TableName() string {
  return "user_token"
}
