package types

import (
  "time"

  "github.com/google/uuid"
)

type ChatSession struct {
  ID          uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID      uuid.UUID         `gorm:"index;not null" json:"user_id"`
  Title       string            `gorm:"column:title;default:'New Chat'" json:"title"`
  CreatedAt   time.Time         `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt   time.Time         `gorm:"not null;default:now()" json:"updated_at"`
}

func (ChatSession) TableName() string {
  return "chat_session"
}
