package types

import (
  "time"

  "github.com/google/uuid"
)

// MessageRole is a closed enumeration of who authored a chat message.
type MessageRole string

const (
  RoleUser      MessageRole = "user"
  RoleAssistant MessageRole = "assistant"
  RoleSystem    MessageRole = "system"
)

func (r MessageRole) Valid() bool {
  switch r {
  case RoleUser, RoleAssistant, RoleSystem:
    return true
  }
  return false
}

// ChatMessage rows are immutable once created; ordering within a session
// is by creation time.
type ChatMessage struct {
  ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  SessionID   uuid.UUID       `gorm:"index;not null" json:"session_id"`
  Role        MessageRole     `gorm:"column:role;not null" json:"role"`
  Content     string          `gorm:"column:content;type:text;not null" json:"content"`
  CreatedAt   time.Time       `gorm:"not null;default:now()" json:"created_at"`
}

func (ChatMessage) TableName() string {
  return "chat_message"
}

// PromptMessage is one {role, content} pair of the transient conversation
// context handed to the model backend. Never persisted.
type PromptMessage struct {
  Role    MessageRole `json:"role"`
  Content string      `json:"content"`
}
