package types

import (
  "time"

  "github.com/google/uuid"
)

type Portfolio struct {
  ID              uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID          uuid.UUID     `gorm:"index;not null" json:"user_id"`
  Name            string        `gorm:"index;not null" json:"name"`
  Description     string        `gorm:"type:text" json:"description,omitempty"`
  TotalValue      float64       `gorm:"default:0" json:"total_value"`
  CashBalance     float64       `gorm:"default:0" json:"cash_balance"`
  RiskTolerance   string        `gorm:"size:20;default:'moderate'" json:"risk_tolerance"`
  InvestmentGoal  string        `json:"investment_goal,omitempty"`
  TargetReturn    *float64      `json:"target_return,omitempty"`
  MaxDrawdown     *float64      `json:"max_drawdown,omitempty"`
  CreatedAt       time.Time     `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt       time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (Portfolio) TableName() string {
  return "portfolio"
}
