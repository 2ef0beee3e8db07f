package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusActive   = "ACTIVE"
	StatusArchived = "ARCHIVED"
)

// Commitment is a user's tracked relationship to one practice. At most one
// ACTIVE row may exist per (UserID, PracticeID); archived rows are history.
type Commitment struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"not null;index" json:"userId"`
	PracticeID  uint              `gorm:"not null;index" json:"asceticismId"`
	Status      string            `gorm:"not null;default:ACTIVE" json:"status"`
	StartDate   time.Time         `gorm:"not null" json:"startDate"`
	EndDate     *time.Time        `json:"endDate"`
	TargetValue *float64          `json:"targetValue"`
	Metadata    datatypes.JSONMap `gorm:"column:custom_metadata" json:"custom_metadata"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func IsValidCommitmentStatus(status string) bool {
	return status == StatusActive || status == StatusArchived
}
