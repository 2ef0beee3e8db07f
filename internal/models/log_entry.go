package models

import (
	"time"

	"gorm.io/datatypes"
)

type LogEntry struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	CommitmentID uint              `gorm:"not null;uniqueIndex:uidx_log_commitment_date" json:"userAsceticismId"`
	Date         time.Time         `gorm:"not null;uniqueIndex:uidx_log_commitment_date" json:"date"`
	Completed    bool              `gorm:"not null;default:false" json:"completed"`
	Value        *float64          `json:"value"`
	Notes        *string           `json:"notes"`
	Metadata     datatypes.JSONMap `gorm:"column:custom_metadata" json:"custom_metadata"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}
