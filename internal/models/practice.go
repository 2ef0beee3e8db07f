package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	TrackingBoolean  = "BOOLEAN"
	TrackingNumeric  = "NUMERIC"
	TrackingDuration = "DURATION"
)

type Practice struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Title       string            `gorm:"not null" json:"title"`
	Description *string           `json:"description"`
	Category    string            `gorm:"not null;index" json:"category"`
	Icon        *string           `json:"icon"`
	Type        string            `gorm:"column:tracking_type;not null;default:BOOLEAN" json:"type"`
	IsTemplate  bool              `gorm:"not null;default:false" json:"isTemplate"`
	CreatorID   *uint             `gorm:"index" json:"creatorId"`
	Metadata    datatypes.JSONMap `gorm:"column:custom_metadata" json:"custom_metadata"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// PracticeSummary is the display subset of a practice attached to progress rows.
type PracticeSummary struct {
	ID       uint    `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Icon     *string `json:"icon"`
	Type     string  `json:"type"`
}

func (practice Practice) Summary() PracticeSummary {
	return PracticeSummary{
		ID:       practice.ID,
		Title:    practice.Title,
		Category: practice.Category,
		Icon:     practice.Icon,
		Type:     practice.Type,
	}
}
