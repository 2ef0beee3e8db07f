package models

import (
	"time"

	"gorm.io/datatypes"
)

type PracticePackage struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Title       string            `gorm:"not null" json:"title"`
	Description *string           `json:"description"`
	CreatorID   uint              `gorm:"not null" json:"creatorId"`
	IsPublished bool              `gorm:"not null;default:false" json:"isPublished"`
	Metadata    datatypes.JSONMap `gorm:"column:custom_metadata" json:"custom_metadata"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	Items       []PackageItem     `gorm:"foreignKey:PackageID" json:"items"`
}

type PackageItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	PackageID  uint     `gorm:"not null;index" json:"-"`
	PracticeID uint     `gorm:"not null" json:"asceticismId"`
	SortOrder  int      `gorm:"not null;default:0" json:"order"`
	Notes      *string  `json:"notes"`
	Practice   Practice `gorm:"foreignKey:PracticeID" json:"asceticism"`
}
