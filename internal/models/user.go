package models

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"not null;default:''" json:"name"`
	Role      string    `gorm:"not null;default:USER" json:"role"`
	IsBanned  bool      `gorm:"not null;default:false" json:"isBanned"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
