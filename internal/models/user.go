package models

import "time"

// User represents a registered account.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:255;unique;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time
}
