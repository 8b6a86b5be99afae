package model

import "time"

// User represents an authenticated user in the system.
type User struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name" gorm:"size:50;not null"`
	Email            string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash     string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	XP               int       `json:"xp" gorm:"not null;default:0"`
	LevelID          *uint     `json:"level_id" gorm:"index"`
	RefreshTokenHash *string   `json:"-" gorm:"size:64"` // SHA-256 hex of the active refresh token, nil when revoked
	IsAdmin          bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"created_at"`

	// Relations
	Level *Level `json:"level,omitempty" gorm:"foreignKey:LevelID"`
	Tasks []Task `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
