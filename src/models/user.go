package models

import (
	"rsb/src/types"
	"time"
)

type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Username     string `gorm:"uniqueIndex" json:"username,omitempty"`
	Email        string `gorm:"uniqueIndex" json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	Address      string `json:"address,omitempty"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"default:'user'" json:"role,omitempty"`

	// One-time password-reset code, stored hashed, time-boxed.
	ResetPasswordOTP       *string    `json:"-"`
	ResetPasswordOTPExpiry *time.Time `json:"-"`

	Requests []Request `gorm:"foreignKey:UserID" json:"requests,omitempty"`
	Seats    []Seat    `gorm:"foreignKey:UserID" json:"seats,omitempty"`

	types.Timestamps
}
