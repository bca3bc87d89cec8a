package models

import "rsb/src/types"

type Game struct {
	ID uint `gorm:"primarykey" json:"id"`
	// GameID is the human-readable sequential code (game-XXX-NNNN), distinct
	// from the primary key.
	GameID             string           `gorm:"uniqueIndex" json:"game_id,omitempty"`
	GameName           string           `json:"game_name,omitempty"`
	GameImage          string           `json:"game_image,omitempty"`
	Description        string           `json:"description,omitempty"`
	AdditionalInfo     string           `json:"additional_info,omitempty"`
	UniversalGift      string           `json:"universal_gift,omitempty"`
	UniversalGiftImage string           `json:"universal_gift_image,omitempty"`
	Status             types.GameStatus `gorm:"default:'active'" json:"status,omitempty"`
	TotalSeats         uint             `json:"total_seats,omitempty"`
	FreeSeats          uint             `json:"free_seats"`
	PaidSeats          uint             `json:"paid_seats"`
	IsPinned           bool             `gorm:"default:false" json:"is_pinned"`
	CreatedBy          uint             `json:"created_by,omitempty"`

	Creator       User      `gorm:"foreignKey:CreatedBy;references:ID" json:"-"`
	Seats         []Seat    `gorm:"foreignKey:GameID;references:ID" json:"seats,omitempty"`
	ApprovedUsers []*User   `gorm:"many2many:game_approvals;" json:"approved_users,omitempty"`
	Requests      []Request `gorm:"foreignKey:GameID;references:ID" json:"-"`

	// PendingRequests is derived from the requests table, not stored.
	PendingRequests []Request `gorm:"-" json:"pending_requests,omitempty"`

	types.Timestamps
}
