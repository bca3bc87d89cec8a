package models

import (
	"rsb/src/types"
	"time"
)

type Seat struct {
	ID         uint  `gorm:"primarykey" json:"id"`
	GameID     uint  `gorm:"uniqueIndex:idx_game_seat_number" json:"game_id,omitempty"`
	SeatNumber uint  `gorm:"uniqueIndex:idx_game_seat_number" json:"seat_number"`
	Price      int64 `json:"price"`

	// Gift falls back to the game's universal gift; the fallback is resolved
	// at creation so a seat row is self-contained.
	Gift      *string `json:"gift,omitempty"`
	GiftImage *string `json:"gift_image,omitempty"`

	IsOccupied bool       `gorm:"default:false" json:"is_occupied"`
	UserID     *uint      `json:"user_id,omitempty"`
	BookedAt   *time.Time `json:"booked_at,omitempty"`

	IsWinner         bool       `gorm:"default:false" json:"is_winner"`
	DeclaredWinnerAt *time.Time `json:"declared_winner_at,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	types.Timestamps
}
