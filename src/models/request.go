package models

import "rsb/src/types"

// Request is a user's ask to join a game. At most one exists per (user, game)
// pair. Approval and rejection both reverse; the roster in game_approvals
// follows every transition.
type Request struct {
	ID     uint                `gorm:"primarykey" json:"id"`
	UserID uint                `gorm:"uniqueIndex:idx_user_game_request" json:"user_id,omitempty"`
	GameID uint                `gorm:"uniqueIndex:idx_user_game_request" json:"game_id,omitempty"`
	Status types.RequestStatus `gorm:"default:'pending'" json:"status,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Game Game `gorm:"foreignKey:GameID" json:"game,omitempty"`

	types.Timestamps
}
