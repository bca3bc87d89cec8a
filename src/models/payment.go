package models

import (
	"rsb/src/types"

	"github.com/google/uuid"
)

// Payment is an append-only audit record of a gateway-confirmed transaction.
// It is never the source of truth for seat occupancy.
type Payment struct {
	ID     uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID uint      `json:"user_id,omitempty"`
	SeatID uint      `json:"seat_id,omitempty"`
	GameID uint      `json:"game_id,omitempty"`

	// Amount is in gateway minor units (cents).
	Amount        int64               `json:"amount"`
	Method        string              `gorm:"default:'credit_card'" json:"method,omitempty"`
	Status        types.PaymentStatus `gorm:"default:'pending'" json:"status,omitempty"`
	TransactionID string              `json:"transaction_id,omitempty"`

	MerchantAccountID string `json:"-"`
	AdminEmail        string `json:"-"`

	types.Timestamps
}
