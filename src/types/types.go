package types

import (
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

// Handler consumes one raw queue message body.
type Handler func(body string)

type GameStatus string

const (
	GAME_ACTIVE GameStatus = "active"
	GAME_ENDED  GameStatus = "ended"
)

type RequestStatus string

const (
	REQUEST_PENDING  RequestStatus = "pending"
	REQUEST_APPROVED RequestStatus = "approved"
	REQUEST_REJECTED RequestStatus = "rejected"
)

type PaymentStatus string

const (
	PAYMENT_PENDING   PaymentStatus = "pending"
	PAYMENT_COMPLETED PaymentStatus = "completed"
	PAYMENT_FAILED    PaymentStatus = "failed"
)

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"
)

// IntentResult is the typed outcome of a gateway confirmation call. The
// gateway adapter collapses whatever the provider reports into one of these
// three, with Reason populated only on failure.
type IntentResultStatus string

const (
	INTENT_CONFIRMED IntentResultStatus = "confirmed"
	INTENT_PENDING   IntentResultStatus = "pending"
	INTENT_FAILED    IntentResultStatus = "failed"
)

type IntentResult struct {
	Status IntentResultStatus
	Reason string
}

type CreateSeatSpec struct {
	SeatNumber uint    `json:"seat_number" binding:"required,seatnumber"`
	Price      int64   `json:"price"`
	Gift       *string `json:"gift,omitempty"`
	GiftImage  *string `json:"gift_image,omitempty"`
}

type CreateGameRequestBody struct {
	GameName           string           `json:"game_name" binding:"required"`
	GameImage          string           `json:"game_image,omitempty"`
	Description        string           `json:"description,omitempty"`
	AdditionalInfo     string           `json:"additional_info,omitempty"`
	UniversalGift      string           `json:"universal_gift,omitempty"`
	UniversalGiftImage string           `json:"universal_gift_image,omitempty"`
	TotalSeats         uint             `json:"total_seats" binding:"required"`
	FreeSeats          uint             `json:"free_seats"`
	PaidSeats          uint             `json:"paid_seats"`
	Seats              []CreateSeatSpec `json:"seats" binding:"required,min=1,dive"`
}

type MakeRequestBody struct {
	GameID uint `json:"game_id" binding:"required"`
}

type UpdateRequestStatusBody struct {
	Status RequestStatus `json:"status" binding:"required,oneof=approved rejected"`
}

type CreatePaymentIntentBody struct {
	GameID     uint `json:"game_id" binding:"required"`
	SeatNumber uint `json:"seat_number" binding:"required,seatnumber"`
}

type SelectSeatBody struct {
	GameID          uint   `json:"game_id" binding:"required"`
	SeatNumber      uint   `json:"seat_number" binding:"required,seatnumber"`
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

type TestBookSeatBody struct {
	GameID     uint `json:"game_id" binding:"required"`
	SeatNumber uint `json:"seat_number" binding:"required,seatnumber"`
}

type DeclareWinnersBody struct {
	GameID  uint   `json:"game_id" binding:"required"`
	SeatIDs []uint `json:"seat_ids" binding:"required,min=1"`
}

type UpdatePinnedBody struct {
	IsPinned *bool `json:"is_pinned" binding:"required"`
}

type UpdateSettingsBody struct {
	AutoAcceptRequests *bool `json:"auto_accept_requests" binding:"required"`
}

type RegisterUserBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
	Address  string `json:"address,omitempty"`
}

type LoginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=user admin"`
}

type ForgotPasswordBody struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=user admin"`
}

type VerifyOTPBody struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type ResetPasswordBody struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type UpdateProfileBody struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Name            string `json:"name,omitempty"`
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"omitempty,min=6"`
	Address         string `json:"address,omitempty"`
}

type UpdateAddressBody struct {
	Address string `json:"address"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type LeaderboardEntry struct {
	SeatID     uint       `json:"seat_id"`
	SeatNumber uint       `json:"seat_number"`
	Username   string     `json:"username,omitempty"`
	Gift       string     `json:"gift,omitempty"`
	GiftImage  string     `json:"gift_image,omitempty"`
	BookedAt   *time.Time `json:"booked_at,omitempty"`
	WonAt      *time.Time `json:"declared_winner_at,omitempty"`
}

type LeaderboardGameDetails struct {
	ID                 uint       `json:"id"`
	GameName           string     `json:"game_name"`
	GameImage          string     `json:"game_image,omitempty"`
	Description        string     `json:"description,omitempty"`
	AdditionalInfo     string     `json:"additional_info,omitempty"`
	UniversalGift      string     `json:"universal_gift,omitempty"`
	UniversalGiftImage string     `json:"universal_gift_image,omitempty"`
	TotalSeats         uint       `json:"total_seats"`
	FreeSeats          uint       `json:"free_seats"`
	PaidSeats          uint       `json:"paid_seats"`
	FreeSeatsAwarded   uint       `json:"free_seats_awarded"`
	Status             GameStatus `json:"status"`
}

type LeaderboardResponse struct {
	GameDetails LeaderboardGameDetails `json:"game_details"`
	Leaderboard []LeaderboardEntry     `json:"leaderboard"`
	Winners     []LeaderboardEntry     `json:"winners"`
}
