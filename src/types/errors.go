package types

import (
	"errors"
	"net/http"
)

// Stable error kinds returned by the core operations. Handlers translate
// them with ErrorStatus; the message is what callers see, nothing internal
// leaks through them.
var (
	ErrGameNotFound    = errors.New("game not found")
	ErrSeatNotFound    = errors.New("seat not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrGameEnded        = errors.New("game has already ended")
	ErrGameNotEnded     = errors.New("game must be ended first")
	ErrGameStillActive  = errors.New("game is still active, cannot delete")
	ErrSeatOccupied     = errors.New("seat is already occupied")
	ErrDuplicateBooking = errors.New("you have already booked a seat in this game")
	ErrDuplicateRequest = errors.New("request already exists")
	ErrAlreadyWinner    = errors.New("seat has already been declared a winner")
	ErrSeatNotEligible  = errors.New("only occupied seats can be declared winners")

	ErrInvalidGameLayout = errors.New("invalid game layout")

	ErrPaymentFailed  = errors.New("payment failed")
	ErrPaymentPending = errors.New("payment has not completed")

	ErrInvalidCredentials = errors.New("invalid credentials")
)

var errorStatuses = map[error]int{
	ErrGameNotFound:    http.StatusNotFound,
	ErrSeatNotFound:    http.StatusNotFound,
	ErrRequestNotFound: http.StatusNotFound,
	ErrUserNotFound:    http.StatusNotFound,

	ErrGameEnded:        http.StatusConflict,
	ErrGameNotEnded:     http.StatusConflict,
	ErrGameStillActive:  http.StatusConflict,
	ErrSeatOccupied:     http.StatusConflict,
	ErrDuplicateBooking: http.StatusConflict,
	ErrDuplicateRequest: http.StatusConflict,
	ErrAlreadyWinner:    http.StatusConflict,
	ErrSeatNotEligible:  http.StatusConflict,

	ErrInvalidGameLayout: http.StatusBadRequest,

	ErrPaymentFailed:  http.StatusBadGateway,
	ErrPaymentPending: http.StatusBadGateway,

	ErrInvalidCredentials: http.StatusUnauthorized,
}

// ErrorStatus maps a core error to its HTTP status. Unknown errors come back
// as 500 so unexpected failures stay generic at the boundary.
func ErrorStatus(err error) int {
	for kind, status := range errorStatuses {
		if errors.Is(err, kind) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// PublicError returns the message safe to show callers. Anything outside the
// known kinds is replaced with a generic message and must be logged by the
// caller instead.
func PublicError(err error) string {
	for kind := range errorStatuses {
		if errors.Is(err, kind) {
			return err.Error()
		}
	}
	return "internal server error"
}
