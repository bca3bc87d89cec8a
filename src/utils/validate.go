package utils

import (
	"fmt"
	"rsb/src/config"
	"rsb/src/models"
	"rsb/src/types"
	"strconv"
	"strings"
)

// ValidateGameSeats checks the seat layout of a create-game request before
// anything is written. Callers treat any error as a bad request.
func ValidateGameSeats(params *types.CreateGameRequestBody) error {
	if uint(len(params.Seats)) != params.TotalSeats {
		return fmt.Errorf("%w: please provide the correct number of seats", types.ErrInvalidGameLayout)
	}
	if params.TotalSeats < params.FreeSeats+params.PaidSeats {
		return fmt.Errorf("%w: total seats should be greater than free and paid seats", types.ErrInvalidGameLayout)
	}
	var paidSeatsInArray uint
	seen := make(map[uint]bool, len(params.Seats))
	for _, seat := range params.Seats {
		if seat.SeatNumber < 100 || seat.Price < 0 {
			return fmt.Errorf("%w: please provide valid seat number and price", types.ErrInvalidGameLayout)
		}
		if seen[seat.SeatNumber] {
			return fmt.Errorf("%w: duplicate seat number %d", types.ErrInvalidGameLayout, seat.SeatNumber)
		}
		seen[seat.SeatNumber] = true
		if seat.Price > 0 {
			paidSeatsInArray++
		}
	}
	if paidSeatsInArray != params.PaidSeats {
		return fmt.Errorf("%w: number of paid seats (%d) does not match seats with prices (%d)", types.ErrInvalidGameLayout, params.PaidSeats, paidSeatsInArray)
	}
	return nil
}

// NextGameID derives the successor of the most recent human-readable game id.
// Malformed or missing input restarts the sequence.
func NextGameID(last string) string {
	if last == "" {
		return config.FirstGameID
	}
	parts := strings.Split(last, "-")
	if len(parts) != 3 {
		return config.FirstGameID
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return config.FirstGameID
	}
	return fmt.Sprintf("%s-%s-%04d", parts[0], parts[1], n+1)
}

// ValidateWinnerBatch checks every requested seat against the game's seat set.
// The first failing seat fails the whole batch; nothing is mutated here.
func ValidateWinnerBatch(seats []models.Seat, seatIds []uint) error {
	byId := make(map[uint]*models.Seat, len(seats))
	for i := range seats {
		byId[seats[i].ID] = &seats[i]
	}
	for _, id := range seatIds {
		seat, ok := byId[id]
		if !ok {
			return fmt.Errorf("seat %d: %w", id, types.ErrSeatNotFound)
		}
		if !seat.IsOccupied || seat.UserID == nil {
			return fmt.Errorf("seat %d: %w", seat.SeatNumber, types.ErrSeatNotEligible)
		}
		if seat.IsWinner {
			return fmt.Errorf("seat %d: %w", seat.SeatNumber, types.ErrAlreadyWinner)
		}
	}
	return nil
}
