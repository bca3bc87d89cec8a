package utils

import (
	"errors"
	"rsb/src/config"
	"rsb/src/models"
	"rsb/src/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func gameSpec(total, free, paid uint, seats []types.CreateSeatSpec) *types.CreateGameRequestBody {
	return &types.CreateGameRequestBody{
		GameName:   "test game",
		TotalSeats: total,
		FreeSeats:  free,
		PaidSeats:  paid,
		Seats:      seats,
	}
}

func TestValidateGameSeats(t *testing.T) {
	t.Run("accepts a valid layout", func(t *testing.T) {
		err := ValidateGameSeats(gameSpec(3, 2, 1, []types.CreateSeatSpec{
			{SeatNumber: 101, Price: 0},
			{SeatNumber: 102, Price: 0},
			{SeatNumber: 103, Price: 500},
		}))
		assert.Nil(t, err)
	})

	t.Run("rejects seat count mismatch", func(t *testing.T) {
		err := ValidateGameSeats(gameSpec(3, 2, 1, []types.CreateSeatSpec{
			{SeatNumber: 101, Price: 0},
		}))
		assert.True(t, errors.Is(err, types.ErrInvalidGameLayout))
	})

	t.Run("rejects free plus paid exceeding total", func(t *testing.T) {
		err := ValidateGameSeats(gameSpec(2, 2, 1, []types.CreateSeatSpec{
			{SeatNumber: 101, Price: 0},
			{SeatNumber: 102, Price: 500},
		}))
		assert.NotNil(t, err)
	})

	t.Run("rejects seat numbers below 100", func(t *testing.T) {
		err := ValidateGameSeats(gameSpec(1, 1, 0, []types.CreateSeatSpec{
			{SeatNumber: 99, Price: 0},
		}))
		assert.NotNil(t, err)
	})

	t.Run("rejects duplicate seat numbers", func(t *testing.T) {
		err := ValidateGameSeats(gameSpec(2, 2, 0, []types.CreateSeatSpec{
			{SeatNumber: 101, Price: 0},
			{SeatNumber: 101, Price: 0},
		}))
		assert.NotNil(t, err)
	})

	t.Run("rejects paid seat count mismatch", func(t *testing.T) {
		err := ValidateGameSeats(gameSpec(2, 1, 1, []types.CreateSeatSpec{
			{SeatNumber: 101, Price: 0},
			{SeatNumber: 102, Price: 0},
		}))
		assert.NotNil(t, err)
	})
}

func TestNextGameID(t *testing.T) {
	assert.Equal(t, config.FirstGameID, NextGameID(""))
	assert.Equal(t, config.FirstGameID, NextGameID("garbage"))
	assert.Equal(t, config.FirstGameID, NextGameID("game-AAA-xyz"))
	assert.Equal(t, "game-AAA-0002", NextGameID("game-AAA-0001"))
	assert.Equal(t, "game-AAA-0100", NextGameID("game-AAA-0099"))
	assert.Equal(t, "game-BBB-10000", NextGameID("game-BBB-9999"))
}

func TestValidateWinnerBatch(t *testing.T) {
	occupant := uint(7)
	seats := []models.Seat{
		{ID: 1, SeatNumber: 101, IsOccupied: true, UserID: &occupant},
		{ID: 2, SeatNumber: 102, IsOccupied: true, UserID: &occupant, IsWinner: true},
		{ID: 3, SeatNumber: 103},
	}

	t.Run("accepts occupied non-winner seats", func(t *testing.T) {
		assert.Nil(t, ValidateWinnerBatch(seats, []uint{1}))
	})

	t.Run("fails batch on unknown seat id", func(t *testing.T) {
		err := ValidateWinnerBatch(seats, []uint{1, 99})
		assert.True(t, errors.Is(err, types.ErrSeatNotFound))
	})

	t.Run("fails batch on vacant seat", func(t *testing.T) {
		err := ValidateWinnerBatch(seats, []uint{1, 3})
		assert.True(t, errors.Is(err, types.ErrSeatNotEligible))
	})

	t.Run("fails batch on already declared winner", func(t *testing.T) {
		err := ValidateWinnerBatch(seats, []uint{1, 2})
		assert.True(t, errors.Is(err, types.ErrAlreadyWinner))
	})
}
