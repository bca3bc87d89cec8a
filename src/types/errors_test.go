package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrorStatus(ErrGameNotFound))
	assert.Equal(t, http.StatusNotFound, ErrorStatus(ErrSeatNotFound))
	assert.Equal(t, http.StatusConflict, ErrorStatus(ErrSeatOccupied))
	assert.Equal(t, http.StatusConflict, ErrorStatus(ErrDuplicateBooking))
	assert.Equal(t, http.StatusConflict, ErrorStatus(ErrGameEnded))
	assert.Equal(t, http.StatusBadGateway, ErrorStatus(ErrPaymentFailed))
	assert.Equal(t, http.StatusBadRequest, ErrorStatus(ErrInvalidGameLayout))
	assert.Equal(t, http.StatusUnauthorized, ErrorStatus(ErrInvalidCredentials))
	assert.Equal(t, http.StatusInternalServerError, ErrorStatus(errors.New("boom")))
}

func TestErrorStatusWrapped(t *testing.T) {
	wrapped := fmt.Errorf("seat 101: %w", ErrAlreadyWinner)
	assert.Equal(t, http.StatusConflict, ErrorStatus(wrapped))
	assert.Equal(t, wrapped.Error(), PublicError(wrapped))
}

func TestPublicErrorHidesUnknown(t *testing.T) {
	assert.Equal(t, "internal server error", PublicError(errors.New("pq: connection refused")))
	assert.Equal(t, ErrSeatOccupied.Error(), PublicError(ErrSeatOccupied))
}
