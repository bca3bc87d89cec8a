package utils

import (
	"errors"
	"log"
	"rsb/src/config"
	"rsb/src/db"
	"rsb/src/types"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: mockDb,
	}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	db.NewDB(gormDB)
	return mock
}

func gameRow(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "game_id", "game_name", "status", "total_seats"}).
		AddRow(1, "game-AAA-0001", "Test Raffle", status, 3)
}

// Game id allocation runs under an advisory lock so two concurrent creators
// cannot both read the same latest id. The first game in an empty table gets
// the initial id.
func TestCreateNewGameAllocatesFirstID(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id"}))
	mock.ExpectQuery(`INSERT INTO "games"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	params := &types.CreateGameRequestBody{
		GameName:   "Test Raffle",
		TotalSeats: 2,
		FreeSeats:  2,
		Seats: []types.CreateSeatSpec{
			{SeatNumber: 101},
			{SeatNumber: 102},
		},
	}
	game, err := CreateNewGame(params, 1)
	assert.Nil(t, err)
	assert.Equal(t, config.FirstGameID, game.GameID)
	assert.Equal(t, types.GAME_ACTIVE, game.Status)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestBookSeatGameEnded(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRow("ended"))

	_, _, err := BookSeat(1, 1, 101, nil)
	assert.True(t, errors.Is(err, types.ErrGameEnded))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestBookSeatDuplicateBooking(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRow("active"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, _, err := BookSeat(1, 1, 101, nil)
	assert.True(t, errors.Is(err, types.ErrDuplicateBooking))
	assert.Nil(t, mock.ExpectationsWereMet())
}

// The two booking paths share one sequence; without an intent the gateway
// step is simply skipped, whatever the seat's price.
func TestBookSeatDirectPathBooksPaidSeat(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRow("active"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT (.+) FROM "seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "seat_number", "price", "is_occupied"}).
			AddRow(5, 1, 101, 500, false))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "seats"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectCommit()

	seat, gameStatus, err := BookSeat(1, 1, 101, nil)
	assert.Nil(t, err)
	assert.True(t, seat.IsOccupied)
	assert.Equal(t, types.GAME_ACTIVE, gameStatus)
	assert.Nil(t, mock.ExpectationsWereMet())
}

// Filling the last vacant seat flips the game to ended inside the same
// transaction as the occupancy commit.
func TestBookSeatEndsGameOnLastSeat(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRow("active"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT (.+) FROM "seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "seat_number", "price", "is_occupied"}).
			AddRow(5, 1, 101, 0, false))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "seats"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "games"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	seat, gameStatus, err := BookSeat(1, 1, 101, nil)
	assert.Nil(t, err)
	assert.True(t, seat.IsOccupied)
	assert.Equal(t, types.GAME_ENDED, gameStatus)
	assert.Nil(t, mock.ExpectationsWereMet())
}

// Re-applying the current status reports success and writes nothing; the
// absence of an expected UPDATE is the assertion.
func TestUpdateRequestStatusSameStatusNoOp(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "game_id", "status"}).
			AddRow(1, 2, 1, "approved"))
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRow("active"))
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role"}).
			AddRow(2, "someone", "someone@example.com", "user"))
	mock.ExpectCommit()

	request, _, _, changed, err := UpdateRequestStatus(1, types.REQUEST_APPROVED)
	assert.Nil(t, err)
	assert.False(t, changed)
	assert.Equal(t, types.REQUEST_APPROVED, request.Status)
	assert.Nil(t, mock.ExpectationsWereMet())
}

// A zero-rows occupancy update means another booker won the seat between the
// availability check and the commit. The transaction must roll back with
// SeatOccupied and no game mutation.
func TestBookSeatLosesOccupancyRace(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRow("active"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT (.+) FROM "seats"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "game_id", "seat_number", "price", "is_occupied"}).
			AddRow(5, 1, 101, 0, false))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "seats"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, _, err := BookSeat(1, 1, 101, nil)
	assert.True(t, errors.Is(err, types.ErrSeatOccupied))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestEndGameAlreadyEnded(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRow("ended"))
	mock.ExpectRollback()

	_, err := EndGame(1)
	assert.True(t, errors.Is(err, types.ErrGameEnded))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestDeleteGameStillActive(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRow("active"))
	mock.ExpectRollback()

	err := DeleteGame(1)
	assert.True(t, errors.Is(err, types.ErrGameStillActive))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestDeclareWinnersGameNotEnded(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(gameRow("active"))
	mock.ExpectRollback()

	_, err := DeclareWinners(1, []uint{5})
	assert.True(t, errors.Is(err, types.ErrGameNotEnded))
	assert.Nil(t, mock.ExpectationsWereMet())
}
