package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"rsb/src/db"
	"rsb/src/middlewares"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB   *gorm.DB
	Mock sqlmock.Sqlmock
}

// testAuthMiddleware stands in for the JWT middleware so handler behavior can
// be exercised without a signed token.
func testAuthMiddleware(ctx *gin.Context) {
	ctx.Set("id", uint(1))
	ctx.Set("email", "someone@example.com")
	ctx.Set("username", "someone")
	ctx.Set("role", "user")
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("seatnumber", seatNumberValidatorFunc)
	}
}

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
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

	return gormDB, mock
}

func (s *TestSuite) SetupTest() {
	d, mock := NewMockDB()
	db.NewDB(d)
	s.DB = d
	s.Mock = mock
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestGuestAuthValidation() {
	router := setupRouter()
	guestAuthRoutes(router)

	s.Run("register rejects incomplete body", func() {
		jbody := map[string]any{"email": "someone@example.com"}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.NotEmpty(s.T(), gjson.Get(string(rbytes), "error").String())
	})

	s.Run("login rejects missing role", func() {
		jbody := map[string]any{"email": "someone@example.com", "password": "secret123"}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("verify-otp rejects short code", func() {
		jbody := map[string]any{"email": "someone@example.com", "otp": "123"}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/auth/verify-otp", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestBookingValidation() {
	router := setupRouter()
	authorized := apiv1Group(router)
	authorized.Use(testAuthMiddleware)
	bookingHandlers(authorized)

	s.Run("rejects seat numbers below 100", func() {
		jbody := map[string]any{"game_id": 1, "seat_number": 99}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/test-book-seat", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("rejects select-seat without an intent id", func() {
		jbody := map[string]any{"game_id": 1, "seat_number": 101}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/select-seat", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("rejects payment-intent without a seat number", func() {
		jbody := map[string]any{"game_id": 1}
		sbody, _ := json.Marshal(&jbody)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/payment-intent", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestAuthRequired() {
	router := setupRouter()
	authorized := apiv1Group(router)
	authorized.Use(middlewares.AuthMiddleware)
	bookingHandlers(authorized)

	s.Run("rejects requests without a token", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/games/1/seats", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("rejects garbage tokens", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/games/1/seats", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("rejects a bearer header without a token part", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/games/1/seats", nil)
		req.Header.Set("Authorization", "Bearer")
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})
}

func (s *TestSuite) TestPublicGameRoutes() {
	router := setupRouter()
	publicRoutes(router)

	s.Run("lists active games", func() {
		rows := sqlmock.NewRows([]string{"id", "game_id", "game_name", "status", "total_seats"}).
			AddRow(1, "game-AAA-0001", "First Raffle", "active", 3)
		s.Mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(rows)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/games/active", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(rbytes)
		assert.Equal(s.T(), int64(1), gjson.Get(sjson, "count").Int())
		assert.Equal(s.T(), "First Raffle", gjson.Get(sjson, "data.0.game_name").String())
	})

	s.Run("latest game filters by ended status", func() {
		rows := sqlmock.NewRows([]string{"id", "game_id", "game_name", "status", "total_seats"}).
			AddRow(2, "game-AAA-0002", "Finished Raffle", "ended", 3)
		s.Mock.ExpectQuery(`SELECT (.+) FROM "games" WHERE status = (.+) ORDER BY id DESC`).
			WillReturnRows(rows)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/games/latest", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(rbytes)
		assert.Equal(s.T(), "ended", gjson.Get(sjson, "data.status").String())
		assert.Nil(s.T(), s.Mock.ExpectationsWereMet())
	})

	s.Run("latest game returns 404 when none exist", func() {
		rows := sqlmock.NewRows([]string{"id", "game_id", "game_name", "status"})
		s.Mock.ExpectQuery(`SELECT (.+) FROM "games"`).WillReturnRows(rows)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/games/latest", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 404, w.Code)
	})

	s.Run("listing failure reports a generic server error", func() {
		s.Mock.ExpectQuery(`SELECT (.+) FROM "games"`).
			WillReturnError(errors.New("pq: connection reset by peer"))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/games/active", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 500, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.Equal(s.T(), "internal server error", gjson.Get(string(rbytes), "error").String())
	})
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
