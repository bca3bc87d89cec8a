package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"rsb/src/db"
	"rsb/src/lib"
	"rsb/src/models"
	"rsb/src/models/scopes"
	"rsb/src/types"
	"sort"
	"time"

	"gorm.io/gorm"
)

func IsProd() bool {
	return os.Getenv("API_ENV") == "production"
}

func WithSuffix(name string) string {
	suffix := os.Getenv("API_ENV")
	if suffix == "" {
		return name
	}
	return fmt.Sprintf("%s-%s", name, suffix)
}

// gameIDAllocLock keys the advisory lock serializing game id allocation.
const gameIDAllocLock = 421001

// CreateNewGame allocates the next sequential game id and creates the game
// together with its full seat set in one transaction. A row lock on the
// latest game cannot exclude a competing insert that the scan never saw, so
// creators queue on a transaction-scoped advisory lock instead.
func CreateNewGame(params *types.CreateGameRequestBody, creatorId uint) (*models.Game, error) {
	if err := ValidateGameSeats(params); err != nil {
		return nil, err
	}
	db := db.GetDb()
	var game models.Game
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", gameIDAllocLock).Error; err != nil {
			return err
		}
		var last models.Game
		err := tx.
			Model(&models.Game{}).
			Order("id DESC").
			Limit(1).
			Find(&last).
			Error
		if err != nil {
			return err
		}

		seats := make([]models.Seat, 0, len(params.Seats))
		for _, spec := range params.Seats {
			gift := spec.Gift
			if gift == nil && params.UniversalGift != "" {
				g := params.UniversalGift
				gift = &g
			}
			giftImage := spec.GiftImage
			if giftImage == nil && params.UniversalGiftImage != "" {
				g := params.UniversalGiftImage
				giftImage = &g
			}
			seats = append(seats, models.Seat{
				SeatNumber: spec.SeatNumber,
				Price:      spec.Price,
				Gift:       gift,
				GiftImage:  giftImage,
			})
		}

		game = models.Game{
			GameID:             NextGameID(last.GameID),
			GameName:           params.GameName,
			GameImage:          params.GameImage,
			Description:        params.Description,
			AdditionalInfo:     params.AdditionalInfo,
			UniversalGift:      params.UniversalGift,
			UniversalGiftImage: params.UniversalGiftImage,
			Status:             types.GAME_ACTIVE,
			TotalSeats:         params.TotalSeats,
			FreeSeats:          params.FreeSeats,
			PaidSeats:          params.PaidSeats,
			CreatedBy:          creatorId,
			Seats:              seats,
		}
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// EndGame flips an active game to ended. Ending twice is an error, not a
// silent success.
func EndGame(gameId uint) (*models.Game, error) {
	db := db.GetDb()
	var game models.Game
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&models.Game{}).
			Scopes(scopes.WithID(gameId)).
			First(&game).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrGameNotFound
			}
			return err
		}
		if game.Status == types.GAME_ENDED {
			return types.ErrGameEnded
		}
		err = tx.
			Model(&models.Game{}).
			Where("id = ? AND status = ?", gameId, types.GAME_ACTIVE).
			Update("status", types.GAME_ENDED).
			Error
		if err != nil {
			return err
		}
		game.Status = types.GAME_ENDED
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// DeleteGame removes an ended game and everything it owns: seats, requests
// and roster rows go with it.
func DeleteGame(gameId uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		var game models.Game
		err := tx.
			Model(&models.Game{}).
			Scopes(scopes.WithID(gameId)).
			First(&game).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrGameNotFound
			}
			return err
		}
		if game.Status != types.GAME_ENDED {
			return types.ErrGameStillActive
		}
		if err := tx.Model(&game).Association("ApprovedUsers").Clear(); err != nil {
			return err
		}
		if err := tx.Scopes(scopes.ForGame(gameId)).Delete(&models.Request{}).Error; err != nil {
			return err
		}
		if err := tx.Scopes(scopes.ForGame(gameId)).Delete(&models.Seat{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&game).Error; err != nil {
			return err
		}
		return nil
	})
}

const settingsCacheKey = "settings:auto_accept_requests"

// GetSettings returns the single settings row, creating it with defaults on
// first use.
func GetSettings(tx *gorm.DB) (*models.Setting, error) {
	var setting models.Setting
	err := tx.Model(&models.Setting{}).First(&setting).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		setting = models.Setting{AutoAcceptRequests: false}
		if err := tx.Create(&setting).Error; err != nil {
			return nil, err
		}
	}
	return &setting, nil
}

func UpdateSettings(autoAccept bool) (*models.Setting, error) {
	db := db.GetDb()
	var setting *models.Setting
	err := db.Transaction(func(tx *gorm.DB) error {
		s, err := GetSettings(tx)
		if err != nil {
			return err
		}
		err = tx.
			Model(&models.Setting{}).
			Where("id = ?", s.ID).
			Update("auto_accept_requests", autoAccept).
			Error
		if err != nil {
			return err
		}
		s.AutoAcceptRequests = autoAccept
		setting = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	cacheAutoAccept(autoAccept)
	return setting, nil
}

func cacheAutoAccept(enabled bool) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	val := "0"
	if enabled {
		val = "1"
	}
	if err := rd.Set(context.Background(), settingsCacheKey, val, time.Hour).Err(); err != nil {
		log.Printf("[redis] Error caching settings: %s\n", err.Error())
	}
}

// AutoAcceptEnabled reads the process-wide auto-accept flag once for the
// calling operation. The redis cache is invalidated whenever the setting is
// updated; a cache miss falls through to the settings row.
func AutoAcceptEnabled(tx *gorm.DB) bool {
	rd := lib.GetRedisClient()
	if rd != nil {
		if val, err := rd.Get(context.Background(), settingsCacheKey).Result(); err == nil {
			return val == "1"
		}
	}
	setting, err := GetSettings(tx)
	if err != nil {
		log.Printf("Error reading settings: %s\n", err.Error())
		return false
	}
	cacheAutoAccept(setting.AutoAcceptRequests)
	return setting.AutoAcceptRequests
}

// MakeRequest creates a join request for (user, game). With auto-accept on,
// the request is approved and the roster updated in the same transaction;
// the caller sends the approval notification after commit.
func MakeRequest(userId uint, gameId uint) (*models.Request, bool, error) {
	db := db.GetDb()
	var request models.Request
	autoApproved := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var game models.Game
		err := tx.
			Model(&models.Game{}).
			Scopes(scopes.WithID(gameId)).
			First(&game).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrGameNotFound
			}
			return err
		}

		var count int64
		err = tx.
			Model(&models.Request{}).
			Where("user_id = ? AND game_id = ?", userId, gameId).
			Count(&count).
			Error
		if err != nil {
			return err
		}
		if count > 0 {
			return types.ErrDuplicateRequest
		}

		request = models.Request{UserID: userId, GameID: gameId, Status: types.REQUEST_PENDING}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}

		if AutoAcceptEnabled(tx) {
			err = tx.
				Model(&models.Request{}).
				Scopes(scopes.WithID(request.ID)).
				Update("status", types.REQUEST_APPROVED).
				Error
			if err != nil {
				return err
			}
			request.Status = types.REQUEST_APPROVED
			var user models.User
			if err := tx.Model(&models.User{}).Scopes(scopes.WithID(userId)).First(&user).Error; err != nil {
				return err
			}
			if err := tx.Model(&game).Association("ApprovedUsers").Append(&user); err != nil {
				return err
			}
			autoApproved = true
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &request, autoApproved, nil
}

// UpdateRequestStatus applies an approve/reject transition. Re-applying the
// current status is a reported success with no effect. Approvals add the user
// to the game roster, rejections remove them; request and roster change in
// one transaction.
func UpdateRequestStatus(requestId uint, newStatus types.RequestStatus) (*models.Request, *models.User, *models.Game, bool, error) {
	db := db.GetDb()
	var request models.Request
	var user models.User
	var game models.Game
	changed := false
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&models.Request{}).
			Scopes(scopes.WithID(requestId)).
			First(&request).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrRequestNotFound
			}
			return err
		}
		err = tx.
			Model(&models.Game{}).
			Scopes(scopes.WithID(request.GameID)).
			First(&game).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrGameNotFound
			}
			return err
		}
		err = tx.
			Model(&models.User{}).
			Scopes(scopes.WithID(request.UserID)).
			First(&user).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrUserNotFound
			}
			return err
		}

		if request.Status == newStatus {
			return nil
		}

		err = tx.
			Model(&models.Request{}).
			Scopes(scopes.WithID(requestId)).
			Update("status", newStatus).
			Error
		if err != nil {
			return err
		}
		request.Status = newStatus

		if newStatus == types.REQUEST_APPROVED {
			if err := tx.Model(&game).Association("ApprovedUsers").Append(&user); err != nil {
				return err
			}
		} else {
			if err := tx.Model(&game).Association("ApprovedUsers").Delete(&user); err != nil {
				return err
			}
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, nil, nil, false, err
	}
	return &request, &user, &game, changed, nil
}

// OpenSeatPaymentIntent validates game and seat, then asks the gateway to
// open an intent for the seat's price. No seat state changes here; the
// returned client secret is the caller's handle for the later confirmation.
func OpenSeatPaymentIntent(gameId uint, seatNumber uint) (string, int64, error) {
	db := db.GetDb()
	var game models.Game
	err := db.
		Model(&models.Game{}).
		Scopes(scopes.WithID(gameId)).
		First(&game).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, types.ErrGameNotFound
		}
		return "", 0, err
	}
	if game.Status == types.GAME_ENDED {
		return "", 0, types.ErrGameEnded
	}
	var seat models.Seat
	err = db.
		Model(&models.Seat{}).
		Where("game_id = ? AND seat_number = ?", gameId, seatNumber).
		First(&seat).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, types.ErrSeatNotFound
		}
		return "", 0, err
	}
	if seat.IsOccupied {
		return "", 0, types.ErrSeatOccupied
	}
	pi, err := lib.CreateSeatPaymentIntent(seat.Price, seat.ID, gameId)
	if err != nil {
		log.Printf("Error creating payment intent for seat %d: %s\n", seat.ID, err.Error())
		return "", 0, fmt.Errorf("%w: could not create payment intent", types.ErrPaymentFailed)
	}
	return pi.ClientSecret, seat.Price, nil
}

// BookSeat runs the shared booking sequence for both paths. On the paid path
// the intent is confirmed at the gateway and a payment record appended before
// any seat mutation. The occupancy commit is a conditional update: of two
// concurrent bookers for the same seat exactly one flips the flag, the other
// sees zero rows affected. Filling the last seat ends the game in the same
// transaction.
func BookSeat(userId uint, gameId uint, seatNumber uint, paymentIntentId *string) (*models.Seat, types.GameStatus, error) {
	db := db.GetDb()
	var game models.Game
	err := db.
		Model(&models.Game{}).
		Scopes(scopes.WithID(gameId)).
		First(&game).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", types.ErrGameNotFound
		}
		return nil, "", err
	}
	if game.Status == types.GAME_ENDED {
		return nil, "", types.ErrGameEnded
	}

	var existing int64
	err = db.
		Model(&models.Seat{}).
		Where("game_id = ? AND user_id = ?", gameId, userId).
		Count(&existing).
		Error
	if err != nil {
		return nil, "", err
	}
	if existing > 0 {
		return nil, "", types.ErrDuplicateBooking
	}

	var seat models.Seat
	err = db.
		Model(&models.Seat{}).
		Where("game_id = ? AND seat_number = ?", gameId, seatNumber).
		First(&seat).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", types.ErrSeatNotFound
		}
		return nil, "", err
	}
	if seat.IsOccupied {
		return nil, "", types.ErrSeatOccupied
	}

	if paymentIntentId != nil {
		result, err := lib.ConfirmSeatPaymentIntent(*paymentIntentId)
		if err != nil {
			log.Printf("Error confirming payment intent %s: %s\n", *paymentIntentId, err.Error())
			return nil, "", fmt.Errorf("%w: gateway unavailable", types.ErrPaymentFailed)
		}
		switch result.Status {
		case types.INTENT_CONFIRMED:
		case types.INTENT_PENDING:
			return nil, "", types.ErrPaymentPending
		default:
			return nil, "", fmt.Errorf("%w: %s", types.ErrPaymentFailed, result.Reason)
		}
		payment := models.Payment{
			UserID:            userId,
			SeatID:            seat.ID,
			GameID:            gameId,
			Amount:            seat.Price,
			Method:            "credit_card",
			Status:            types.PAYMENT_COMPLETED,
			TransactionID:     *paymentIntentId,
			MerchantAccountID: os.Getenv("PAYMENT_MERCHANT_ID"),
			AdminEmail:        os.Getenv("ADMIN_PAYMENT_EMAIL"),
		}
		if err := db.Create(&payment).Error; err != nil {
			// The confirmed charge stands; the audit record is retried by ops.
			log.Printf("Error recording payment %s: %s\n", *paymentIntentId, err.Error())
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.
			Model(&models.Seat{}).
			Where("id = ? AND is_occupied = ?", seat.ID, false).
			Updates(map[string]any{"is_occupied": true, "user_id": userId, "booked_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return types.ErrSeatOccupied
		}

		// Re-run the one-seat-per-user check inside the transaction; a
		// concurrent booking by the same user on another seat rolls back here.
		var mine int64
		err := tx.
			Model(&models.Seat{}).
			Where("game_id = ? AND user_id = ?", gameId, userId).
			Count(&mine).
			Error
		if err != nil {
			return err
		}
		if mine > 1 {
			return types.ErrDuplicateBooking
		}

		seat.IsOccupied = true
		seat.UserID = &userId
		seat.BookedAt = &now

		var vacant int64
		err = tx.
			Model(&models.Seat{}).
			Where("game_id = ? AND is_occupied = ?", gameId, false).
			Count(&vacant).
			Error
		if err != nil {
			return err
		}
		if vacant == 0 {
			err = tx.
				Model(&models.Game{}).
				Where("id = ? AND status = ?", gameId, types.GAME_ACTIVE).
				Update("status", types.GAME_ENDED).
				Error
			if err != nil {
				return err
			}
			game.Status = types.GAME_ENDED
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return &seat, game.Status, nil
}

// DeclareWinners validates the whole batch against the game's seat set and
// commits all winner flags in one update. Any ineligible seat fails the batch
// before anything is written.
func DeclareWinners(gameId uint, seatIds []uint) ([]models.Seat, error) {
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		var game models.Game
		err := tx.
			Model(&models.Game{}).
			Scopes(scopes.WithID(gameId)).
			First(&game).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrGameNotFound
			}
			return err
		}
		if game.Status != types.GAME_ENDED {
			return types.ErrGameNotEnded
		}

		var seats []models.Seat
		if err := tx.Scopes(scopes.ForGame(gameId)).Find(&seats).Error; err != nil {
			return err
		}
		if err := ValidateWinnerBatch(seats, seatIds); err != nil {
			return err
		}

		err = tx.
			Model(&models.Seat{}).
			Scopes(scopes.WithIDs(seatIds...)).
			Updates(map[string]any{"is_winner": true, "declared_winner_at": time.Now()}).
			Error
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var winners []models.Seat
	err = db.
		Preload("User").
		Scopes(scopes.WithIDs(seatIds...)).
		Find(&winners).
		Error
	if err != nil {
		return nil, err
	}
	return winners, nil
}

// GetLeaderboard builds the public standings of a game: occupied seats by
// seat number, winners by declaration time, gifts resolved against the
// game's universal gift.
func GetLeaderboard(gameId uint) (*types.LeaderboardResponse, error) {
	db := db.GetDb()
	var game models.Game
	err := db.
		Model(&models.Game{}).
		Scopes(scopes.WithID(gameId)).
		Preload("Seats").
		Preload("Seats.User").
		First(&game).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrGameNotFound
		}
		return nil, err
	}
	if len(game.Seats) == 0 {
		return nil, types.ErrSeatNotFound
	}

	entry := func(seat models.Seat) types.LeaderboardEntry {
		e := types.LeaderboardEntry{
			SeatID:     seat.ID,
			SeatNumber: seat.SeatNumber,
			Gift:       game.UniversalGift,
			GiftImage:  game.UniversalGiftImage,
			BookedAt:   seat.BookedAt,
		}
		if seat.Gift != nil {
			e.Gift = *seat.Gift
		}
		if seat.GiftImage != nil {
			e.GiftImage = *seat.GiftImage
		}
		if seat.User != nil {
			e.Username = seat.User.Username
		}
		return e
	}

	var freeSeatsAwarded uint
	leaderboard := make([]types.LeaderboardEntry, 0, len(game.Seats))
	winners := make([]types.LeaderboardEntry, 0)
	for _, seat := range game.Seats {
		if !seat.IsOccupied || seat.UserID == nil {
			continue
		}
		if seat.Price == 0 {
			freeSeatsAwarded++
		}
		leaderboard = append(leaderboard, entry(seat))
		if seat.IsWinner {
			e := entry(seat)
			e.WonAt = seat.DeclaredWinnerAt
			winners = append(winners, e)
		}
	}
	sort.Slice(leaderboard, func(i, j int) bool {
		return leaderboard[i].SeatNumber < leaderboard[j].SeatNumber
	})
	sort.Slice(winners, func(i, j int) bool {
		if winners[i].WonAt == nil || winners[j].WonAt == nil {
			return winners[i].SeatNumber < winners[j].SeatNumber
		}
		return winners[i].WonAt.Before(*winners[j].WonAt)
	})

	response := types.LeaderboardResponse{
		GameDetails: types.LeaderboardGameDetails{
			ID:                 game.ID,
			GameName:           game.GameName,
			GameImage:          game.GameImage,
			Description:        game.Description,
			AdditionalInfo:     game.AdditionalInfo,
			UniversalGift:      game.UniversalGift,
			UniversalGiftImage: game.UniversalGiftImage,
			TotalSeats:         game.TotalSeats,
			FreeSeats:          game.FreeSeats,
			PaidSeats:          game.PaidSeats,
			FreeSeatsAwarded:   freeSeatsAwarded,
			Status:             game.Status,
		},
		Leaderboard: leaderboard,
		Winners:     winners,
	}
	return &response, nil
}

// GetGameWithDetails loads a game with seats, roster and derived pending
// requests for the admin and public detail views.
func GetGameWithDetails(gameId uint) (*models.Game, error) {
	db := db.GetDb()
	var game models.Game
	err := db.
		Model(&models.Game{}).
		Scopes(scopes.WithID(gameId)).
		Preload("Seats").
		Preload("Seats.User").
		Preload("ApprovedUsers").
		First(&game).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrGameNotFound
		}
		return nil, err
	}
	var pending []models.Request
	err = db.
		Scopes(scopes.ForGame(gameId), scopes.WithStatus(string(types.REQUEST_PENDING))).
		Preload("User").
		Find(&pending).
		Error
	if err != nil {
		return nil, err
	}
	game.PendingRequests = pending
	return &game, nil
}
