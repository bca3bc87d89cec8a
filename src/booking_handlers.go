package main

import (
	"errors"
	"log"
	"net/http"
	"rsb/src/db"
	"rsb/src/models"
	"rsb/src/types"
	"rsb/src/utils"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/games/:id/seats", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var seats []models.Seat
			db := db.GetDb()
			err := db.
				Model(&models.Seat{}).
				Where("game_id = ?", params.ID).
				Order("seat_number ASC").
				Find(&seats).
				Error
			if err != nil {
				log.Printf("Error listing seats for game %d: %s\n", params.ID, err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			if len(seats) == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": types.ErrGameNotFound.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": seats, "count": len(seats)})
		}).
		POST("/payment-intent", func(ctx *gin.Context) {
			var body types.CreatePaymentIntentBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			clientSecret, amount, err := utils.OpenSeatPaymentIntent(body.GameID, body.SeatNumber)
			if err != nil {
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"client_secret": clientSecret, "amount": amount})
		}).
		POST("/select-seat", func(ctx *gin.Context) {
			var body types.SelectSeatBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			seat, gameStatus, err := utils.BookSeat(userId, body.GameID, body.SeatNumber, &body.PaymentIntentID)
			if err != nil {
				log.Printf("Error booking seat %d in game %d for user %d: %s\n", body.SeatNumber, body.GameID, userId, err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": seat, "game_status": gameStatus})
		}).
		POST("/test-book-seat", func(ctx *gin.Context) {
			var body types.TestBookSeatBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			seat, gameStatus, err := utils.BookSeat(userId, body.GameID, body.SeatNumber, nil)
			if err != nil {
				if !errors.Is(err, types.ErrSeatOccupied) && !errors.Is(err, types.ErrDuplicateBooking) {
					log.Printf("Error booking seat %d in game %d for user %d: %s\n", body.SeatNumber, body.GameID, userId, err.Error())
				}
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": seat, "game_status": gameStatus})
		})
	return g
}
