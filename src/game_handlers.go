package main

import (
	"errors"
	"log"
	"net/http"
	"rsb/src/common"
	"rsb/src/db"
	"rsb/src/models"
	"rsb/src/types"
	"rsb/src/utils"

	"github.com/gin-gonic/gin"
)

func gameHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/games", func(ctx *gin.Context) {
			var body types.CreateGameRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			game, err := utils.CreateNewGame(&body, userId)
			if err != nil {
				log.Printf("Error creating game: %s\n", err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": game})
		}).
		POST("/games/:id/end", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			game, err := utils.EndGame(params.ID)
			if err != nil {
				if !errors.Is(err, types.ErrGameEnded) && !errors.Is(err, types.ErrGameNotFound) {
					log.Printf("Error ending game %d: %s\n", params.ID, err.Error())
				}
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": game})
		}).
		DELETE("/games/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.DeleteGame(params.ID); err != nil {
				if !errors.Is(err, types.ErrGameStillActive) && !errors.Is(err, types.ErrGameNotFound) {
					log.Printf("Error deleting game %d: %s\n", params.ID, err.Error())
				}
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		PATCH("/games/:id/pinned", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdatePinnedBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.
				Model(&models.Game{}).
				Where("id = ?", params.ID).
				Update("is_pinned", *body.IsPinned)
			if res.Error != nil {
				log.Printf("Error updating pinned flag for game %d: %s\n", params.ID, res.Error.Error())
				ctx.JSON(types.ErrorStatus(res.Error), gin.H{"error": types.PublicError(res.Error)})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": types.ErrGameNotFound.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"is_pinned": *body.IsPinned})
		}).
		POST("/declare-winners", func(ctx *gin.Context) {
			var body types.DeclareWinnersBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			winners, err := utils.DeclareWinners(body.GameID, body.SeatIDs)
			if err != nil {
				log.Printf("Error declaring winners for game %d: %s\n", body.GameID, err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			go func() {
				db := db.GetDb()
				var game models.Game
				if err := db.First(&game, body.GameID).Error; err != nil {
					return
				}
				for i := range winners {
					common.NotifyWinner(&winners[i], &game)
				}
			}()
			ctx.JSON(http.StatusOK, gin.H{"data": winners, "count": len(winners)})
		})
	return g
}
