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

func requestHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/requests", func(ctx *gin.Context) {
			var body types.MakeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			request, autoApproved, err := utils.MakeRequest(userId, body.GameID)
			if err != nil {
				if !errors.Is(err, types.ErrDuplicateRequest) {
					log.Printf("Error creating request for user %d on game %d: %s\n", userId, body.GameID, err.Error())
				}
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			if autoApproved {
				go func() {
					db := db.GetDb()
					var user models.User
					var game models.Game
					if err := db.First(&user, userId).Error; err != nil {
						return
					}
					if err := db.First(&game, body.GameID).Error; err != nil {
						return
					}
					common.NotifyRequestApproved(&user, &game)
				}()
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": request})
		}).
		GET("/requests", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var requests []models.Request
			db := db.GetDb()
			err := db.
				Model(&models.Request{}).
				Where("user_id = ?", userId).
				Preload("Game").
				Order("created_at DESC").
				Find(&requests).
				Error
			if err != nil {
				log.Printf("Error listing requests for user %d: %s\n", userId, err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": requests, "count": len(requests)})
		})
	return g
}

func adminRequestHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/requests/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateRequestStatusBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			request, user, game, changed, err := utils.UpdateRequestStatus(params.ID, body.Status)
			if err != nil {
				log.Printf("Error updating request %d: %s\n", params.ID, err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			if changed && body.Status == types.REQUEST_APPROVED {
				go common.NotifyRequestApproved(user, game)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": request})
		}).
		GET("/games/:id/requests", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var requests []models.Request
			db := db.GetDb()
			err := db.
				Model(&models.Request{}).
				Where("game_id = ? AND status = ?", params.ID, types.REQUEST_PENDING).
				Preload("User").
				Order("created_at ASC").
				Find(&requests).
				Error
			if err != nil {
				log.Printf("Error listing requests for game %d: %s\n", params.ID, err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": requests, "count": len(requests)})
		})
	return g
}
