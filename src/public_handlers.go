package main

import (
	"errors"
	"log"
	"net/http"
	"rsb/src/controllers"
	"rsb/src/db"
	"rsb/src/models"
	"rsb/src/types"
	"rsb/src/utils"

	"github.com/gin-gonic/gin"
)

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	guest := apiv1.Group("/auth")
	guest.
		POST("/register", func(ctx *gin.Context) {
			user, status, err := controllers.AuthRegister(ctx)
			if err != nil {
				log.Printf("Error on AuthRegister: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"data": user})
		}).
		POST("/login", func(ctx *gin.Context) {
			token, user, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				log.Printf("Error on AuthLogin: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"token": token, "user": user})
		}).
		POST("/forgot-password", func(ctx *gin.Context) {
			status, err := controllers.AuthForgotPassword(ctx)
			if err != nil {
				log.Printf("Error on AuthForgotPassword: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"message": "if the account exists, a reset code has been sent"})
		}).
		POST("/verify-otp", func(ctx *gin.Context) {
			token, status, err := controllers.AuthVerifyOTP(ctx)
			if err != nil {
				log.Printf("Error on AuthVerifyOTP: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"reset_token": token})
		}).
		POST("/reset-password", func(ctx *gin.Context) {
			status, err := controllers.AuthResetPassword(ctx)
			if err != nil {
				log.Printf("Error on AuthResetPassword: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(status, gin.H{"message": "password has been reset"})
		})
	return guest
}

func publicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		GET("/games/active", func(ctx *gin.Context) {
			var games []models.Game
			db := db.GetDb()
			err := db.
				Model(&models.Game{}).
				Where("status = ?", types.GAME_ACTIVE).
				Order("is_pinned DESC, created_at DESC").
				Find(&games).
				Error
			if err != nil {
				log.Printf("Error listing active games: %s\n", err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": games, "count": len(games)})
		}).
		GET("/games/ended", func(ctx *gin.Context) {
			var games []models.Game
			db := db.GetDb()
			err := db.
				Model(&models.Game{}).
				Where("status = ?", types.GAME_ENDED).
				Order("updated_at DESC").
				Find(&games).
				Error
			if err != nil {
				log.Printf("Error listing ended games: %s\n", err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": games, "count": len(games)})
		}).
		GET("/games/latest", func(ctx *gin.Context) {
			var game models.Game
			db := db.GetDb()
			err := db.
				Model(&models.Game{}).
				Where("status = ?", types.GAME_ENDED).
				Order("id DESC").
				First(&game).
				Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": types.ErrGameNotFound.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": game})
		}).
		GET("/games/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			game, err := utils.GetGameWithDetails(params.ID)
			if err != nil {
				if !errors.Is(err, types.ErrGameNotFound) {
					log.Printf("Error loading game %d: %s\n", params.ID, err.Error())
				}
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": game})
		}).
		GET("/games/:id/leaderboard", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			leaderboard, err := utils.GetLeaderboard(params.ID)
			if err != nil {
				if !errors.Is(err, types.ErrGameNotFound) && !errors.Is(err, types.ErrSeatNotFound) {
					log.Printf("Error building leaderboard for game %d: %s\n", params.ID, err.Error())
				}
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": leaderboard})
		})
	return apiv1
}
