package main

import (
	"log"

	"rsb/src/controllers"

	"github.com/gin-gonic/gin"
)

func accountHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		PUT("/profile", func(ctx *gin.Context) {
			user, status, err := controllers.UpdateProfile(ctx)
			if err != nil {
				log.Printf("Error on UpdateProfile: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"data": user})
		}).
		PUT("/address", func(ctx *gin.Context) {
			status, err := controllers.UpdateAddress(ctx)
			if err != nil {
				log.Printf("Error on UpdateAddress: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"message": "address updated"})
		})
	return g
}
