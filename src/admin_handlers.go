package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"rsb/src/db"
	"rsb/src/lib/aws"
	"rsb/src/models"
	"rsb/src/types"
	"rsb/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/users", func(ctx *gin.Context) {
			var users []models.User
			db := db.GetDb()
			err := db.
				Model(&models.User{}).
				Order("created_at DESC").
				Find(&users).
				Error
			if err != nil {
				log.Printf("Error listing users: %s\n", err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": users, "count": len(users)})
		}).
		GET("/settings", func(ctx *gin.Context) {
			db := db.GetDb()
			setting, err := utils.GetSettings(db)
			if err != nil {
				log.Printf("Error reading settings: %s\n", err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": setting})
		}).
		PUT("/settings", func(ctx *gin.Context) {
			var body types.UpdateSettingsBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			setting, err := utils.UpdateSettings(*body.AutoAcceptRequests)
			if err != nil {
				log.Printf("Error updating settings: %s\n", err.Error())
				ctx.JSON(types.ErrorStatus(err), gin.H{"error": types.PublicError(err)})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": setting})
		}).
		POST("/upload-image", func(ctx *gin.Context) {
			file, err := ctx.FormFile("file")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			contentType := file.Header.Get("Content-Type")
			tempDir := os.Getenv("TEMP_DIR")
			if tempDir == "" {
				tempDir = os.TempDir()
			}
			name := fmt.Sprintf("%s%s", uuid.NewString(), path.Ext(file.Filename))
			dst := path.Join(tempDir, name)
			if err := ctx.SaveUploadedFile(file, dst); err != nil {
				log.Printf("Error saving uploaded file: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not save uploaded file"})
				return
			}
			defer os.Remove(dst)
			url, err := aws.S3UploadAsset(name, dst, contentType)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "could not upload image"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"url": url})
		})
	return g
}
