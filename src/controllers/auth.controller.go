package controllers

import (
	"errors"
	"log"
	"net/http"
	"rsb/src/common"
	"rsb/src/config"
	"rsb/src/db"
	"rsb/src/models"
	"rsb/src/types"
	"rsb/src/utils"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AuthRegister(ctx *gin.Context) (*models.User, int, error) {
	var body types.RegisterUserBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	role := body.Role
	if role == "" {
		role = types.ROLE_USER
	}
	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	db := db.GetDb()
	var count int64
	err = db.
		Model(&models.User{}).
		Where("email = ? OR username = ?", body.Email, body.Username).
		Count(&count).
		Error
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	if count > 0 {
		return nil, http.StatusConflict, errors.New("an account with this email or username already exists")
	}
	user := models.User{
		Username:     body.Username,
		Email:        body.Email,
		Name:         body.Name,
		Address:      body.Address,
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("Error creating user: %s\n", err.Error())
		return nil, http.StatusBadRequest, err
	}
	return &user, http.StatusCreated, nil
}

// AuthLogin checks credentials within the requested role. A user logging in
// through the wrong portal gets the same error as a wrong password.
func AuthLogin(ctx *gin.Context) (*string, *models.User, int, error) {
	var body types.LoginBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, nil, http.StatusBadRequest, err
	}
	db := db.GetDb()
	var user models.User
	err := db.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email, Role: body.Role}).
		First(&user).
		Error
	if err != nil {
		return nil, nil, types.ErrorStatus(types.ErrInvalidCredentials), types.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(body.Password, user.PasswordHash) {
		return nil, nil, types.ErrorStatus(types.ErrInvalidCredentials), types.ErrInvalidCredentials
	}
	token, err := utils.GenerateJWT(&user)
	if err != nil {
		log.Printf("Error generating token for user [%d]: %s\n", user.ID, err.Error())
		return nil, nil, http.StatusInternalServerError, err
	}
	return &token, &user, http.StatusOK, nil
}

// AuthForgotPassword issues a fresh OTP and mails it. The response is the
// same whether or not the account exists.
func AuthForgotPassword(ctx *gin.Context) (int, error) {
	var body types.ForgotPasswordBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return http.StatusBadRequest, err
	}
	db := db.GetDb()
	var user models.User
	err := db.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email, Role: body.Role}).
		First(&user).
		Error
	if err != nil {
		log.Printf("Password reset requested for unknown account %s\n", body.Email)
		return http.StatusOK, nil
	}
	otp, err := utils.GenerateOTP()
	if err != nil {
		return http.StatusInternalServerError, err
	}
	otpHash, err := utils.HashPassword(otp)
	if err != nil {
		return http.StatusInternalServerError, err
	}
	expiry := time.Now().Add(config.ResetOTPExpiryMinutes * time.Minute)
	err = db.
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"reset_password_otp":        otpHash,
			"reset_password_otp_expiry": expiry,
		}).
		Error
	if err != nil {
		return http.StatusInternalServerError, err
	}
	if err := common.SendPasswordResetOTP(&user, otp); err != nil {
		log.Printf("Error sending OTP email to user [%d]: %s\n", user.ID, err.Error())
	}
	return http.StatusOK, nil
}

// AuthVerifyOTP trades a valid code for a short-lived reset token. The stored
// OTP is cleared on success so each code is single use.
func AuthVerifyOTP(ctx *gin.Context) (*string, int, error) {
	var body types.VerifyOTPBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	db := db.GetDb()
	var user models.User
	err := db.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		First(&user).
		Error
	if err != nil {
		return nil, types.ErrorStatus(types.ErrInvalidCredentials), types.ErrInvalidCredentials
	}
	if user.ResetPasswordOTP == nil || user.ResetPasswordOTPExpiry == nil {
		return nil, http.StatusBadRequest, errors.New("no password reset in progress")
	}
	if time.Now().After(*user.ResetPasswordOTPExpiry) {
		return nil, http.StatusBadRequest, errors.New("the code has expired, please request a new one")
	}
	if !utils.CheckPasswordHash(body.OTP, *user.ResetPasswordOTP) {
		return nil, types.ErrorStatus(types.ErrInvalidCredentials), types.ErrInvalidCredentials
	}
	err = db.
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"reset_password_otp":        nil,
			"reset_password_otp_expiry": nil,
		}).
		Error
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	token, err := utils.GenerateResetToken(&user)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &token, http.StatusOK, nil
}

// AuthResetPassword consumes the reset token handed out by AuthVerifyOTP.
func AuthResetPassword(ctx *gin.Context) (int, error) {
	var body types.ResetPasswordBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return http.StatusBadRequest, err
	}
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		return http.StatusUnauthorized, errors.New("missing reset token")
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(bearerToken, "Bearer"))
	uid, err := utils.ParseResetToken(tokenString)
	if err != nil {
		return http.StatusUnauthorized, err
	}
	hash, err := utils.HashPassword(body.NewPassword)
	if err != nil {
		return http.StatusInternalServerError, err
	}
	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Model(&models.User{}).Where("id = ?", uid).First(&user).Error; err != nil {
			return types.ErrUserNotFound
		}
		return tx.
			Model(&models.User{}).
			Where("id = ?", uid).
			Updates(map[string]any{
				"password_hash":             hash,
				"reset_password_otp":        nil,
				"reset_password_otp_expiry": nil,
			}).
			Error
	})
	if err != nil {
		return types.ErrorStatus(err), err
	}
	return http.StatusOK, nil
}

// UpdateProfile rewrites the account's identity fields. The current password
// gates every change; a new password is optional.
func UpdateProfile(ctx *gin.Context) (*models.User, int, error) {
	var body types.UpdateProfileBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	userId := ctx.GetUint("id")
	db := db.GetDb()
	var user models.User
	err := db.
		Model(&models.User{}).
		Where("id = ?", userId).
		First(&user).
		Error
	if err != nil {
		return nil, types.ErrorStatus(types.ErrUserNotFound), types.ErrUserNotFound
	}
	if !utils.CheckPasswordHash(body.CurrentPassword, user.PasswordHash) {
		return nil, types.ErrorStatus(types.ErrInvalidCredentials), types.ErrInvalidCredentials
	}

	var taken int64
	err = db.
		Model(&models.User{}).
		Where("(email = ? OR username = ?) AND id <> ?", body.Email, body.Username, userId).
		Count(&taken).
		Error
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if taken > 0 {
		return nil, http.StatusConflict, errors.New("email or username is already in use")
	}

	updates := map[string]any{
		"username": body.Username,
		"email":    body.Email,
	}
	if body.Name != "" {
		updates["name"] = body.Name
	}
	if body.Address != "" {
		updates["address"] = body.Address
	}
	if body.NewPassword != "" {
		hash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		updates["password_hash"] = hash
	}
	err = db.
		Model(&models.User{}).
		Where("id = ?", userId).
		Updates(updates).
		Error
	if err != nil {
		log.Printf("Error updating profile for user [%d]: %s\n", userId, err.Error())
		return nil, http.StatusBadRequest, err
	}
	if err := db.Model(&models.User{}).Where("id = ?", userId).First(&user).Error; err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &user, http.StatusOK, nil
}

func UpdateAddress(ctx *gin.Context) (int, error) {
	var body types.UpdateAddressBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return http.StatusBadRequest, err
	}
	userId := ctx.GetUint("id")
	db := db.GetDb()
	err := db.
		Model(&models.User{}).
		Where("id = ?", userId).
		Update("address", body.Address).
		Error
	if err != nil {
		return http.StatusBadRequest, err
	}
	return http.StatusOK, nil
}
