package utils

import (
	"errors"
	"os"
	"rsb/src/config"
	"rsb/src/models"
	"rsb/src/types"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func GenerateJWT(user *models.User) (string, error) {
	claims := types.Claims{
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().AddDate(0, 0, config.TokenValidityDays)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// GenerateResetToken issues the short-lived single-purpose token handed out
// after a successful OTP verification.
func GenerateResetToken(user *models.User) (string, error) {
	claims := types.Claims{
		Purpose: types.TOKEN_PURPOSE_RESET_PASSWORD,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.ResetOTPExpiryMinutes * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

func ParseResetToken(tokenString string) (uint, error) {
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		return 0, err
	}
	if !tkn.Valid || claims.Purpose != types.TOKEN_PURPOSE_RESET_PASSWORD {
		return 0, errors.New("invalid token purpose")
	}
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, err
	}
	return uint(uid), nil
}
