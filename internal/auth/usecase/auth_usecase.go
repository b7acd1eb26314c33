package usecase

import (
	"errors"

	"pulseboard-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// AuthUsecase validates dashboard-issued access tokens. Token issuance lives
// in the dashboard's account service; this backend only verifies the shared
// HS256 secret and extracts the subject.
type AuthUsecase interface {
	ValidateToken(tokenString string) (string, error)
}

type authUsecase struct {
	config *config.Config
}

func NewAuthUsecase(cfg *config.Config) AuthUsecase {
	return &authUsecase{config: cfg}
}

func (u *authUsecase) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("invalid token claims")
	}

	return userID, nil
}
