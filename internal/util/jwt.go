package util

import (
	"fmt"
	"skillswap/internal/model"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

type Claims struct {
	UserID    uint           `json:"user_id"`
	UserType  model.UserType `json:"user_type"`
	Username  string         `json:"username"`
	TokenType string         `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func GenerateJWT(user *model.User, tokenType, secret string, expiration time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:    user.ID,
		UserType:  user.UserType,
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateTokenPair(user *model.User, secret string, accessTTL, refreshTTL time.Duration) (*TokenPair, error) {
	access, err := GenerateJWT(user, AccessToken, secret, accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := GenerateJWT(user, RefreshToken, secret, refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseJWT validates the signature, expiry and that the token is of tokenType.
func ParseJWT(tokenString, tokenType, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func GetUserFromContext(c *gin.Context) *Claims {
	user, exists := c.Get("user")
	if !exists {
		return nil
	}
	claims, ok := user.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// CurrentUserID returns 0 when the request is unauthenticated.
func CurrentUserID(c *gin.Context) uint {
	if claims := GetUserFromContext(c); claims != nil {
		return claims.UserID
	}
	return 0
}
