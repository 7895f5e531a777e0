package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// session token 有效期：一天
const sessionTTL = 24 * time.Hour

func jwtSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("supersecret")
}

// session 裡的 claims：主體 id + 顯示欄位 + 到期時間
type SessionClaims struct {
	UserID          int64  `json:"userId"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	jwt.RegisteredClaims
}

// 登入/註冊成功後簽出 session token。收欄位不收整個 user，
// utils 不依賴 models
func GenerateSessionToken(id int64, email, firstName, lastName, avatar string) (string, error) {
	claims := &SessionClaims{
		UserID:          id,
		Email:           email,
		FirstName:       firstName,
		LastName:        lastName,
		ProfileImageURL: avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// 驗簽 + 過期檢查，回整組 claims（admin 與否另外查 DB，不信快取）
func VerifySessionToken(token string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return nil, errors.New("could not parse token")
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
