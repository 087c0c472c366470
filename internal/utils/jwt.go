package utils

import (
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	jwtSecret   = []byte("voteroom_dev_secret") // 由 SetJWTConfig 以配置覆蓋
	expireHours = 24
)

// SetJWTConfig 以配置檔中的值覆蓋預設的密鑰與有效期
func SetJWTConfig(secret string, hours int) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if hours > 0 {
		expireHours = hours
	}
}

type Claims struct {
	AdminID  uint   `json:"admin_id"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// GenerateToken 為管理員生成一個新的 JWT token
func GenerateToken(adminID uint, username string) (string, error) {
	nowTime := time.Now()
	expireTime := nowTime.Add(time.Duration(expireHours) * time.Hour)

	claims := Claims{
		AdminID:  adminID,
		Username: username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expireTime.Unix(),
			IssuedAt:  nowTime.Unix(),
		},
	}

	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenClaims.SignedString(jwtSecret)
}

// ParseToken 解析和驗證 JWT token
func ParseToken(token string) (*Claims, error) {
	tokenClaims, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if tokenClaims != nil {
		if claims, ok := tokenClaims.Claims.(*Claims); ok && tokenClaims.Valid {
			return claims, nil
		}
	}

	return nil, err
}
