package utils

import (
	"fmt"
	"net/http"
	"time"

	"github.com/3Eeeecho/go-gallerycloud/internal/pkg/xerr"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken 用于生成 JWT Token
// secretKey: 用于签名的密钥
// expiresIn: Token 的过期时间
// issuer: Token 的签发者
func GenerateToken(userID uint64, username, role, secretKey, issuer string, expiresIn time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiresIn)
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", userID),
			ID:        fmt.Sprintf("%d", userID),
			Audience:  []string{"users"},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// GetUserIDFromContext 从 Gin Context 中取出认证中间件写入的用户ID
// 取不到时直接写出 500 响应并返回 false
func GetUserIDFromContext(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		xerr.AbortWithError(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "User ID not found in context")
		return 0, false
	}
	currentUserID, ok := userID.(uint64)
	if !ok {
		xerr.AbortWithError(c, http.StatusInternalServerError, xerr.InternalServerErrorCode, "Invalid user ID type in context")
		return 0, false
	}
	return currentUserID, true
}
