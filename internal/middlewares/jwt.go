package middlewares

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

var (
	SigningKey = "kn0T3s!x9Qv4&bLw27mEoZr8#JcPfu"
)

func AuthHandler(authRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {

		token := c.Request.Header.Get("Authorization")

		// Check if token in correct format
		// ie Bearer xx03xllasx
		b := "Bearer "
		if !strings.Contains(token, b) {
			if len(token) <= 0 {
				c.JSON(403, gin.H{"message": "Your request is not authorized."})
			} else {
				c.JSON(403, gin.H{"message": "Your request is not authorized. Are you missing the prefix 'Bearer'?"})
			}
			c.Abort()
			return
		}
		t := strings.Split(token, b)
		if len(t) < 2 {
			c.JSON(403, gin.H{"message": "An authorization token was not supplied"})
			c.Abort()
			return
		}

		// Validate token
		_, err := ValidateToken(t[1], SigningKey)
		if err != nil {
			c.JSON(403, gin.H{"message": "Invalid authorization token"})
			c.Abort()
			return
		}

		c.Next()
	}
}

type CmsClaims struct {
	UserId   uint     `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.StandardClaims
}

func GenerateToken(ctx context.Context, key []byte, userId uint, username string, roles []string) (string, time.Time, error) {

	expiresAt := time.Now().Add(12 * time.Hour)
	claims := CmsClaims{
		userId,
		username,
		roles,
		jwt.StandardClaims{
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  time.Now().Unix(),
			Issuer:    "keynotes-cms",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(key)
	return tokenString, expiresAt, err
}

func ValidateToken(tokenString string, key string) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CmsClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(key), nil
	})

	return token, err
}
