package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Paul-trunc/DentalAppointments/util"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// Context keys set by the middleware in this package.
const (
	DBKey        = "db"
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// CORSMiddleware configures CORS headers for incoming requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE, PUT")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Content-Type", "application/json")

		// For preflight requests, respond with 204 and abort further processing.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// DatabaseMiddleware injects the storage handle into the request context so
// endpoints never reach for a package-level connection.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(DBKey, db)
		c.Next()
	}
}

// GetDB returns the gorm DB previously set by DatabaseMiddleware, or nil.
func GetDB(c *gin.Context) *gorm.DB {
	v, ok := c.Get(DBKey)
	if !ok {
		return nil
	}
	db, ok := v.(*gorm.DB)
	if !ok {
		return nil
	}
	return db
}

// ValidateLoginToken checks the Authorization bearer token and attaches the
// decoded user identity (id, email) to the request context. Any validation
// failure rejects the request with 401.
func ValidateLoginToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			rejectUnauthorized(c, "Authorization token not provided")
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			// Only HMAC-signed tokens are ever issued.
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return util.GetJWTSecretByte(), nil
		})
		if err != nil || !token.Valid {
			rejectUnauthorized(c, "Invalid or expired token")
			return
		}

		// Numeric JSON claims decode as float64.
		id, ok := claims["id"].(float64)
		if !ok || id <= 0 {
			rejectUnauthorized(c, "Invalid or expired token")
			return
		}
		email, _ := claims["email"].(string)

		c.Set(UserIDKey, uint(id))
		c.Set(UserEmailKey, email)
		c.Next()
	}
}

func rejectUnauthorized(c *gin.Context, msg string) {
	util.LogSecurityEvent(util.SecurityEvent{
		EventType: util.EventUnauthorizedAccess,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Message:   fmt.Sprintf("%s %s: %s", c.Request.Method, c.Request.URL.Path, msg),
	})
	util.CallUserNotAuthorized(c, util.APIErrorParams{
		Msg: msg,
		Err: fmt.Errorf("authorization failed"),
	})
	c.Abort()
}

// GetUserID returns the authenticated user's id set by ValidateLoginToken.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// GetUserEmail returns the authenticated user's email set by ValidateLoginToken.
func GetUserEmail(c *gin.Context) (string, bool) {
	v, ok := c.Get(UserEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
