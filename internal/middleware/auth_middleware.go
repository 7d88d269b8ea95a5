package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mhnazary/school-managment-system/config"
	"github.com/mhnazary/school-managment-system/models"
	"github.com/redis/go-redis/v9"
)

// Principal is the resolved identity carried through the request context.
// Handlers read it instead of any process-wide session state.
type Principal struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

const principalTTL = 10 * time.Minute

// AuthMiddleware verifies the JWT and resolves the principal, consulting the
// Redis cache before the database.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization token not provided"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id in token"})
			c.Abort()
			return
		}
		userID := uint(userIDFloat)

		principal, err := loadPrincipal(c, userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user from token no longer exists"})
			c.Abort()
			return
		}

		c.Set("principal", principal)
		c.Next()
	}
}

// RequireAdministrator gates mutation endpoints on the administrator role.
func RequireAdministrator() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "no principal in context"})
			c.Abort()
			return
		}
		if !principal.Role.CanManageRecords() {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the authenticated principal for this request.
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get("principal")
	if !exists {
		return nil, false
	}
	principal, ok := v.(*Principal)
	return principal, ok
}

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	// The web client historically sent the token in x-auth-token.
	return c.GetHeader("x-auth-token")
}

func loadPrincipal(c *gin.Context, userID uint) (*Principal, error) {
	cacheKey := fmt.Sprintf("user:%d:principal", userID)

	if config.RDB != nil {
		cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
		if err == nil {
			var principal Principal
			if json.Unmarshal([]byte(cached), &principal) == nil {
				return &principal, nil
			}
			slog.Warn("failed to unmarshal cached principal", "user_id", userID)
		} else if !errors.Is(err, redis.Nil) {
			slog.Error("redis GET failed", "error", err, "user_id", userID)
		}
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	principal := Principal{UserID: user.ID, Username: user.Username, Role: user.Role}

	if config.RDB != nil {
		if data, err := json.Marshal(principal); err == nil {
			if err := config.RDB.Set(config.Ctx, cacheKey, data, principalTTL).Err(); err != nil {
				slog.Error("failed to cache principal", "error", err, "user_id", userID)
			}
		}
	}
	return &principal, nil
}
