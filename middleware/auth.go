package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"desteiger-backend/models"
	"desteiger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const actorKey = "actor"

func jwtSecret() []byte {
	return []byte(utils.EnvOrDefault("JWT_SECRET", "dev-secret-change-me"))
}

// GenerateSessionToken issues the HS256 session token returned by login.
func GenerateSessionToken(p models.Profile) (string, error) {
	ttlHours := utils.EnvInt64OrDefault("SESSION_TTL_HOURS", 24)
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", p.ID),
		"role": string(p.Role),
		"exp":  time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour).Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func parseSessionToken(raw string) (uint, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid or expired session token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid session claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, errors.New("missing subject claim")
	}
	var id uint
	if _, err := fmt.Sscanf(sub, "%d", &id); err != nil || id == 0 {
		return 0, errors.New("malformed subject claim")
	}
	return id, nil
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}

// RequireAuth authenticates the session token, loads the Profile and threads
// it through the request context as the actor. No ambient global state; every
// handler reads the actor from its own context.
func RequireAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			utils.JSONError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		profileID, err := parseSessionToken(raw)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}

		var profile models.Profile
		if err := db.First(&profile, profileID).Error; err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}

		c.Set(actorKey, &profile)
		c.Next()
	}
}

// OptionalAuth loads the actor when a valid session token is present and
// passes the request through anonymously otherwise. For endpoints that serve
// both logged-in and guest customers with different response detail.
func OptionalAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			c.Next()
			return
		}
		profileID, err := parseSessionToken(raw)
		if err != nil {
			c.Next()
			return
		}
		var profile models.Profile
		if err := db.First(&profile, profileID).Error; err == nil {
			c.Set(actorKey, &profile)
		}
		c.Next()
	}
}

// RequireManager gates admin surfaces. Must run after RequireAuth.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := Actor(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		if !actor.Role.CanManage() {
			utils.JSONError(c, http.StatusForbidden, "admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Actor returns the authenticated profile for this request, if any.
func Actor(c *gin.Context) (*models.Profile, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*models.Profile)
	return p, ok
}
