package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/service"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// AuthMiddleware handles team key authentication.
type AuthMiddleware struct {
	authService *service.AuthService
	rateLimiter *InvalidAuthRateLimiter
}

// NewAuthMiddleware constructs a new AuthMiddleware.
func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		rateLimiter: NewInvalidAuthRateLimiter(),
	}
}

// Handle returns a Gin middleware function that enforces team authentication.
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			m.handleAuthError(c, "INVALID_TOKEN", "Missing or invalid authorization header")
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		team, err := m.authService.ValidateAPIKey(token)
		if err == utils.ErrInvalidTeam {
			m.handleAuthError(c, "INVALID_TEAM", "Team is not active")
			return
		}
		if err != nil || team == nil {
			m.handleAuthError(c, "INVALID_TOKEN", "Invalid team key")
			return
		}

		c.Set("team", team)
		c.Set("team_id", team.ID)

		c.Next()
	}
}

func (m *AuthMiddleware) handleAuthError(c *gin.Context, code, message string) {
	// Apply rate limit for invalid auth attempts
	ip := c.ClientIP()
	if !m.rateLimiter.Allow(ip) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}

	utils.Error(c, 401, code, message)
	c.Abort()
}

// GetTeam returns the authenticated team from context.
func GetTeam(c *gin.Context) *models.Team {
	team, _ := c.Get("team")
	if team == nil {
		return nil
	}
	return team.(*models.Team)
}
