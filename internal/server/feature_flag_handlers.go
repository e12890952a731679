package server

import (
	"instaclone/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyFeatureFlags handles GET /api/users/me/flags
// @Summary Feature flags for the current user
// @Description Percentage rollouts are evaluated per user, so two users may see different values
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.FeatureFlags
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me/flags [get]
func (s *Server) GetMyFeatureFlags(c *fiber.Ctx) error {
	if s.featureFlags == nil {
		return c.JSON(models.FeatureFlags{Raw: map[string]string{}, Evaluated: map[string]bool{}})
	}
	return c.JSON(models.FeatureFlags{
		Raw:       s.featureFlags.Raw(),
		Evaluated: s.featureFlags.Snapshot(currentUserID(c)),
	})
}
