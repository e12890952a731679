package server

import (
	"instaclone/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register
// @Summary Register
// @Description Create an account and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration details"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	resp, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Login handles POST /api/auth/login
// @Summary Login
// @Description Exchange email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Login credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	resp, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
