package server

import (
	"instaclone/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/:postId/likes
// @Summary Like post
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /posts/{postId}/likes [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.likeService.Like(c.UserContext(), currentUserID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.MessageResponse{Message: "Post liked."})
}

// UnlikePost handles DELETE /api/posts/:postId/likes
// @Summary Unlike post
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId}/likes [delete]
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.likeService.Unlike(c.UserContext(), currentUserID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.MessageResponse{Message: "Post unliked."})
}
