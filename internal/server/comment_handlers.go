package server

import (
	"instaclone/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /api/posts/:postId/comments
// @Summary Add comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postId path int true "Post ID"
// @Param request body object{text=string} true "Comment"
// @Success 201 {object} models.CommentView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{postId}/comments [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.commentService.AddComment(c.UserContext(), service.CreateCommentInput{
		UserID: currentUserID(c),
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListComments handles GET /api/posts/:postId/comments
// @Summary List comments
// @Description Newest-first comments; an unknown post yields an empty list
// @Tags comments
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {array} models.CommentView
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/{postId}/comments [get]
func (s *Server) ListComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}
