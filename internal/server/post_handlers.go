package server

import (
	"instaclone/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/posts/feed
// @Summary Feed
// @Description Newest-first page of posts with author and counts
// @Tags posts
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Posts per page (1-50)" default(10)
// @Success 200 {object} models.FeedPage
// @Router /posts/feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", service.DefaultPageSize)

	feed, err := s.postService.GetFeed(c.UserContext(), page, pageSize)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description Upload an image with an optional caption
// @Tags posts
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image (.jpg, .jpeg, .png, .gif, .webp; max 10MB)"
// @Param caption formData string false "Caption"
// @Success 201 {object} models.PostView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	in := service.CreatePostInput{UserID: currentUserID(c)}

	// A missing or unreadable part leaves File nil; the service rejects it.
	if file, err := c.FormFile("image"); err == nil {
		in.File = file
	}

	if caption := c.FormValue("caption"); caption != "" {
		in.Caption = &caption
	}

	post, err := s.postService.CreatePost(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}
