package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts (protected)
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title      string   `json:"title"`
		Content    string   `json:"content"`
		Tags       []string `json:"tags"`
		IsFeatured bool     `json:"isFeatured"`
		Status     string   `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Actor:      s.principal(c),
		Title:      req.Title,
		Content:    req.Content,
		Tags:       req.Tags,
		IsFeatured: req.IsFeatured,
		Status:     models.PostStatus(req.Status),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetPosts handles GET /api/posts (public). Filters compose: every
// query parameter present narrows the result set.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	filter, page := parsePostListQuery(c)

	result, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Filter: filter,
		Page:   page,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

// GetPost handles GET /api/posts/:id (public). Retrieval counts as a
// view, and the response carries the approved comment tree.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// UpdatePost handles PATCH /api/posts/:id (owner or admin)
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title      *string            `json:"title"`
		Content    *string            `json:"content"`
		Status     *models.PostStatus `json:"status"`
		IsFeatured *bool              `json:"isFeatured"`
		Tags       *[]string          `json:"tags"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		Actor:      s.principal(c),
		PostID:     id,
		Title:      req.Title,
		Content:    req.Content,
		Status:     req.Status,
		IsFeatured: req.IsFeatured,
		Tags:       req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(updated)
}

// DeletePost handles DELETE /api/posts/:id (owner or admin). The
// deleted record is echoed back.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	deleted, err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		Actor:  s.principal(c),
		PostID: id,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(deleted)
}
