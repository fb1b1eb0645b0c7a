package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// PostsHandler exposes post CRUD endpoints. Reads are public; writes require
// the bound principal and author ownership.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService) *PostsHandler {
	return &PostsHandler{posts: postService}
}

// Create handles POST /api/posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.PostCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Content == "" {
		return apperrors.NewValidationError("title and content required", nil)
	}

	post, err := h.posts.Create(c.Context(), req.Title, req.Content, principal.UserID)
	if err != nil {
		return mapPostError(err)
	}
	return c.Status(http.StatusCreated).JSON(dto.NewPostResponse(post))
}

// List handles GET /api/posts.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	posts, err := h.posts.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostListResponse(posts))
}

// GetByID handles GET /api/posts/:id.
func (h *PostsHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.posts.GetByID(c.Context(), id)
	if err != nil {
		return mapPostError(err)
	}
	return c.JSON(dto.NewPostResponse(post))
}

// ListByAuthor handles GET /api/posts/author/:id.
func (h *PostsHandler) ListByAuthor(c *fiber.Ctx) error {
	authorID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	posts, err := h.posts.ListByAuthor(c.Context(), authorID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostListResponse(posts))
}

// Search handles GET /api/posts/search?keyword=.
func (h *PostsHandler) Search(c *fiber.Ctx) error {
	keyword := c.Query("keyword")
	if keyword == "" {
		return apperrors.NewValidationError("keyword required", nil)
	}

	posts, err := h.posts.SearchByTitle(c.Context(), keyword)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPostListResponse(posts))
}

// Update handles PUT /api/posts/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req dto.PostUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Content == "" {
		return apperrors.NewValidationError("title and content required", nil)
	}

	post, err := h.posts.Update(c.Context(), id, req.Title, req.Content, principal.UserID)
	if err != nil {
		return mapPostError(err)
	}
	return c.JSON(dto.NewPostResponse(post))
}

// Delete handles DELETE /api/posts/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.posts.Delete(c.Context(), id, principal.UserID); err != nil {
		return mapPostError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func mapPostError(err error) error {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		return apperrors.NewNotFound("post", nil)
	case errors.Is(err, service.ErrUserNotFound):
		return apperrors.NewNotFound("user", nil)
	case errors.Is(err, service.ErrNotPostAuthor):
		return apperrors.NewForbidden(err.Error())
	default:
		return err
	}
}
