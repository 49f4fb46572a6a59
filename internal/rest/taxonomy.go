package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/news-herald/internal/newsportal"
)

// Categories handles GET /api/categories
// @Summary Get all categories
// @Description Retrieves all categories ordered by name
// @Tags categories
// @Produce json
// @Success 200 {array} rest.Category
// @Failure 500 {object} rest.ErrorResponse
// @Router /api/categories [get]
func (h *Handler) Categories(c echo.Context) error {
	categories, err := h.m.Categories(c.Request().Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewCategories(categories))
}

// Category handles GET /api/categories/:slug
// @Summary Get category with its published articles
// @Tags categories
// @Produce json
// @Param slug path string true "Category slug"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} rest.CategoryWithArticles
// @Failure 404,422,500 {object} rest.ErrorResponse
// @Router /api/categories/{slug} [get]
func (h *Handler) Category(c echo.Context) error {
	var q ListQuery
	if err := query(c, &q); err != nil {
		return h.handleError(c, err)
	}

	res, err := h.m.CategoryArticles(c.Request().Context(), c.Param("slug"), pagination(q), viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, CategoryWithArticles{
		Category: NewCategory(res.Category),
		Articles: NewPage(res.Articles, NewArticle),
	})
}

// CategoryArticles handles GET /api/categories/:slug/articles
// @Summary Published articles of a category
// @Tags categories
// @Produce json
// @Param slug path string true "Category slug"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} rest.Page[rest.Article]
// @Failure 404,422,500 {object} rest.ErrorResponse
// @Router /api/categories/{slug}/articles [get]
func (h *Handler) CategoryArticles(c echo.Context) error {
	var q ListQuery
	if err := query(c, &q); err != nil {
		return h.handleError(c, err)
	}

	res, err := h.m.CategoryArticles(c.Request().Context(), c.Param("slug"), pagination(q), viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewPage(res.Articles, NewArticle))
}

// CreateCategory handles POST /api/categories
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body rest.CategoryRequest true "Category"
// @Success 201 {object} rest.Category
// @Failure 400,401,403,409,422,500 {object} rest.ErrorResponse
// @Router /api/categories [post]
func (h *Handler) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	category, err := h.m.CreateCategory(c.Request().Context(), newsportal.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusCreated, NewCategory(*category))
}

// UpdateCategory handles PUT /api/categories/:id
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param category body rest.CategoryRequest true "Category"
// @Success 200 {object} rest.Category
// @Failure 400,401,403,404,409,422,500 {object} rest.ErrorResponse
// @Router /api/categories/{id} [put]
func (h *Handler) UpdateCategory(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	var req CategoryRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	category, err := h.m.UpdateCategory(c.Request().Context(), id, newsportal.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewCategory(*category))
}

// DeleteCategory handles DELETE /api/categories/:id
// @Summary Delete category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} rest.MessageResponse
// @Failure 401,403,404,422,500 {object} rest.ErrorResponse
// @Router /api/categories/{id} [delete]
func (h *Handler) DeleteCategory(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	if err := h.m.DeleteCategory(c.Request().Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "category deleted"})
}

// Tags handles GET /api/tags
// @Summary Get all tags
// @Description Retrieves all tags ordered by name
// @Tags tags
// @Produce json
// @Success 200 {array} rest.Tag
// @Failure 500 {object} rest.ErrorResponse
// @Router /api/tags [get]
func (h *Handler) Tags(c echo.Context) error {
	tags, err := h.m.Tags(c.Request().Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewTags(tags))
}

// Tag handles GET /api/tags/:slug
// @Summary Get tag with its published articles
// @Tags tags
// @Produce json
// @Param slug path string true "Tag slug"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} rest.TagWithArticles
// @Failure 404,422,500 {object} rest.ErrorResponse
// @Router /api/tags/{slug} [get]
func (h *Handler) Tag(c echo.Context) error {
	var q ListQuery
	if err := query(c, &q); err != nil {
		return h.handleError(c, err)
	}

	res, err := h.m.TagArticles(c.Request().Context(), c.Param("slug"), pagination(q), viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, TagWithArticles{
		Tag:      NewTag(res.Tag),
		Articles: NewPage(res.Articles, NewArticle),
	})
}

// CreateTag handles POST /api/tags
// @Summary Create tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tag body rest.TagRequest true "Tag"
// @Success 201 {object} rest.Tag
// @Failure 400,401,403,409,422,500 {object} rest.ErrorResponse
// @Router /api/tags [post]
func (h *Handler) CreateTag(c echo.Context) error {
	var req TagRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	tag, err := h.m.CreateTag(c.Request().Context(), newsportal.TagInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusCreated, NewTag(*tag))
}

// UpdateTag handles PUT /api/tags/:id
// @Summary Update tag
// @Tags tags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Param tag body rest.TagRequest true "Tag"
// @Success 200 {object} rest.Tag
// @Failure 400,401,403,404,409,422,500 {object} rest.ErrorResponse
// @Router /api/tags/{id} [put]
func (h *Handler) UpdateTag(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	var req TagRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	tag, err := h.m.UpdateTag(c.Request().Context(), id, newsportal.TagInput{Name: req.Name, Slug: req.Slug})
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewTag(*tag))
}

// DeleteTag handles DELETE /api/tags/:id
// @Summary Delete tag
// @Tags tags
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tag ID"
// @Success 200 {object} rest.MessageResponse
// @Failure 401,403,404,422,500 {object} rest.ErrorResponse
// @Router /api/tags/{id} [delete]
func (h *Handler) DeleteTag(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	if err := h.m.DeleteTag(c.Request().Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "tag deleted"})
}

// Authors handles GET /api/authors
// @Summary Get all authors
// @Tags authors
// @Produce json
// @Success 200 {array} rest.Author
// @Failure 500 {object} rest.ErrorResponse
// @Router /api/authors [get]
func (h *Handler) Authors(c echo.Context) error {
	authors, err := h.m.Authors(c.Request().Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewAuthors(authors))
}
