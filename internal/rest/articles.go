package rest

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/news-herald/internal/newsportal"
)

// Articles handles GET /api/articles
// @Summary List articles
// @Description Paginated articles filtered by status and category name. Published articles are sorted by published_at desc; other statuses require the admin role.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param status query string false "draft, published or archived (default published)"
// @Param category query string false "Category name"
// @Param author_id query int false "Author ID"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} rest.Page[rest.Article]
// @Failure 401,403,422,500 {object} rest.ErrorResponse
// @Router /api/articles [get]
func (h *Handler) Articles(c echo.Context) error {
	var q ArticlesQuery
	if err := query(c, &q); err != nil {
		return h.handleError(c, err)
	}

	page, err := h.m.Articles(c.Request().Context(), newsportal.ArticleFilter{
		Status:     q.Status,
		Category:   q.Category,
		AuthorID:   q.AuthorID,
		Pagination: newsportal.Pagination{Page: q.Page, PageSize: q.Limit},
	}, viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewPage(page, NewArticle))
}

// PublicArticles handles GET /api/articles/public
// @Summary List published articles
// @Tags articles
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} rest.Page[rest.Article]
// @Failure 422,500 {object} rest.ErrorResponse
// @Router /api/articles/public [get]
func (h *Handler) PublicArticles(c echo.Context) error {
	var q ListQuery
	if err := query(c, &q); err != nil {
		return h.handleError(c, err)
	}

	page, err := h.m.PublicArticles(c.Request().Context(), pagination(q), viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewPage(page, NewArticle))
}

// SearchArticles handles GET /api/articles/search
// @Summary Search published articles
// @Description Case-insensitive substring match on title, content and excerpt; at most 20 results.
// @Tags articles
// @Produce json
// @Param q query string true "Search text, at least 3 characters"
// @Success 200 {array} rest.Article
// @Failure 422,500 {object} rest.ErrorResponse
// @Router /api/articles/search [get]
func (h *Handler) SearchArticles(c echo.Context) error {
	list, err := h.m.SearchArticles(c.Request().Context(), c.QueryParam("q"), viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewArticles(list))
}

// LatestArticles handles GET /api/latest-articles
// @Summary Latest published articles
// @Tags articles
// @Produce json
// @Param count query int false "Number of articles (default: 6)"
// @Success 200 {array} rest.Article
// @Failure 500 {object} rest.ErrorResponse
// @Router /api/latest-articles [get]
func (h *Handler) LatestArticles(c echo.Context) error {
	count, _ := strconv.Atoi(c.QueryParam("count"))

	list, err := h.m.LatestArticles(c.Request().Context(), count, viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewArticles(list))
}

// ArticleBySlug handles GET /api/articles/by-slug/:slug
// @Summary Get published article by slug
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} rest.Article
// @Failure 404,500 {object} rest.ErrorResponse
// @Router /api/articles/by-slug/{slug} [get]
func (h *Handler) ArticleBySlug(c echo.Context) error {
	article, err := h.m.ArticleBySlug(c.Request().Context(), c.Param("slug"), viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewArticle(*article))
}

// PublicArticle handles GET /api/articles/id/:id
// @Summary Get published article by ID
// @Tags articles
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} rest.Article
// @Failure 404,422,500 {object} rest.ErrorResponse
// @Router /api/articles/id/{id} [get]
func (h *Handler) PublicArticle(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	article, err := h.m.PublishedArticle(c.Request().Context(), id, viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewArticle(*article))
}

// Article handles GET /api/articles/:id
// @Summary Get article by ID
// @Description Admins and moderators see articles of every status.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} rest.Article
// @Failure 401,404,422,500 {object} rest.ErrorResponse
// @Router /api/articles/{id} [get]
func (h *Handler) Article(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	article, err := h.m.Article(c.Request().Context(), id, viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewArticle(*article))
}

// AuthorArticles handles GET /api/articles/author-public/:authorId
// @Summary Published articles of an author
// @Tags articles
// @Produce json
// @Param authorId path int true "Author ID"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} rest.AuthorArticles
// @Failure 404,422,500 {object} rest.ErrorResponse
// @Router /api/articles/author-public/{authorId} [get]
func (h *Handler) AuthorArticles(c echo.Context) error {
	id, err := idParam(c, "authorId")
	if err != nil {
		return h.handleError(c, err)
	}

	var q ListQuery
	if err := query(c, &q); err != nil {
		return h.handleError(c, err)
	}

	res, err := h.m.ArticlesByAuthor(c.Request().Context(), id, "", pagination(q), viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, AuthorArticles{
		Author:       NewAuthor(res.Author),
		ArticleCount: res.ArticleCount,
		Articles:     NewPage(res.Articles, NewArticle),
	})
}

// AuthorArticlesByName handles GET /api/authors/:name
// @Summary Articles of an author found by user name or email
// @Tags authors
// @Produce json
// @Param name path string true "Author user name or email"
// @Param status query string false "Article status (admin only unless published)"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} rest.AuthorArticles
// @Failure 403,404,422,500 {object} rest.ErrorResponse
// @Router /api/authors/{name} [get]
func (h *Handler) AuthorArticlesByName(c echo.Context) error {
	var q AuthorArticlesQuery
	if err := query(c, &q); err != nil {
		return h.handleError(c, err)
	}

	res, err := h.m.AuthorArticlesByName(c.Request().Context(), c.Param("name"), q.Status,
		newsportal.Pagination{Page: q.Page, PageSize: q.Limit}, viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, AuthorArticles{
		Author:       NewAuthor(res.Author),
		ArticleCount: res.ArticleCount,
		Articles:     NewPage(res.Articles, NewArticle),
	})
}

// CreateArticle handles POST /api/articles
// @Summary Create article
// @Description The slug is generated from the title unless given. Tags are created when missing.
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param article body rest.CreateArticleRequest true "Article"
// @Success 201 {object} rest.Article
// @Failure 400,401,403,404,409,422,500 {object} rest.ErrorResponse
// @Router /api/articles [post]
func (h *Handler) CreateArticle(c echo.Context) error {
	var req CreateArticleRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	article, err := h.m.CreateArticle(c.Request().Context(), newsportal.ArticleInput{
		Title:         req.Title,
		Content:       req.Content,
		Slug:          req.Slug,
		Status:        req.Status,
		AuthorName:    req.Author,
		CategoryID:    req.CategoryID,
		Tags:          req.Tags,
		FeaturedImage: req.FeaturedImage,
	})
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusCreated, NewArticle(*article))
}

// UpdateArticle handles PUT /api/articles/:id
// @Summary Update article
// @Description The slug is kept unless a new one is given, or it is cleared and the title changed.
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param article body rest.UpdateArticleRequest true "Article"
// @Success 200 {object} rest.Article
// @Failure 400,401,403,404,409,422,500 {object} rest.ErrorResponse
// @Router /api/articles/{id} [put]
func (h *Handler) UpdateArticle(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	var req UpdateArticleRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	article, err := h.m.UpdateArticle(c.Request().Context(), id, newsportal.ArticleUpdate{
		Title:         req.Title,
		Content:       req.Content,
		AuthorName:    req.Author,
		Status:        req.Status,
		Category:      req.Category,
		Tags:          req.Tags,
		Slug:          req.Slug,
		FeaturedImage: req.FeaturedImage,
	})
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewArticle(*article))
}

// DeleteArticle handles DELETE /api/articles/:id
// @Summary Delete article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} rest.MessageResponse
// @Failure 401,403,404,422,500 {object} rest.ErrorResponse
// @Router /api/articles/{id} [delete]
func (h *Handler) DeleteArticle(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	if err := h.m.DeleteArticle(c.Request().Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "article deleted"})
}

// ToggleLike handles POST /api/articles/:id/like
// @Summary Like or unlike an article
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} rest.LikeResponse
// @Failure 401,404,422,500 {object} rest.ErrorResponse
// @Router /api/articles/{id}/like [post]
func (h *Handler) ToggleLike(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	res, err := h.m.ToggleLike(c.Request().Context(), viewer(c).UserID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, LikeResponse{Liked: res.Liked, LikesCount: res.LikesCount})
}

// Share handles POST /api/articles/:id/share
// @Summary Record a share
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} rest.MessageResponse
// @Failure 401,404,422,500 {object} rest.ErrorResponse
// @Router /api/articles/{id}/share [post]
func (h *Handler) Share(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	if err := h.m.Share(c.Request().Context(), viewer(c).UserID, id); err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "article shared"})
}

// LikedArticles handles GET /api/user/liked-articles
// @Summary Articles liked by the current user
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} rest.Page[rest.Article]
// @Failure 401,422,500 {object} rest.ErrorResponse
// @Router /api/user/liked-articles [get]
func (h *Handler) LikedArticles(c echo.Context) error {
	var q ListQuery
	if err := query(c, &q); err != nil {
		return h.handleError(c, err)
	}

	page, err := h.m.LikedArticles(c.Request().Context(), viewer(c), pagination(q))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewPage(page, NewArticle))
}

// SharedArticles handles GET /api/user/shared-articles
// @Summary Articles shared by the current user
// @Tags interactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} rest.Page[rest.Article]
// @Failure 401,422,500 {object} rest.ErrorResponse
// @Router /api/user/shared-articles [get]
func (h *Handler) SharedArticles(c echo.Context) error {
	var q ListQuery
	if err := query(c, &q); err != nil {
		return h.handleError(c, err)
	}

	page, err := h.m.SharedArticles(c.Request().Context(), viewer(c), pagination(q))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewPage(page, NewArticle))
}
