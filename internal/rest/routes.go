package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"

	"github.com/daniilsolovey/news-herald/internal/auth"
)

const (
	apiPrefix = "/api"

	healthPath  = "/health"
	swaggerPath = "/swagger/doc.json"

	// login and register attempts per minute and IP
	authAttemptsPerMinute = 5
)

// RegisterRoutes registers the API under /api and the system routes on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET(healthPath, h.handleHealth)
	e.GET(swaggerPath, h.handleSwagger)

	g := e.Group(apiPrefix)
	h.registerPublicRoutes(g)
	h.registerUserRoutes(g)
	h.registerStaffRoutes(g)
	h.registerAdminRoutes(g)
}

func (h *Handler) registerPublicRoutes(g *echo.Group) {
	g.POST("/register", h.Register, Throttle(authAttemptsPerMinute))
	g.POST("/login", h.Login, Throttle(authAttemptsPerMinute))

	g.GET("/categories", h.Categories)
	g.GET("/tags", h.Tags)
	g.GET("/authors", h.Authors)
	g.POST("/subscribe", h.Subscribe)
	g.GET("/unsubscribe/:token", h.Unsubscribe)

	optional := OptionalAuth(h.m)
	g.GET("/categories/:slug", h.Category, optional)
	g.GET("/categories/:slug/articles", h.CategoryArticles, optional)
	g.GET("/tags/:slug", h.Tag, optional)
	g.GET("/articles/public", h.PublicArticles, optional)
	g.GET("/articles/search", h.SearchArticles, optional)
	g.GET("/articles/by-slug/:slug", h.ArticleBySlug, optional)
	g.GET("/articles/id/:id", h.PublicArticle, optional)
	g.GET("/articles/author-public/:authorId", h.AuthorArticles, optional)
	g.GET("/authors/:name", h.AuthorArticlesByName, optional)
	g.GET("/latest-articles", h.LatestArticles, optional)
}

func (h *Handler) registerUserRoutes(g *echo.Group) {
	user := RequireAuth(h.m)

	g.GET("/user", h.Me, user)
	g.POST("/logout", h.Logout, user)
	g.POST("/change-password", h.ChangePassword, user)
	g.POST("/delete-account", h.DeleteAccount, user)
	g.GET("/user/liked-articles", h.LikedArticles, user)
	g.GET("/user/shared-articles", h.SharedArticles, user)

	g.GET("/articles", h.Articles, user)
	g.GET("/articles/:id", h.Article, user)
	g.POST("/articles/:id/like", h.ToggleLike, user)
	g.POST("/articles/:id/share", h.Share, user)
}

func (h *Handler) registerStaffRoutes(g *echo.Group) {
	staff := []echo.MiddlewareFunc{RequireAuth(h.m), RequireRole(auth.RoleAdmin, auth.RoleModerator)}

	g.PUT("/articles/:id", h.UpdateArticle, staff...)

	g.POST("/categories", h.CreateCategory, staff...)
	g.PUT("/categories/:id", h.UpdateCategory, staff...)
	g.DELETE("/categories/:id", h.DeleteCategory, staff...)

	g.POST("/tags", h.CreateTag, staff...)
	g.PUT("/tags/:id", h.UpdateTag, staff...)
	g.DELETE("/tags/:id", h.DeleteTag, staff...)

	g.GET("/subscribers", h.Subscribers, staff...)
	g.GET("/subscribers/:id", h.Subscriber, staff...)
	g.POST("/subscribers", h.CreateSubscriber, staff...)
	g.PUT("/subscribers/:id", h.UpdateSubscriber, staff...)
	g.DELETE("/subscribers/:id", h.DeleteSubscriber, staff...)

	g.GET("/admin/dashboard-stats", h.DashboardStats, staff...)
	g.GET("/admin/recent-activity", h.RecentActivity, staff...)
}

func (h *Handler) registerAdminRoutes(g *echo.Group) {
	admin := []echo.MiddlewareFunc{RequireAuth(h.m), RequireRole(auth.RoleAdmin)}

	g.POST("/articles", h.CreateArticle, admin...)
	g.DELETE("/articles/:id", h.DeleteArticle, admin...)

	g.GET("/admin/check-access", h.CheckAccess, admin...)
	g.GET("/admin/stats", h.AdminStats, admin...)
	g.GET("/admin/users", h.Users, admin...)
	g.GET("/admin/moderators", h.Moderators, admin...)
	g.POST("/admin/moderators", h.AddModerator, admin...)
	g.DELETE("/admin/moderators/:id", h.RemoveModerator, admin...)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleSwagger(c echo.Context) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return h.handleError(c, err)
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(doc))
}
