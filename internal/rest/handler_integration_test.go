//go:build integration

package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/news-herald/internal/auth"
	"github.com/daniilsolovey/news-herald/internal/db"
	"github.com/daniilsolovey/news-herald/internal/newsportal"
)

var testDB *pg.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = db.SetupTestDB()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to set up test database. Make sure PostgreSQL is running:")
		fmt.Fprintln(os.Stderr, "  docker-compose -f docker-compose.test.yml up -d")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = testDB.Close()
	os.Exit(code)
}

// newTestServer returns an echo instance bound to a transaction rolled back
// after the test.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	tx, err := testDB.Begin()
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Errorf("failed to rollback transaction: %v", err)
		}
	})

	tokens, err := auth.NewTokens("rest-integration-secret", time.Hour)
	require.NoError(t, err)

	manager := newsportal.NewManager(db.New(tx), tokens, newsportal.NewImageURLBuilder(newsportal.EnvLocal, ""), nil, discardLogger)

	e := echo.New()
	e.Validator = NewValidator()
	NewHandler(manager, discardLogger).RegisterRoutes(e)

	return e
}

func login(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()

	rec := serve(e, http.MethodPost, "/api/login", "", fmt.Sprintf(`{"email":%q,"password":%q}`, email, db.TestPassword))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Bearer", resp.TokenType)
	return resp.Token
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestHandler_Public_Integration(t *testing.T) {
	e := newTestServer(t)

	t.Run("PublicArticles", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/api/articles/public?limit=2", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		page := decode[Page[Article]](t, rec.Body.Bytes())
		assert.Len(t, page.Data, 2)
		assert.Equal(t, PageMeta{CurrentPage: 1, PerPage: 2, Total: 3, LastPage: 2}, page.Meta)
		assert.Equal(t, "ai-breakthrough-in-machine-learning", page.Data[0].Slug)
		assert.Equal(t, 2, page.Data[0].LikesCount)
		assert.False(t, page.Data[0].IsLiked)
	})

	t.Run("BySlugWithViewer", func(t *testing.T) {
		token := login(t, e, "reader@example.com")
		rec := serve(e, http.MethodGet, "/api/articles/by-slug/ai-breakthrough-in-machine-learning", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		a := decode[Article](t, rec.Body.Bytes())
		assert.True(t, a.IsLiked)
		require.NotNil(t, a.FeaturedImageURL)
		assert.Equal(t, "/storage/articles/ai.jpg", *a.FeaturedImageURL)
	})

	t.Run("DraftIsHidden", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/api/articles/by-slug/film-festival-preview", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("SearchTooShort", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/api/articles/search?q=a", "", "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Categories", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/api/categories", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]Category](t, rec.Body.Bytes()), 3)
	})

	t.Run("AuthorByName", func(t *testing.T) {
		rec := serve(e, http.MethodGet, "/api/authors/John%20Doe", "", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		res := decode[AuthorArticles](t, rec.Body.Bytes())
		assert.Equal(t, "John Doe", res.Author.Name)
		assert.Equal(t, 4, res.ArticleCount)
		assert.Equal(t, 3, res.Articles.Meta.Total)

		rec = serve(e, http.MethodGet, "/api/authors/john@example.com?status=draft", "", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = serve(e, http.MethodGet, "/api/authors/nobody", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("BadLogin", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/api/login", "", `{"email":"reader@example.com","password":"wrong-password"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandler_Interactions_Integration(t *testing.T) {
	e := newTestServer(t)
	token := login(t, e, "reader@example.com")

	rec := serve(e, http.MethodPost, "/api/articles/1/like", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, LikeResponse{Liked: false, LikesCount: 1}, decode[LikeResponse](t, rec.Body.Bytes()))

	rec = serve(e, http.MethodPost, "/api/articles/1/like", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, LikeResponse{Liked: true, LikesCount: 2}, decode[LikeResponse](t, rec.Body.Bytes()))

	rec = serve(e, http.MethodPost, "/api/articles/999/like", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(e, http.MethodGet, "/api/user/shared-articles", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[Page[Article]](t, rec.Body.Bytes()).Meta.Total)

	rec = serve(e, http.MethodPost, "/api/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/api/user", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_Roles_Integration(t *testing.T) {
	e := newTestServer(t)
	admin := login(t, e, "admin@example.com")
	moderator := login(t, e, "moderator@example.com")

	body := `{"title":"Campus News","content":"Lectures resume.","author":"John Doe","category_id":1,"tags":"Hot, Fresh","status":"published"}`

	rec := serve(e, http.MethodPost, "/api/articles", moderator, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(e, http.MethodPost, "/api/articles", admin, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[Article](t, rec.Body.Bytes())
	assert.Equal(t, "campus-news", created.Slug)
	assert.Len(t, created.Tags, 2)
	assert.Equal(t, 0, created.LikesCount)

	rec = serve(e, http.MethodPost, "/api/articles", admin, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "campus-news-1", decode[Article](t, rec.Body.Bytes()).Slug)

	rec = serve(e, http.MethodPost, "/api/articles", admin, `{"title":"","content":"x","author":"a","category_id":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = serve(e, http.MethodPost, "/api/categories", moderator, `{"name":"Science"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "science", decode[Category](t, rec.Body.Bytes()).Slug)

	rec = serve(e, http.MethodGet, "/api/admin/dashboard-stats", moderator, "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[DashboardStats](t, rec.Body.Bytes())
	assert.Equal(t, 4, stats.TotalUsers)
	assert.Equal(t, 5, stats.PublishedArticles)
	assert.Equal(t, 1, stats.DraftArticles)

	rec = serve(e, http.MethodGet, "/api/admin/recent-activity", moderator, "")
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[[]Activity](t, rec.Body.Bytes())
	require.Len(t, feed, 5)
	assert.Equal(t, Activity{Action: "Published", Title: "Campus News", User: "john@example.com", Timestamp: feed[0].Timestamp}, feed[0])

	rec = serve(e, http.MethodGet, "/api/admin/stats", moderator, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(e, http.MethodGet, "/api/admin/stats", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	adminStats := decode[AdminStats](t, rec.Body.Bytes())
	assert.Equal(t, 6, adminStats.TotalArticles)
	assert.Equal(t, 4, adminStats.TotalUsers)
	assert.Equal(t, 2, adminStats.TotalViews)
	assert.Len(t, adminStats.RecentArticles, 5)

	rec = serve(e, http.MethodGet, "/api/admin/users", moderator, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(e, http.MethodPost, "/api/admin/moderators", admin, `{"email":"reader@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "moderator", decode[User](t, rec.Body.Bytes()).Role)

	rec = serve(e, http.MethodGet, "/api/subscribers?status=active", moderator, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[Page[Subscriber]](t, rec.Body.Bytes()).Meta.Total)

	rec = serve(e, http.MethodPost, "/api/subscribe", "", `{"email":"Subscriber@Example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(e, http.MethodGet, "/api/unsubscribe/test-unsubscribe-token", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "unsubscribed"))
}
