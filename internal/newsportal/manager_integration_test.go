//go:build integration

package newsportal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/daniilsolovey/news-herald/internal/auth"
	"github.com/daniilsolovey/news-herald/internal/db"
	"github.com/go-pg/pg/v10"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

	if err := testDB.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close database connection: %v\n", err)
	}

	os.Exit(code)
}

func withTx(t *testing.T) (context.Context, *Manager) {
	t.Helper()
	ctx := context.Background()

	tx, err := testDB.Begin()
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Errorf("failed to rollback transaction: %v", err)
		}
	})

	tokens, err := auth.NewTokens("integration-secret", time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := NewManager(db.New(tx), tokens, NewImageURLBuilder(EnvLocal, ""), nil, logger)

	return ctx, manager
}

var (
	admin  = Viewer{UserID: db.TestAdminID, Role: string(auth.RoleAdmin)}
	reader = Viewer{UserID: db.TestReaderID, Role: string(auth.RoleUser)}
)

func TestManager_Articles_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	t.Run("PublishedByDefault", func(t *testing.T) {
		page, err := manager.Articles(ctx, ArticleFilter{}, Viewer{})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		for _, a := range page.Items {
			assert.Equal(t, db.StatusPublished, a.Status)
		}
		assert.Equal(t, "ai-breakthrough-in-machine-learning", page.Items[0].Slug)
	})

	t.Run("CategoryFilterByName", func(t *testing.T) {
		page, err := manager.Articles(ctx, ArticleFilter{Category: "Technology"}, Viewer{})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		for _, a := range page.Items {
			assert.True(t, lo.ContainsBy(a.Categories, func(c Category) bool { return c.Name == "Technology" }))
		}
	})

	t.Run("DraftsRequireAdmin", func(t *testing.T) {
		_, err := manager.Articles(ctx, ArticleFilter{Status: db.StatusDraft}, reader)
		assert.ErrorIs(t, err, ErrForbidden)

		page, err := manager.Articles(ctx, ArticleFilter{Status: db.StatusDraft}, admin)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	})

	t.Run("AggregatesMatchSingleArticle", func(t *testing.T) {
		page, err := manager.Articles(ctx, ArticleFilter{}, reader)
		require.NoError(t, err)

		for _, listed := range page.Items {
			single, err := manager.PublishedArticle(ctx, listed.ID, reader)
			require.NoError(t, err)
			assert.Equal(t, single.Aggregates, listed.Aggregates, "article %d", listed.ID)
		}

		first := page.Items[0]
		assert.Equal(t, 2, first.LikesCount)
		assert.True(t, first.IsLiked)
	})

	t.Run("AuthorAndImageLoaded", func(t *testing.T) {
		a, err := manager.ArticleBySlug(ctx, "ai-breakthrough-in-machine-learning", Viewer{})
		require.NoError(t, err)
		require.NotNil(t, a.Author)
		assert.Equal(t, "John Doe", a.Author.Name)
		assert.Equal(t, "/storage/articles/ai.jpg", lo.FromPtr(a.FeaturedImageURL))
		assert.Len(t, a.Tags, 2)
		assert.False(t, a.IsLiked)
	})

	t.Run("DraftHiddenFromPublic", func(t *testing.T) {
		_, err := manager.PublishedArticle(ctx, 4, Viewer{})
		assert.ErrorIs(t, err, ErrNotFound)

		a, err := manager.Article(ctx, 4, admin)
		require.NoError(t, err)
		assert.Equal(t, db.StatusDraft, a.Status)
	})

	t.Run("AuthorByNameOrEmail", func(t *testing.T) {
		byName, err := manager.AuthorArticlesByName(ctx, "John Doe", "", Pagination{}, Viewer{})
		require.NoError(t, err)
		assert.Equal(t, "John Doe", byName.Author.Name)
		assert.Equal(t, 4, byName.ArticleCount)
		assert.Equal(t, 3, byName.Articles.Total)

		byEmail, err := manager.AuthorArticlesByName(ctx, " JOHN@example.com ", "", Pagination{}, Viewer{})
		require.NoError(t, err)
		assert.Equal(t, byName.Author.ID, byEmail.Author.ID)

		drafts, err := manager.AuthorArticlesByName(ctx, "John Doe", db.StatusDraft, Pagination{}, admin)
		require.NoError(t, err)
		assert.Equal(t, 1, drafts.Articles.Total)

		_, err = manager.AuthorArticlesByName(ctx, "John Doe", db.StatusDraft, Pagination{}, reader)
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = manager.AuthorArticlesByName(ctx, "Reader", "", Pagination{}, Viewer{})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = manager.AuthorArticlesByName(ctx, "Nobody", "", Pagination{}, Viewer{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("AdminStats", func(t *testing.T) {
		stats, err := manager.AdminStats(ctx, admin)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.TotalArticles)
		assert.Equal(t, 4, stats.TotalUsers)
		assert.Equal(t, 2, stats.TotalViews)
		require.Len(t, stats.RecentArticles, 4)
		assert.Equal(t, "ai-breakthrough-in-machine-learning", stats.RecentArticles[0].Slug)
		assert.Equal(t, db.StatusDraft, stats.RecentArticles[3].Status)
	})

	t.Run("RecentActivity", func(t *testing.T) {
		feed, err := manager.RecentActivity(ctx)
		require.NoError(t, err)
		require.Len(t, feed, 3)
		assert.Equal(t, "Published", feed[0].Action)
		assert.Equal(t, "AI Breakthrough in Machine Learning", feed[0].Title)
		assert.Equal(t, "john@example.com", feed[0].User)
		assert.True(t, feed[0].Timestamp.Equal(db.BaseTime))
		assert.True(t, feed[1].Timestamp.Before(feed[0].Timestamp))
	})

	t.Run("Search", func(t *testing.T) {
		_, err := manager.SearchArticles(ctx, "ai", Viewer{})
		assert.ErrorIs(t, err, ErrValidation)

		found, err := manager.SearchArticles(ctx, "quantum", Viewer{})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "quantum-computers", found[0].Slug)
	})
}

func TestManager_CreateArticle_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	in := ArticleInput{
		Title:      "Campus News!",
		Content:    "Something happened on campus.",
		AuthorName: "John Doe",
		CategoryID: 1,
		Tags:       []string{"Campus", " campus ", "Hot", ""},
	}

	first, err := manager.CreateArticle(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "campus-news", first.Slug)
	assert.Equal(t, db.StatusPublished, first.Status)
	assert.NotNil(t, first.PublishedAt)
	assert.Len(t, first.Tags, 3)

	second, err := manager.CreateArticle(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "campus-news-1", second.Slug)

	t.Run("ExplicitSlugTaken", func(t *testing.T) {
		dup := in
		dup.Slug = "Campus News"
		_, err := manager.CreateArticle(ctx, dup)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("UnknownAuthor", func(t *testing.T) {
		bad := in
		bad.AuthorName = "Nobody"
		_, err := manager.CreateArticle(ctx, bad)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("SlugKeptOnTitleEdit", func(t *testing.T) {
		updated, err := manager.UpdateArticle(ctx, first.ID, ArticleUpdate{
			Title:      "Campus News Updated",
			Content:    first.Content,
			AuthorName: "John Doe",
			Category:   "Campus Life",
		})
		require.NoError(t, err)
		assert.Equal(t, "campus-news", updated.Slug)
		assert.Equal(t, "Campus News Updated", updated.Title)
		require.Len(t, updated.Categories, 1)
		assert.Equal(t, "campus-life", updated.Categories[0].Slug)
	})

	t.Run("ClearedSlugRegenerated", func(t *testing.T) {
		updated, err := manager.UpdateArticle(ctx, second.ID, ArticleUpdate{
			Title:      "Fresh Headline",
			Content:    second.Content,
			AuthorName: "John Doe",
			Slug:       lo.ToPtr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh-headline", updated.Slug)
	})

	t.Run("SoftDeletedSlugStaysReserved", func(t *testing.T) {
		require.NoError(t, manager.DeleteArticle(ctx, first.ID))

		_, err := manager.PublishedArticle(ctx, first.ID, Viewer{})
		assert.ErrorIs(t, err, ErrNotFound)

		third, err := manager.CreateArticle(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "campus-news-1", third.Slug)
	})
}

func TestManager_ToggleLike_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	res, err := manager.ToggleLike(ctx, db.TestAuthorUserID, 2)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: true, LikesCount: 1}, res)

	res, err = manager.ToggleLike(ctx, db.TestAuthorUserID, 2)
	require.NoError(t, err)
	assert.Equal(t, LikeResult{Liked: false, LikesCount: 0}, res)

	_, err = manager.ToggleLike(ctx, db.TestAuthorUserID, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	liked, err := manager.LikedArticles(ctx, reader, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Total)

	require.NoError(t, manager.Share(ctx, db.TestReaderID, 2))
	shared, err := manager.SharedArticles(ctx, reader, Pagination{})
	require.NoError(t, err)
	assert.Equal(t, 2, shared.Total)

	_, err = manager.LikedArticles(ctx, Viewer{}, Pagination{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestManager_Taxonomy_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	c, err := manager.CreateCategory(ctx, CategoryInput{Name: "Science"})
	require.NoError(t, err)
	assert.Equal(t, "science", c.Slug)

	_, err = manager.CreateCategory(ctx, CategoryInput{Name: "Science"})
	assert.ErrorIs(t, err, ErrConflict)

	c, err = manager.UpdateCategory(ctx, c.ID, CategoryInput{Name: "Natural Science"})
	require.NoError(t, err)
	assert.Equal(t, "science", c.Slug)

	tag, err := manager.CreateTag(ctx, TagInput{Name: "Новости"})
	require.NoError(t, err)
	assert.Equal(t, "tag", tag.Slug)

	tech, err := manager.CategoryArticles(ctx, "technology", Pagination{}, Viewer{})
	require.NoError(t, err)
	assert.Equal(t, 2, tech.Articles.Total)

	hot, err := manager.TagArticles(ctx, "hot", Pagination{}, Viewer{})
	require.NoError(t, err)
	assert.Equal(t, 2, hot.Articles.Total)

	require.NoError(t, manager.DeleteTag(ctx, tag.ID))
	assert.ErrorIs(t, manager.DeleteTag(ctx, tag.ID), ErrNotFound)
}

func TestManager_Accounts_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	t.Run("RegisterAndLogin", func(t *testing.T) {
		u, err := manager.Register(ctx, RegisterInput{
			Name: "Newbie", Email: "Newbie@Example.com", Password: "Passw0rd", PasswordConfirmation: "Passw0rd",
		})
		require.NoError(t, err)
		assert.Equal(t, "newbie@example.com", u.Email)
		assert.Equal(t, string(auth.RoleUser), u.Role)

		_, err = manager.Register(ctx, RegisterInput{
			Name: "Again", Email: "newbie@example.com", Password: "Passw0rd", PasswordConfirmation: "Passw0rd",
		})
		assert.ErrorIs(t, err, ErrConflict)

		_, err = manager.Login(ctx, "newbie@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		session, err := manager.Login(ctx, "newbie@example.com", "Passw0rd")
		require.NoError(t, err)

		claims, err := manager.Authenticate(ctx, session.Token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID())

		require.NoError(t, manager.Logout(ctx, claims))
		_, err = manager.Authenticate(ctx, session.Token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("Moderators", func(t *testing.T) {
		u, err := manager.AddModerator(ctx, "reader@example.com")
		require.NoError(t, err)
		assert.Equal(t, string(auth.RoleModerator), u.Role)

		_, err = manager.AddModerator(ctx, "reader@example.com")
		assert.ErrorIs(t, err, ErrConflict)

		_, err = manager.AddModerator(ctx, "missing@example.com")
		assert.ErrorIs(t, err, ErrNotFound)

		u, err = manager.RemoveModerator(ctx, db.TestReaderID)
		require.NoError(t, err)
		assert.Equal(t, string(auth.RoleUser), u.Role)
	})

	t.Run("DeleteAccountKeepsAuthorProfile", func(t *testing.T) {
		err := manager.DeleteAccount(ctx, db.TestAuthorUserID, "wrong")
		assert.ErrorIs(t, err, ErrValidation)

		require.NoError(t, manager.DeleteAccount(ctx, db.TestAuthorUserID, db.TestPassword))

		page, err := manager.Articles(ctx, ArticleFilter{}, Viewer{})
		require.NoError(t, err)
		assert.Zero(t, page.Total)

		authors, err := manager.Authors(ctx)
		require.NoError(t, err)
		require.Len(t, authors, 1)
		assert.Equal(t, UnknownAuthor, authors[0].Name)
	})

	t.Run("DashboardStats", func(t *testing.T) {
		stats, err := manager.DashboardStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.TotalUsers)
		assert.Zero(t, stats.PublishedArticles)
	})
}

func TestManager_LogoutWithoutExpiry_Integration(t *testing.T) {
	ctx := context.Background()

	tx, err := testDB.Begin()
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback() })

	ttl := 3 * time.Hour
	tokens, err := auth.NewTokens("integration-secret", ttl)
	require.NoError(t, err)
	manager := NewManager(db.New(tx), tokens, NewImageURLBuilder(EnvLocal, ""), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	claims := &auth.Claims{}
	claims.ID = "token-without-expiry"

	before := time.Now()
	require.NoError(t, manager.Logout(ctx, claims))

	revoked := &db.RevokedToken{JTI: claims.ID}
	require.NoError(t, tx.ModelContext(ctx, revoked).WherePK().Select())
	assert.WithinDuration(t, before.Add(ttl), revoked.ExpiresAt, time.Minute)
}

func TestManager_Subscribers_Integration(t *testing.T) {
	ctx, manager := withTx(t)

	_, err := manager.Subscribe(ctx, "subscriber@example.com", nil)
	assert.ErrorIs(t, err, ErrConflict)

	s, err := manager.Unsubscribe(ctx, "test-unsubscribe-token")
	require.NoError(t, err)
	assert.Equal(t, db.SubscriberUnsubscribed, s.Status)
	assert.NotNil(t, s.UnsubscribedAt)

	s, err = manager.Unsubscribe(ctx, "test-unsubscribe-token")
	require.NoError(t, err)
	assert.Equal(t, db.SubscriberUnsubscribed, s.Status)

	s, err = manager.Subscribe(ctx, " Subscriber@Example.com ", lo.ToPtr("Sub"))
	require.NoError(t, err)
	assert.Equal(t, db.SubscriberActive, s.Status)
	assert.Nil(t, s.UnsubscribedAt)

	created, err := manager.Subscribe(ctx, "fresh@example.com", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, created.UnsubscribeToken)

	page, err := manager.Subscribers(ctx, db.SubscriberActive, "example", Pagination{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	_, err = manager.Subscribers(ctx, "bogus", "", Pagination{})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, manager.DeleteSubscriber(ctx, created.ID))
	_, err = manager.Subscriber(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
