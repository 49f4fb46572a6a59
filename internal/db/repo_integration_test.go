//go:build integration

package db

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *pg.DB

func TestMain(m *testing.M) {
	var err error
	testDB, err = SetupTestDB()
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

func withTx(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	ctx := context.Background()

	tx, err := testDB.Begin()
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Errorf("failed to rollback transaction: %v", err)
		}
	})

	return ctx, New(tx)
}

func intPtr(i int) *int { return &i }

func TestRepository_Articles_Integration(t *testing.T) {
	ctx, repo := withTx(t)
	pager := Pager{Page: 1, PageSize: 10}

	tests := []struct {
		name   string
		search ArticleSearch
		want   []string
	}{
		{
			name:   "Published",
			search: ArticleSearch{Status: StatusPublished, Order: `"t"."published_at" DESC`},
			want:   []string{"ai-breakthrough-in-machine-learning", "quantum-computers", "world-cup-finals"},
		},
		{
			name:   "ByCategoryID",
			search: ArticleSearch{CategoryID: intPtr(2)},
			want:   []string{"world-cup-finals"},
		},
		{
			name:   "ByCategoryNameCaseInsensitive",
			search: ArticleSearch{Status: StatusPublished, CategoryName: "technology", Order: `"t"."published_at" DESC`},
			want:   []string{"ai-breakthrough-in-machine-learning", "quantum-computers"},
		},
		{
			name:   "ByTag",
			search: ArticleSearch{TagID: intPtr(3)},
			want:   []string{"quantum-computers"},
		},
		{
			name:   "ByQuery",
			search: ArticleSearch{Query: "WORLD CUP"},
			want:   []string{"world-cup-finals"},
		},
		{
			name:   "QueryWildcardsAreLiteral",
			search: ArticleSearch{Query: "%"},
			want:   []string{},
		},
		{
			name:   "InteractedBy",
			search: ArticleSearch{InteractedBy: intPtr(TestReaderID), InteractionType: InteractionShared, Order: `"t"."id"`},
			want:   []string{"ai-breakthrough-in-machine-learning", "quantum-computers"},
		},
		{
			name:   "Drafts",
			search: ArticleSearch{Status: StatusDraft},
			want:   []string{"film-festival-preview"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, total, err := repo.Articles(ctx, tt.search, pager)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), total)

			slugs := make([]string, 0, len(list))
			for _, a := range list {
				slugs = append(slugs, a.Slug)
			}
			assert.Equal(t, tt.want, slugs)
		})
	}

	t.Run("AuthorLoaded", func(t *testing.T) {
		list, _, err := repo.Articles(ctx, ArticleSearch{Status: StatusPublished}, Pager{Page: 1, PageSize: 1})
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.NotNil(t, list[0].Author)
		require.NotNil(t, list[0].Author.User)
		assert.Equal(t, "John Doe", list[0].Author.User.Name)
	})

	t.Run("Pagination", func(t *testing.T) {
		page1, total, err := repo.Articles(ctx, ArticleSearch{}, Pager{Page: 1, PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, 4, total)
		assert.Len(t, page1, 3)

		page2, _, err := repo.Articles(ctx, ArticleSearch{}, Pager{Page: 2, PageSize: 3})
		require.NoError(t, err)
		require.Len(t, page2, 1)
		for _, a := range page1 {
			assert.NotEqual(t, a.ID, page2[0].ID)
		}

		_, _, err = repo.Articles(ctx, ArticleSearch{}, Pager{Page: 0, PageSize: 3})
		assert.Error(t, err)
	})
}

func TestRepository_ArticleLifecycle_Integration(t *testing.T) {
	ctx, repo := withTx(t)

	authorID := 1
	article := &Article{
		Title:    "Campus News",
		Slug:     "campus-news",
		Content:  "Body",
		Status:   StatusDraft,
		AuthorID: &authorID,
	}
	require.NoError(t, repo.CreateArticle(ctx, article))
	assert.NotZero(t, article.ID)
	assert.False(t, article.CreatedAt.IsZero())

	t.Run("DuplicateSlugIsConstraintError", func(t *testing.T) {
		dup := &Article{Title: "Dup", Slug: "campus-news", Content: "Body", Status: StatusDraft}
		err := repo.CreateArticle(ctx, dup)
		assert.True(t, IsConstraint(err, ConstraintArticleSlug), "got %v", err)

		// the enclosing transaction is still usable
		_, err = repo.ArticleByID(ctx, article.ID, false)
		assert.NoError(t, err)
	})

	t.Run("SlugExistsExcludesSelf", func(t *testing.T) {
		taken, err := repo.ArticleSlugExists(ctx, "campus-news", 0)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.ArticleSlugExists(ctx, "campus-news", article.ID)
		require.NoError(t, err)
		assert.False(t, taken)
	})

	t.Run("UpdateColumns", func(t *testing.T) {
		article.Title = "Campus News Updated"
		article.Status = StatusPublished
		require.NoError(t, repo.UpdateArticle(ctx, article, Columns.Article.Title, Columns.Article.Status))

		got, err := repo.ArticleBySlug(ctx, "campus-news")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Campus News Updated", got.Title)
		assert.Equal(t, "Body", got.Content)
	})

	t.Run("PublishedOnly", func(t *testing.T) {
		draft, err := repo.ArticleByID(ctx, 4, true)
		require.NoError(t, err)
		assert.Nil(t, draft)

		draft, err = repo.ArticleByID(ctx, 4, false)
		require.NoError(t, err)
		assert.NotNil(t, draft)
	})

	t.Run("SoftDelete", func(t *testing.T) {
		deleted, err := repo.DeleteArticle(ctx, article.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		got, err := repo.ArticleByID(ctx, article.ID, false)
		require.NoError(t, err)
		assert.Nil(t, got)

		taken, err := repo.ArticleSlugExists(ctx, "campus-news", 0)
		require.NoError(t, err)
		assert.True(t, taken, "soft-deleted slug stays reserved")

		deleted, err = repo.DeleteArticle(ctx, article.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("DeleteByAuthor", func(t *testing.T) {
		require.NoError(t, repo.DeleteArticlesByAuthor(ctx, 1))

		count, err := repo.CountArticles(ctx, StatusPublished)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestRepository_Taxonomy_Integration(t *testing.T) {
	ctx, repo := withTx(t)

	categories, err := repo.CategoriesByArticle(ctx, []int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "Technology", categories[1][0].Name)
	assert.Equal(t, "Sports", categories[3][0].Name)

	tags, err := repo.TagsByArticle(ctx, []int{1, 2})
	require.NoError(t, err)
	assert.Len(t, tags[1], 2)
	assert.Len(t, tags[2], 1)

	require.NoError(t, repo.SetArticleTags(ctx, 1, []int{3, 3}))
	tags, err = repo.TagsByArticle(ctx, []int{1})
	require.NoError(t, err)
	require.Len(t, tags[1], 1)
	assert.Equal(t, "analytics", tags[1][0].Slug)

	dup := &Tag{Name: "Hot", Slug: "hot-2"}
	err = repo.CreateTag(ctx, dup)
	assert.True(t, IsConstraint(err, ConstraintTagName), "got %v", err)

	c, err := repo.CategoryByName(ctx, "Culture")
	require.NoError(t, err)
	require.NotNil(t, c)

	taken, err := repo.CategorySlugExists(ctx, "culture", c.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	deleted, err := repo.DeleteCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	categories, err = repo.CategoriesByArticle(ctx, []int{4})
	require.NoError(t, err)
	assert.Empty(t, categories[4])
}

func TestRepository_Interactions_Integration(t *testing.T) {
	ctx, repo := withTx(t)

	created, err := repo.AddInteraction(ctx, TestReaderID, 1, InteractionLiked)
	require.NoError(t, err)
	assert.False(t, created, "duplicate like is ignored")

	count, err := repo.CountInteractions(ctx, 1, InteractionLiked)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	counts, err := repo.InteractionCounts(ctx, []int{1, 2, 3}, InteractionLiked)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 2}, counts)

	liked, err := repo.InteractedArticles(ctx, TestReaderID, []int{1, 2}, InteractionLiked)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true}, liked)

	removed, err := repo.RemoveInteraction(ctx, TestReaderID, 1, InteractionLiked)
	require.NoError(t, err)
	assert.True(t, removed)

	has, err := repo.HasInteraction(ctx, TestReaderID, 1, InteractionLiked)
	require.NoError(t, err)
	assert.False(t, has)

	total, err := repo.TotalInteractions(ctx, InteractionShared)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	require.NoError(t, repo.DeleteInteractionsByUser(ctx, TestReaderID))
	total, err = repo.TotalInteractions(ctx, InteractionShared)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRepository_Users_Integration(t *testing.T) {
	ctx, repo := withTx(t)

	u, err := repo.UserByEmail(ctx, "JOHN@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, TestAuthorUserID, u.ID)

	moderators, total, err := repo.Users(ctx, "moderator", Pager{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "moderator@example.com", moderators[0].Email)

	dup := &User{Name: "Other", Email: "john@example.com", Password: "x", Role: "user"}
	err = repo.CreateUser(ctx, dup)
	assert.True(t, IsConstraint(err, ConstraintUserEmail), "got %v", err)

	t.Run("DeletedUserUnlinksAuthor", func(t *testing.T) {
		deleted, err := repo.DeleteUser(ctx, TestAuthorUserID)
		require.NoError(t, err)
		assert.True(t, deleted)

		author, err := repo.AuthorByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, author)
		assert.Nil(t, author.UserID)
		assert.Nil(t, author.User)
	})

	t.Run("RevokedTokens", func(t *testing.T) {
		require.NoError(t, repo.RevokeToken(ctx, "jti-1", time.Now().Add(time.Hour)))
		require.NoError(t, repo.RevokeToken(ctx, "jti-1", time.Now().Add(time.Hour)))

		revoked, err := repo.IsTokenRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		revoked, err = repo.IsTokenRevoked(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}

func TestRepository_Subscribers_Integration(t *testing.T) {
	ctx, repo := withTx(t)

	s, err := repo.SubscriberByToken(ctx, "test-unsubscribe-token")
	require.NoError(t, err)
	require.NotNil(t, s)

	s.Status = SubscriberInactive
	require.NoError(t, repo.UpdateSubscriber(ctx, s, Columns.Subscriber.Status))

	list, total, err := repo.Subscribers(ctx, SubscriberSearch{Status: SubscriberInactive, Query: "subscriber"}, Pager{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, s.ID, list[0].ID)

	dup := &Subscriber{Email: s.Email, Status: SubscriberActive, UnsubscribeToken: "other", SubscribedAt: time.Now()}
	err = repo.CreateSubscriber(ctx, dup)
	assert.True(t, IsConstraint(err, ConstraintSubscriber), "got %v", err)
}
