package newsportal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/daniilsolovey/news-herald/internal/auth"
	"github.com/daniilsolovey/news-herald/internal/db"
	"github.com/go-pg/pg/v10"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func takenSlugs(slugs ...string) func(ctx context.Context, s string, excludeID int) (bool, error) {
	return func(_ context.Context, s string, _ int) (bool, error) {
		return lo.Contains(slugs, s), nil
	}
}

func TestExcerpt(t *testing.T) {
	short := "Short content."
	assert.Equal(t, short, excerpt(short))

	long := strings.Repeat("a", 149) + " " + strings.Repeat("b", 20)
	got := excerpt(long)
	assert.Equal(t, strings.Repeat("a", 149)+"...", got)

	cyrillic := strings.Repeat("я", 200)
	assert.Equal(t, strings.Repeat("я", 150)+"...", excerpt(cyrillic))
}

func TestImageURLBuilder(t *testing.T) {
	path := "articles/cover.jpg"

	local := NewImageURLBuilder(EnvLocal, "https://news.example.com")
	assert.Equal(t, "/storage/articles/cover.jpg", lo.FromPtr(local.URL(&path)))

	prod := NewImageURLBuilder("production", "https://news.example.com/")
	assert.Equal(t, "https://news.example.com/storage/articles/cover.jpg", lo.FromPtr(prod.URL(&path)))

	assert.Nil(t, prod.URL(nil))
	assert.Nil(t, prod.URL(lo.ToPtr("")))
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name string
		in   Pagination
		want db.Pager
	}{
		{"Defaults", Pagination{}, db.Pager{Page: 1, PageSize: 10}},
		{"Explicit", Pagination{Page: 3, PageSize: 25}, db.Pager{Page: 3, PageSize: 25}},
		{"Capped", Pagination{Page: 1, PageSize: 1000}, db.Pager{Page: 1, PageSize: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.pager())
		})
	}

	assert.Equal(t, 1, Page[int]{}.LastPage())
	assert.Equal(t, 3, Page[int]{Total: 21, PageSize: 10}.LastPage())
	assert.Equal(t, 2, Page[int]{Total: 20, PageSize: 10}.LastPage())
	assert.NotNil(t, newPage[int](nil, 0, db.Pager{Page: 1, PageSize: 10}).Items)
}

func TestStatusSearch(t *testing.T) {
	admin := Viewer{UserID: 1, Role: string(auth.RoleAdmin)}
	moderator := Viewer{UserID: 2, Role: string(auth.RoleModerator)}

	search, err := statusSearch("", Viewer{})
	require.NoError(t, err)
	assert.Equal(t, db.StatusPublished, search.Status)

	_, err = statusSearch(db.StatusDraft, moderator)
	assert.ErrorIs(t, err, ErrForbidden)

	search, err = statusSearch(db.StatusDraft, admin)
	require.NoError(t, err)
	assert.Equal(t, db.StatusDraft, search.Status)

	_, err = statusSearch("deleted", admin)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestResolveSlug(t *testing.T) {
	ctx := context.Background()
	rec := slugRecord{kind: "article", exists: takenSlugs("taken", "new-title"), constraint: db.ConstraintArticleSlug}

	tests := []struct {
		name        string
		title       string
		current     string
		nameChanged bool
		requested   *string
		want        string
		changed     bool
		wantErr     error
	}{
		{name: "KeptOnTitleEdit", title: "New Title", current: "old-title", nameChanged: true, want: "old-title"},
		{name: "GeneratedWhenEmpty", title: "New Title", current: "", nameChanged: true, want: "new-title-1", changed: true},
		{name: "ExplicitSlugNormalized", title: "T", current: "old", requested: lo.ToPtr("My Custom Slug"), want: "my-custom-slug", changed: true},
		{name: "ExplicitSameSlug", title: "T", current: "old", requested: lo.ToPtr("old"), want: "old"},
		{name: "ExplicitTakenSlug", title: "T", current: "old", requested: lo.ToPtr("taken"), wantErr: ErrConflict},
		{name: "ClearedWithTitleChange", title: "Fresh", current: "old", nameChanged: true, requested: lo.ToPtr(""), want: "fresh", changed: true},
		{name: "ClearedWithoutTitleChange", title: "Fresh", current: "old", requested: lo.ToPtr(" "), want: "old"},
		{name: "UnsluggableExplicit", title: "T", current: "old", requested: lo.ToPtr("!!!"), wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := resolveSlug(ctx, rec, 7, tt.title, tt.current, tt.nameChanged, tt.requested)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}

func uniqueViolation(constraint string) error {
	return &db.ConstraintError{Constraint: constraint}
}

func TestInsertWithSlug(t *testing.T) {
	ctx := context.Background()
	m := &Manager{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	t.Run("GeneratedSlugFromName", func(t *testing.T) {
		rec := slugRecord{kind: "article", exists: takenSlugs("campus-news"), constraint: db.ConstraintArticleSlug}

		var got string
		err := m.insertWithSlug(ctx, rec, "Campus News!", "", func(s string) { got = s }, func() error { return nil })
		require.NoError(t, err)
		assert.Equal(t, "campus-news-1", got)
	})

	t.Run("UnsluggableNameFallsBackToKind", func(t *testing.T) {
		rec := slugRecord{kind: "tag", exists: takenSlugs(), constraint: db.ConstraintTagSlug}

		var got string
		err := m.insertWithSlug(ctx, rec, "Новости", "", func(s string) { got = s }, func() error { return nil })
		require.NoError(t, err)
		assert.Equal(t, "tag", got)
	})

	t.Run("ConcurrentCollisionIsRetried", func(t *testing.T) {
		rec := slugRecord{kind: "article", exists: takenSlugs(), constraint: db.ConstraintArticleSlug}

		inserts := 0
		err := m.insertWithSlug(ctx, rec, "Hello", "", func(string) {}, func() error {
			inserts++
			if inserts < 2 {
				return uniqueViolation(db.ConstraintArticleSlug)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, inserts)
	})

	t.Run("RetriesExhausted", func(t *testing.T) {
		rec := slugRecord{kind: "article", exists: takenSlugs(), constraint: db.ConstraintArticleSlug}

		inserts := 0
		err := m.insertWithSlug(ctx, rec, "Hello", "", func(string) {}, func() error {
			inserts++
			return uniqueViolation(db.ConstraintArticleSlug)
		})
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, slugRetries, inserts)
	})

	t.Run("ExplicitSlugCollisionIsConflict", func(t *testing.T) {
		rec := slugRecord{kind: "category", exists: takenSlugs(), constraint: db.ConstraintCategorySlug}

		var got string
		err := m.insertWithSlug(ctx, rec, "Tech", "Tech Stuff", func(s string) { got = s }, func() error {
			return uniqueViolation(db.ConstraintCategorySlug)
		})
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, "tech-stuff", got)
	})

	t.Run("OtherErrorsPassThrough", func(t *testing.T) {
		rec := slugRecord{kind: "category", exists: takenSlugs(), constraint: db.ConstraintCategorySlug}
		boom := errors.New("boom")

		err := m.insertWithSlug(ctx, rec, "Tech", "", func(string) {}, func() error { return boom })
		assert.ErrorIs(t, err, boom)
	})
}

func TestNewAuthor(t *testing.T) {
	orphan := NewAuthor(&db.Author{ID: 3})
	assert.Equal(t, UnknownAuthor, orphan.Name)
	assert.NotNil(t, orphan.SocialLinks)

	linked := NewAuthor(&db.Author{ID: 3, User: &db.User{Name: "Jane", Email: "jane@example.com"}})
	assert.Equal(t, "Jane", linked.Name)
	assert.Equal(t, "jane@example.com", linked.Email)
}

func TestValidationError(t *testing.T) {
	err := invalid("title", "is required")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: title: is required", err.Error())

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "is required", verr.Fields["title"])

	assert.ErrorIs(t, notFound("article", 5), ErrNotFound)
	assert.False(t, db.IsConstraint(pg.ErrNoRows, db.ConstraintArticleSlug))
}
