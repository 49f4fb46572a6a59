package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

// ArticleSearch narrows an article listing. Zero values mean "no filter".
type ArticleSearch struct {
	Status       string
	AuthorID     *int
	CategoryID   *int
	CategoryName string
	TagID        *int
	Query        string

	// InteractedBy restricts to articles the user has an interaction of InteractionType with.
	InteractedBy    *int
	InteractionType string

	// Order is an SQL ORDER BY expression; defaults to newest first.
	Order string
}

func (r *Repository) articleQuery(ctx context.Context, model interface{}) *orm.Query {
	return r.db.ModelContext(ctx, model).
		Relation("Author").
		Relation("Author.User")
}

func (s ArticleSearch) apply(q *orm.Query) *orm.Query {
	if s.Status != "" {
		q = q.Where(`"t"."status" = ?`, s.Status)
	}

	if s.AuthorID != nil {
		q = q.Where(`"t"."author_id" = ?`, *s.AuthorID)
	}

	if s.CategoryID != nil {
		q = q.Where(`EXISTS (SELECT 1 FROM "article_category" ac WHERE ac."article_id" = "t"."id" AND ac."category_id" = ?)`, *s.CategoryID)
	}

	if s.CategoryName != "" {
		q = q.Where(`EXISTS (
			SELECT 1 FROM "article_category" ac
			JOIN "categories" c ON c."id" = ac."category_id"
			WHERE ac."article_id" = "t"."id" AND lower(c."name") = lower(?))`, s.CategoryName)
	}

	if s.TagID != nil {
		q = q.Where(`EXISTS (SELECT 1 FROM "article_tag" atg WHERE atg."article_id" = "t"."id" AND atg."tag_id" = ?)`, *s.TagID)
	}

	if s.Query != "" {
		pattern := likePattern(s.Query)
		q = q.WhereGroup(func(q *orm.Query) (*orm.Query, error) {
			q = q.WhereOr(`"t"."title" ILIKE ?`, pattern).
				WhereOr(`"t"."content" ILIKE ?`, pattern).
				WhereOr(`"t"."excerpt" ILIKE ?`, pattern)
			return q, nil
		})
	}

	if s.InteractedBy != nil {
		q = q.Where(`EXISTS (
			SELECT 1 FROM "article_user_interactions" i
			WHERE i."article_id" = "t"."id" AND i."user_id" = ? AND i."type" = ?)`, *s.InteractedBy, s.InteractionType)
	}

	if s.Order != "" {
		q = q.OrderExpr(s.Order)
	} else {
		q = q.OrderExpr(`"t"."created_at" DESC, "t"."id" DESC`)
	}

	return q
}

// Articles returns one page of matching articles with author and author user loaded,
// plus the total number of matches.
func (r *Repository) Articles(ctx context.Context, search ArticleSearch, pager Pager) ([]Article, int, error) {
	if err := pager.validate(); err != nil {
		return nil, 0, err
	}

	var articles []Article
	count, err := search.apply(r.articleQuery(ctx, &articles)).
		Limit(pager.PageSize).
		Offset(pager.offset()).
		SelectAndCount()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query articles: %w", err)
	}

	return articles, count, nil
}

// LatestArticles returns up to limit published articles ordered by publication time.
func (r *Repository) LatestArticles(ctx context.Context, limit int) ([]Article, error) {
	var articles []Article
	err := r.articleQuery(ctx, &articles).
		Where(`"t"."status" = ?`, StatusPublished).
		OrderExpr(`"t"."published_at" DESC NULLS LAST, "t"."id" DESC`).
		Limit(limit).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to query latest articles: %w", err)
	}

	return articles, nil
}

// ArticleByID returns the article or nil when it does not exist (or is not
// published while publishedOnly is set).
func (r *Repository) ArticleByID(ctx context.Context, id int, publishedOnly bool) (*Article, error) {
	article := &Article{}
	q := r.articleQuery(ctx, article).Where(`"t"."id" = ?`, id)
	if publishedOnly {
		q = q.Where(`"t"."status" = ?`, StatusPublished)
	}

	err := q.Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get article by id: %w", err)
	}

	return article, nil
}

// ArticleBySlug returns the published article with the given slug.
func (r *Repository) ArticleBySlug(ctx context.Context, slug string) (*Article, error) {
	article := &Article{}
	err := r.articleQuery(ctx, article).
		Where(`"t"."slug" = ?`, slug).
		Where(`"t"."status" = ?`, StatusPublished).
		Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get article by slug: %w", err)
	}

	return article, nil
}

// ArticleSlugExists checks slug usage including soft-deleted rows, which still
// hold the unique index.
func (r *Repository) ArticleSlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	q := r.db.ModelContext(ctx, (*Article)(nil)).
		AllWithDeleted().
		Where(`"t"."slug" = ?`, slug)
	if excludeID > 0 {
		q = q.Where(`"t"."id" <> ?`, excludeID)
	}

	exists, err := q.Exists()
	if err != nil {
		return false, fmt.Errorf("failed to check article slug: %w", err)
	}

	return exists, nil
}

func (r *Repository) CreateArticle(ctx context.Context, article *Article) error {
	now := time.Now()
	article.CreatedAt, article.UpdatedAt = now, now

	return r.savepoint(ctx, "create_article", func() error {
		if _, err := r.db.ModelContext(ctx, article).Returning("*").Insert(); err != nil {
			return writeErr("failed to create article", err)
		}
		return nil
	})
}

// UpdateArticle writes the listed columns; updated_at is always refreshed.
func (r *Repository) UpdateArticle(ctx context.Context, article *Article, columns ...string) error {
	article.UpdatedAt = time.Now()
	columns = append(columns, Columns.Article.UpdatedAt)

	if _, err := r.db.ModelContext(ctx, article).Column(columns...).WherePK().Update(); err != nil {
		return writeErr("failed to update article", err)
	}

	return nil
}

// DeleteArticle soft-deletes the article. It reports false if nothing was deleted.
func (r *Repository) DeleteArticle(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ModelContext(ctx, &Article{ID: id}).WherePK().Delete()
	if err != nil {
		return false, fmt.Errorf("failed to delete article: %w", err)
	}

	return res.RowsAffected() > 0, nil
}

// DeleteArticlesByAuthor soft-deletes every article of the author.
func (r *Repository) DeleteArticlesByAuthor(ctx context.Context, authorID int) error {
	_, err := r.db.ModelContext(ctx, (*Article)(nil)).
		Set(`"deleted_at" = now()`).
		Where(`"t"."author_id" = ?`, authorID).
		Update()
	if err != nil {
		return fmt.Errorf("failed to delete author articles: %w", err)
	}

	return nil
}

// CountArticles counts live articles, optionally restricted to a status.
func (r *Repository) CountArticles(ctx context.Context, status string) (int, error) {
	q := r.db.ModelContext(ctx, (*Article)(nil))
	if status != "" {
		q = q.Where(`"t"."status" = ?`, status)
	}

	count, err := q.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}

	return count, nil
}

// CountAuthorArticles counts live articles of the author in any status.
func (r *Repository) CountAuthorArticles(ctx context.Context, authorID int) (int, error) {
	count, err := r.db.ModelContext(ctx, (*Article)(nil)).
		Where(`"t"."author_id" = ?`, authorID).
		Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count author articles: %w", err)
	}

	return count, nil
}
