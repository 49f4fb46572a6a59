package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"
)

func (r *Repository) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := r.db.ModelContext(ctx, &categories).
		OrderExpr(`"t"."name" ASC`).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	return categories, nil
}

func (r *Repository) CategoryByID(ctx context.Context, id int) (*Category, error) {
	return r.category(ctx, `"t"."id" = ?`, id)
}

func (r *Repository) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	return r.category(ctx, `"t"."slug" = ?`, slug)
}

func (r *Repository) CategoryByName(ctx context.Context, name string) (*Category, error) {
	return r.category(ctx, `"t"."name" = ?`, name)
}

func (r *Repository) category(ctx context.Context, where string, param interface{}) (*Category, error) {
	category := &Category{}
	err := r.db.ModelContext(ctx, category).Where(where, param).Limit(1).Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

func (r *Repository) CategorySlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	q := r.db.ModelContext(ctx, (*Category)(nil)).Where(`"t"."slug" = ?`, slug)
	if excludeID > 0 {
		q = q.Where(`"t"."id" <> ?`, excludeID)
	}

	exists, err := q.Exists()
	if err != nil {
		return false, fmt.Errorf("failed to check category slug: %w", err)
	}

	return exists, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *Category) error {
	now := time.Now()
	category.CreatedAt, category.UpdatedAt = now, now

	return r.savepoint(ctx, "create_category", func() error {
		if _, err := r.db.ModelContext(ctx, category).Returning("*").Insert(); err != nil {
			return writeErr("failed to create category", err)
		}
		return nil
	})
}

func (r *Repository) UpdateCategory(ctx context.Context, category *Category) error {
	category.UpdatedAt = time.Now()

	_, err := r.db.ModelContext(ctx, category).
		Column(Columns.Category.Name, Columns.Category.Slug, Columns.Category.Description, Columns.Category.UpdatedAt).
		WherePK().
		Update()
	if err != nil {
		return writeErr("failed to update category", err)
	}

	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ModelContext(ctx, &Category{ID: id}).WherePK().Delete()
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}

	return res.RowsAffected() > 0, nil
}

func (r *Repository) Tags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	err := r.db.ModelContext(ctx, &tags).
		OrderExpr(`"t"."name" ASC`).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}

	return tags, nil
}

func (r *Repository) TagByID(ctx context.Context, id int) (*Tag, error) {
	return r.tag(ctx, `"t"."id" = ?`, id)
}

func (r *Repository) TagBySlug(ctx context.Context, slug string) (*Tag, error) {
	return r.tag(ctx, `"t"."slug" = ?`, slug)
}

func (r *Repository) TagByName(ctx context.Context, name string) (*Tag, error) {
	return r.tag(ctx, `"t"."name" = ?`, name)
}

func (r *Repository) tag(ctx context.Context, where string, param interface{}) (*Tag, error) {
	tag := &Tag{}
	err := r.db.ModelContext(ctx, tag).Where(where, param).Limit(1).Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return tag, nil
}

func (r *Repository) TagSlugExists(ctx context.Context, slug string, excludeID int) (bool, error) {
	q := r.db.ModelContext(ctx, (*Tag)(nil)).Where(`"t"."slug" = ?`, slug)
	if excludeID > 0 {
		q = q.Where(`"t"."id" <> ?`, excludeID)
	}

	exists, err := q.Exists()
	if err != nil {
		return false, fmt.Errorf("failed to check tag slug: %w", err)
	}

	return exists, nil
}

func (r *Repository) CreateTag(ctx context.Context, tag *Tag) error {
	now := time.Now()
	tag.CreatedAt, tag.UpdatedAt = now, now

	return r.savepoint(ctx, "create_tag", func() error {
		if _, err := r.db.ModelContext(ctx, tag).Returning("*").Insert(); err != nil {
			return writeErr("failed to create tag", err)
		}
		return nil
	})
}

func (r *Repository) UpdateTag(ctx context.Context, tag *Tag) error {
	tag.UpdatedAt = time.Now()

	_, err := r.db.ModelContext(ctx, tag).
		Column(Columns.Tag.Name, Columns.Tag.Slug, Columns.Tag.UpdatedAt).
		WherePK().
		Update()
	if err != nil {
		return writeErr("failed to update tag", err)
	}

	return nil
}

func (r *Repository) DeleteTag(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ModelContext(ctx, &Tag{ID: id}).WherePK().Delete()
	if err != nil {
		return false, fmt.Errorf("failed to delete tag: %w", err)
	}

	return res.RowsAffected() > 0, nil
}

// CategoriesByArticle loads categories for a batch of articles keyed by article id.
func (r *Repository) CategoriesByArticle(ctx context.Context, articleIDs []int) (map[int][]Category, error) {
	result := make(map[int][]Category, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	var links []ArticleCategory
	err := r.db.ModelContext(ctx, &links).
		Where(`"t"."article_id" IN (?)`, pg.In(articleIDs)).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to query article categories: %w", err)
	}
	if len(links) == 0 {
		return result, nil
	}

	ids := make([]int, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.CategoryID)
	}

	var categories []Category
	err = r.db.ModelContext(ctx, &categories).
		Where(`"t"."id" IN (?)`, pg.In(ids)).
		OrderExpr(`"t"."name" ASC`).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to query categories by ids: %w", err)
	}

	byID := make(map[int]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	for _, l := range links {
		if c, ok := byID[l.CategoryID]; ok {
			result[l.ArticleID] = append(result[l.ArticleID], c)
		}
	}

	return result, nil
}

// TagsByArticle loads tags for a batch of articles keyed by article id.
func (r *Repository) TagsByArticle(ctx context.Context, articleIDs []int) (map[int][]Tag, error) {
	result := make(map[int][]Tag, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	var links []ArticleTag
	err := r.db.ModelContext(ctx, &links).
		Where(`"t"."article_id" IN (?)`, pg.In(articleIDs)).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to query article tags: %w", err)
	}
	if len(links) == 0 {
		return result, nil
	}

	ids := make([]int, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.TagID)
	}

	var tags []Tag
	err = r.db.ModelContext(ctx, &tags).
		Where(`"t"."id" IN (?)`, pg.In(ids)).
		OrderExpr(`"t"."name" ASC`).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to query tags by ids: %w", err)
	}

	byID := make(map[int]Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	for _, l := range links {
		if t, ok := byID[l.TagID]; ok {
			result[l.ArticleID] = append(result[l.ArticleID], t)
		}
	}

	return result, nil
}

// SetArticleCategories replaces the article's category links.
func (r *Repository) SetArticleCategories(ctx context.Context, articleID int, categoryIDs []int) error {
	_, err := r.db.ModelContext(ctx, (*ArticleCategory)(nil)).
		Where(`"t"."article_id" = ?`, articleID).
		Delete()
	if err != nil {
		return fmt.Errorf("failed to clear article categories: %w", err)
	}
	if len(categoryIDs) == 0 {
		return nil
	}

	links := make([]ArticleCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		links = append(links, ArticleCategory{ArticleID: articleID, CategoryID: id})
	}

	if _, err := r.db.ModelContext(ctx, &links).OnConflict("DO NOTHING").Insert(); err != nil {
		return fmt.Errorf("failed to link article categories: %w", err)
	}

	return nil
}

// SetArticleTags replaces the article's tag links.
func (r *Repository) SetArticleTags(ctx context.Context, articleID int, tagIDs []int) error {
	_, err := r.db.ModelContext(ctx, (*ArticleTag)(nil)).
		Where(`"t"."article_id" = ?`, articleID).
		Delete()
	if err != nil {
		return fmt.Errorf("failed to clear article tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}

	links := make([]ArticleTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, ArticleTag{ArticleID: articleID, TagID: id})
	}

	if _, err := r.db.ModelContext(ctx, &links).OnConflict("DO NOTHING").Insert(); err != nil {
		return fmt.Errorf("failed to link article tags: %w", err)
	}

	return nil
}
