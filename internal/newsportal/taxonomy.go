package newsportal

import (
	"context"
	"fmt"
	"strings"

	"github.com/daniilsolovey/news-herald/internal/db"
	"github.com/samber/lo"
)

type CategoryArticles struct {
	Category Category
	Articles Page[Article]
}

type TagArticles struct {
	Tag      Tag
	Articles Page[Article]
}

func (m *Manager) categorySlugRecord() slugRecord {
	return slugRecord{kind: "category", exists: m.db.CategorySlugExists, constraint: db.ConstraintCategorySlug}
}

func (m *Manager) tagSlugRecord() slugRecord {
	return slugRecord{kind: "tag", exists: m.db.TagSlugExists, constraint: db.ConstraintTagSlug}
}

func (m *Manager) Categories(ctx context.Context) ([]Category, error) {
	list, err := cached(ctx, m.cache, "categories", cacheTagTaxonomy, func() ([]db.Category, error) {
		return m.db.Categories(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("db get categories: %w", err)
	}

	return NewCategories(list), nil
}

func (m *Manager) Tags(ctx context.Context) ([]Tag, error) {
	list, err := cached(ctx, m.cache, "tags", cacheTagTaxonomy, func() ([]db.Tag, error) {
		return m.db.Tags(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("db get tags: %w", err)
	}

	return NewTags(list), nil
}

func (m *Manager) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	c, err := m.db.CategoryBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("db get category: %w", err)
	} else if c == nil {
		return nil, notFound("category", slug)
	}

	category := NewCategory(c)
	return &category, nil
}

func (m *Manager) TagBySlug(ctx context.Context, slug string) (*Tag, error) {
	t, err := m.db.TagBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("db get tag: %w", err)
	} else if t == nil {
		return nil, notFound("tag", slug)
	}

	tag := NewTag(t)
	return &tag, nil
}

// CategoryArticles returns the category with a page of its published articles.
func (m *Manager) CategoryArticles(ctx context.Context, slug string, p Pagination, viewer Viewer) (*CategoryArticles, error) {
	category, err := m.CategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	page, err := m.articlePage(ctx, db.ArticleSearch{
		Status:     db.StatusPublished,
		CategoryID: &category.ID,
		Order:      orderPublished,
	}, p, viewer)
	if err != nil {
		return nil, err
	}

	return &CategoryArticles{Category: *category, Articles: page}, nil
}

// TagArticles returns the tag with a page of its published articles.
func (m *Manager) TagArticles(ctx context.Context, slug string, p Pagination, viewer Viewer) (*TagArticles, error) {
	tag, err := m.TagBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	page, err := m.articlePage(ctx, db.ArticleSearch{
		Status: db.StatusPublished,
		TagID:  &tag.ID,
		Order:  orderPublished,
	}, p, viewer)
	if err != nil {
		return nil, err
	}

	return &TagArticles{Tag: *tag, Articles: page}, nil
}

func (m *Manager) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := validName("name", name); err != nil {
		return nil, err
	}

	c := &db.Category{Name: name, Description: in.Description}
	err := m.insertWithSlug(ctx, m.categorySlugRecord(), name, lo.FromPtr(in.Slug),
		func(s string) { c.Slug = s },
		func() error { return m.db.CreateCategory(ctx, c) },
	)
	if db.IsConstraint(err, db.ConstraintCategoryName) {
		return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	} else if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	m.cache.invalidate(ctx, cacheTagTaxonomy)
	m.logger.InfoContext(ctx, "category created", "id", c.ID, "slug", c.Slug)

	category := NewCategory(c)
	return &category, nil
}

func (m *Manager) UpdateCategory(ctx context.Context, id int, in CategoryInput) (*Category, error) {
	name := strings.TrimSpace(in.Name)
	if err := validName("name", name); err != nil {
		return nil, err
	}

	c, err := m.db.CategoryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("db get category: %w", err)
	} else if c == nil {
		return nil, notFound("category", id)
	}

	nameChanged := c.Name != name
	newSlug, _, err := resolveSlug(ctx, m.categorySlugRecord(), c.ID, name, c.Slug, nameChanged, in.Slug)
	if err != nil {
		return nil, err
	}

	c.Name = name
	c.Slug = newSlug
	if in.Description != nil {
		c.Description = in.Description
	}

	err = m.db.UpdateCategory(ctx, c)
	switch {
	case db.IsConstraint(err, db.ConstraintCategoryName):
		return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	case db.IsConstraint(err, db.ConstraintCategorySlug):
		return nil, fmt.Errorf("%w: category slug %q is taken", ErrConflict, c.Slug)
	case err != nil:
		return nil, fmt.Errorf("update category: %w", err)
	}

	m.cache.invalidate(ctx, cacheTagTaxonomy, cacheTagArticles)

	category := NewCategory(c)
	return &category, nil
}

func (m *Manager) DeleteCategory(ctx context.Context, id int) error {
	deleted, err := m.db.DeleteCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("db delete category: %w", err)
	} else if !deleted {
		return notFound("category", id)
	}

	m.cache.invalidate(ctx, cacheTagTaxonomy, cacheTagArticles)
	m.logger.InfoContext(ctx, "category deleted", "id", id)

	return nil
}

func (m *Manager) CreateTag(ctx context.Context, in TagInput) (*Tag, error) {
	name := strings.TrimSpace(in.Name)
	if err := validName("name", name); err != nil {
		return nil, err
	}

	t := &db.Tag{Name: name}
	err := m.insertWithSlug(ctx, m.tagSlugRecord(), name, lo.FromPtr(in.Slug),
		func(s string) { t.Slug = s },
		func() error { return m.db.CreateTag(ctx, t) },
	)
	if db.IsConstraint(err, db.ConstraintTagName) {
		return nil, fmt.Errorf("%w: tag %q already exists", ErrConflict, name)
	} else if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	m.cache.invalidate(ctx, cacheTagTaxonomy)
	m.logger.InfoContext(ctx, "tag created", "id", t.ID, "slug", t.Slug)

	tag := NewTag(t)
	return &tag, nil
}

func (m *Manager) UpdateTag(ctx context.Context, id int, in TagInput) (*Tag, error) {
	name := strings.TrimSpace(in.Name)
	if err := validName("name", name); err != nil {
		return nil, err
	}

	t, err := m.db.TagByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("db get tag: %w", err)
	} else if t == nil {
		return nil, notFound("tag", id)
	}

	nameChanged := t.Name != name
	newSlug, _, err := resolveSlug(ctx, m.tagSlugRecord(), t.ID, name, t.Slug, nameChanged, in.Slug)
	if err != nil {
		return nil, err
	}

	t.Name = name
	t.Slug = newSlug

	err = m.db.UpdateTag(ctx, t)
	switch {
	case db.IsConstraint(err, db.ConstraintTagName):
		return nil, fmt.Errorf("%w: tag %q already exists", ErrConflict, name)
	case db.IsConstraint(err, db.ConstraintTagSlug):
		return nil, fmt.Errorf("%w: tag slug %q is taken", ErrConflict, t.Slug)
	case err != nil:
		return nil, fmt.Errorf("update tag: %w", err)
	}

	m.cache.invalidate(ctx, cacheTagTaxonomy, cacheTagArticles)

	tag := NewTag(t)
	return &tag, nil
}

func (m *Manager) DeleteTag(ctx context.Context, id int) error {
	deleted, err := m.db.DeleteTag(ctx, id)
	if err != nil {
		return fmt.Errorf("db delete tag: %w", err)
	} else if !deleted {
		return notFound("tag", id)
	}

	m.cache.invalidate(ctx, cacheTagTaxonomy, cacheTagArticles)
	m.logger.InfoContext(ctx, "tag deleted", "id", id)

	return nil
}

// firstOrCreateCategory returns the category with the exact name, creating it
// when missing.
func (m *Manager) firstOrCreateCategory(ctx context.Context, name string) (*db.Category, error) {
	c, err := m.db.CategoryByName(ctx, name)
	if err != nil || c != nil {
		return c, err
	}

	c = &db.Category{Name: name}
	err = m.insertWithSlug(ctx, m.categorySlugRecord(), name, "",
		func(s string) { c.Slug = s },
		func() error { return m.db.CreateCategory(ctx, c) },
	)
	if db.IsConstraint(err, db.ConstraintCategoryName) {
		return m.db.CategoryByName(ctx, name)
	} else if err != nil {
		return nil, fmt.Errorf("create category %q: %w", name, err)
	}

	return c, nil
}

func (m *Manager) firstOrCreateTag(ctx context.Context, name string) (*db.Tag, error) {
	t, err := m.db.TagByName(ctx, name)
	if err != nil || t != nil {
		return t, err
	}

	t = &db.Tag{Name: name}
	err = m.insertWithSlug(ctx, m.tagSlugRecord(), name, "",
		func(s string) { t.Slug = s },
		func() error { return m.db.CreateTag(ctx, t) },
	)
	if db.IsConstraint(err, db.ConstraintTagName) {
		return m.db.TagByName(ctx, name)
	} else if err != nil {
		return nil, fmt.Errorf("create tag %q: %w", name, err)
	}

	return t, nil
}

// firstOrCreateTags resolves tag names to ids, creating missing tags. Names
// are trimmed; blanks and duplicates are dropped.
func (m *Manager) firstOrCreateTags(ctx context.Context, names []string) ([]int, error) {
	names = lo.Uniq(lo.Compact(lo.Map(names, func(n string, _ int) string {
		return strings.TrimSpace(n)
	})))

	ids := make([]int, 0, len(names))
	for _, name := range names {
		if len([]rune(name)) > maxNameLength {
			return nil, invalid("tags", fmt.Sprintf("tag names must not exceed %d characters", maxNameLength))
		}

		t, err := m.firstOrCreateTag(ctx, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}

	return ids, nil
}
