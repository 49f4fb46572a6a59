package newsportal

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/daniilsolovey/news-herald/internal/auth"
	"github.com/daniilsolovey/news-herald/internal/db"
	"github.com/samber/lo"
)

const (
	excerptLength   = 150
	latestDefault   = 6
	latestMax       = 50
	searchMinLength = 3
	searchLimit     = 20

	orderPublished = `"t"."published_at" DESC NULLS LAST, "t"."id" DESC`
	orderCreated   = `"t"."created_at" DESC, "t"."id" DESC`
)

// excerpt cuts content to excerptLength runes and marks the cut with "...".
func excerpt(content string) string {
	r := []rune(content)
	if len(r) <= excerptLength {
		return content
	}

	return strings.TrimRightFunc(string(r[:excerptLength]), unicode.IsSpace) + "..."
}

func validStatus(status string) bool {
	switch status {
	case db.StatusDraft, db.StatusPublished, db.StatusArchived:
		return true
	}
	return false
}

// articleRows are article rows with their categories and tags, ready to be
// presented to any viewer.
type articleRows struct {
	Articles   []db.Article
	Categories map[int][]db.Category
	Tags       map[int][]db.Tag
}

func (m *Manager) withRelations(ctx context.Context, rows []db.Article) (articleRows, error) {
	ids := lo.Map(rows, func(a db.Article, _ int) int { return a.ID })

	categories, err := m.db.CategoriesByArticle(ctx, ids)
	if err != nil {
		return articleRows{}, fmt.Errorf("db get article categories: %w", err)
	}

	tags, err := m.db.TagsByArticle(ctx, ids)
	if err != nil {
		return articleRows{}, fmt.Errorf("db get article tags: %w", err)
	}

	return articleRows{Articles: rows, Categories: categories, Tags: tags}, nil
}

// present converts rows and attaches aggregates computed in bulk for the viewer.
func (m *Manager) present(ctx context.Context, rows articleRows, viewer Viewer) (Articles, error) {
	list := NewArticles(rows.Articles, m.images)
	list.SetCategories(rows.Categories)
	list.SetTags(rows.Tags)

	precomputed, err := m.aggregator.Precompute(ctx, list.IDs(), viewer)
	if err != nil {
		return nil, fmt.Errorf("aggregate interactions: %w", err)
	}

	for i := range list {
		pre := precomputed[list[i].ID]
		if list[i].Aggregates, err = m.aggregator.Aggregate(ctx, list[i].ID, viewer, &pre); err != nil {
			return nil, err
		}
	}

	return list, nil
}

// single presents one article, computing its aggregates directly.
func (m *Manager) single(ctx context.Context, row *db.Article, viewer Viewer) (*Article, error) {
	rows, err := m.withRelations(ctx, []db.Article{*row})
	if err != nil {
		return nil, err
	}

	list := NewArticles(rows.Articles, m.images)
	list.SetCategories(rows.Categories)
	list.SetTags(rows.Tags)

	article := list[0]
	if article.Aggregates, err = m.aggregator.Aggregate(ctx, article.ID, viewer, nil); err != nil {
		return nil, err
	}

	return &article, nil
}

func (m *Manager) articlePage(ctx context.Context, search db.ArticleSearch, p Pagination, viewer Viewer) (Page[Article], error) {
	pager := p.pager()

	rows, total, err := m.db.Articles(ctx, search, pager)
	if err != nil {
		return Page[Article]{}, fmt.Errorf("db get articles: %w", err)
	}

	withRel, err := m.withRelations(ctx, rows)
	if err != nil {
		return Page[Article]{}, err
	}

	list, err := m.present(ctx, withRel, viewer)
	if err != nil {
		return Page[Article]{}, err
	}

	return newPage([]Article(list), total, pager), nil
}

// statusSearch builds the base search for a requested status. Only admins may
// list articles that are not published.
func statusSearch(status string, viewer Viewer) (db.ArticleSearch, error) {
	if status == "" || status == db.StatusPublished {
		return db.ArticleSearch{Status: db.StatusPublished, Order: orderPublished}, nil
	}

	if !validStatus(status) {
		return db.ArticleSearch{}, invalid("status", "must be one of draft, published, archived")
	}

	if !auth.IsAdmin(viewer) {
		return db.ArticleSearch{}, fmt.Errorf("%w: admin access required for %s articles", ErrForbidden, status)
	}

	return db.ArticleSearch{Status: status, Order: orderCreated}, nil
}

// Articles lists articles by status (published by default) and category name.
func (m *Manager) Articles(ctx context.Context, f ArticleFilter, viewer Viewer) (Page[Article], error) {
	search, err := statusSearch(f.Status, viewer)
	if err != nil {
		return Page[Article]{}, err
	}

	search.CategoryName = strings.TrimSpace(f.Category)
	search.AuthorID = f.AuthorID

	return m.articlePage(ctx, search, f.Pagination, viewer)
}

func (m *Manager) PublicArticles(ctx context.Context, p Pagination, viewer Viewer) (Page[Article], error) {
	return m.articlePage(ctx, db.ArticleSearch{Status: db.StatusPublished, Order: orderPublished}, p, viewer)
}

// SearchArticles finds published articles whose title, content or excerpt contain q.
func (m *Manager) SearchArticles(ctx context.Context, q string, viewer Viewer) ([]Article, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < searchMinLength {
		return nil, invalid("q", fmt.Sprintf("must be at least %d characters", searchMinLength))
	}

	page, err := m.articlePage(ctx, db.ArticleSearch{
		Status: db.StatusPublished,
		Query:  q,
		Order:  orderPublished,
	}, Pagination{Page: 1, PageSize: searchLimit}, viewer)
	if err != nil {
		return nil, err
	}

	return page.Items, nil
}

// LatestArticles returns the n most recently published articles.
func (m *Manager) LatestArticles(ctx context.Context, n int, viewer Viewer) ([]Article, error) {
	if n < 1 {
		n = latestDefault
	} else if n > latestMax {
		n = latestMax
	}

	rows, err := cached(ctx, m.cache, fmt.Sprintf("articles:latest:%d", n), cacheTagArticles, func() (articleRows, error) {
		list, err := m.db.LatestArticles(ctx, n)
		if err != nil {
			return articleRows{}, fmt.Errorf("db get latest articles: %w", err)
		}
		return m.withRelations(ctx, list)
	})
	if err != nil {
		return nil, err
	}

	return m.present(ctx, rows, viewer)
}

// Article returns an article by id. Admins and moderators see every status,
// everyone else only published articles.
func (m *Manager) Article(ctx context.Context, id int, viewer Viewer) (*Article, error) {
	publishedOnly := !auth.HasAnyRole(viewer, auth.RoleAdmin, auth.RoleModerator)
	return m.articleByID(ctx, id, publishedOnly, viewer)
}

func (m *Manager) PublishedArticle(ctx context.Context, id int, viewer Viewer) (*Article, error) {
	return m.articleByID(ctx, id, true, viewer)
}

func (m *Manager) articleByID(ctx context.Context, id int, publishedOnly bool, viewer Viewer) (*Article, error) {
	row, err := m.db.ArticleByID(ctx, id, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("db get article: %w", err)
	} else if row == nil {
		return nil, notFound("article", id)
	}

	return m.single(ctx, row, viewer)
}

func (m *Manager) ArticleBySlug(ctx context.Context, slug string, viewer Viewer) (*Article, error) {
	row, err := cached(ctx, m.cache, "articles:slug:"+slug, cacheTagArticles, func() (*db.Article, error) {
		return m.db.ArticleBySlug(ctx, slug)
	})
	if err != nil {
		return nil, fmt.Errorf("db get article by slug: %w", err)
	} else if row == nil {
		return nil, notFound("article", slug)
	}

	return m.single(ctx, row, viewer)
}

// ArticlesByAuthor lists an author's articles together with the author profile
// and the author's total article count.
func (m *Manager) ArticlesByAuthor(ctx context.Context, authorID int, status string, p Pagination, viewer Viewer) (*AuthorArticles, error) {
	author, err := m.db.AuthorByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("db get author: %w", err)
	} else if author == nil {
		return nil, notFound("author", authorID)
	}

	return m.authorArticles(ctx, author, status, p, viewer)
}

// AuthorArticlesByName is ArticlesByAuthor for the author whose user has the
// given name or email.
func (m *Manager) AuthorArticlesByName(ctx context.Context, nameOrEmail, status string, p Pagination, viewer Viewer) (*AuthorArticles, error) {
	author, err := m.authorByUser(ctx, nameOrEmail, m.db.UserByNameOrEmail)
	if err != nil {
		return nil, err
	}

	return m.authorArticles(ctx, author, status, p, viewer)
}

func (m *Manager) authorArticles(ctx context.Context, author *db.Author, status string, p Pagination, viewer Viewer) (*AuthorArticles, error) {
	search, err := statusSearch(status, viewer)
	if err != nil {
		return nil, err
	}
	search.AuthorID = &author.ID

	page, err := m.articlePage(ctx, search, p, viewer)
	if err != nil {
		return nil, err
	}

	count, err := m.db.CountAuthorArticles(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("db count author articles: %w", err)
	}

	return &AuthorArticles{Author: NewAuthor(author), ArticleCount: count, Articles: page}, nil
}

func (m *Manager) articleSlugRecord() slugRecord {
	return slugRecord{kind: "article", exists: m.db.ArticleSlugExists, constraint: db.ConstraintArticleSlug}
}

func (m *Manager) authorByName(ctx context.Context, name string) (*db.Author, error) {
	return m.authorByUser(ctx, name, m.db.UserByName)
}

// authorByUser finds the user with userBy and returns their author profile.
func (m *Manager) authorByUser(ctx context.Context, key string, userBy func(context.Context, string) (*db.User, error)) (*db.Author, error) {
	key = strings.TrimSpace(key)

	user, err := userBy(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("db get author user: %w", err)
	} else if user == nil {
		return nil, notFound("author user", key)
	}

	author, err := m.db.AuthorByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("db get author profile: %w", err)
	} else if author == nil {
		return nil, notFound("author profile", key)
	}

	return author, nil
}

func validArticle(title, content, authorName string) error {
	if err := validName("title", title); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return invalid("content", "is required")
	}
	if strings.TrimSpace(authorName) == "" {
		return invalid("author", "is required")
	}
	return nil
}

// CreateArticle stores a new article assigned to the author profile of the
// user named in.AuthorName.
func (m *Manager) CreateArticle(ctx context.Context, in ArticleInput) (*Article, error) {
	title := strings.TrimSpace(in.Title)
	if err := validArticle(title, in.Content, in.AuthorName); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = db.StatusPublished
	} else if !validStatus(status) {
		return nil, invalid("status", "must be one of draft, published, archived")
	}

	author, err := m.authorByName(ctx, in.AuthorName)
	if err != nil {
		return nil, err
	}

	category, err := m.db.CategoryByID(ctx, in.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("db get category: %w", err)
	} else if category == nil {
		return nil, invalid("category_id", "selected category does not exist")
	}

	article := &db.Article{
		Title:         title,
		Content:       in.Content,
		Excerpt:       lo.ToPtr(excerpt(in.Content)),
		Status:        status,
		AuthorID:      &author.ID,
		FeaturedImage: in.FeaturedImage,
	}
	if status == db.StatusPublished {
		article.PublishedAt = lo.ToPtr(time.Now())
	}

	err = m.inTx(ctx, func(tm *Manager) error {
		err := tm.insertWithSlug(ctx, tm.articleSlugRecord(), title, in.Slug,
			func(s string) { article.Slug = s },
			func() error { return tm.db.CreateArticle(ctx, article) },
		)
		if err != nil {
			return err
		}

		if err := tm.db.SetArticleCategories(ctx, article.ID, []int{category.ID}); err != nil {
			return err
		}

		tagIDs, err := tm.firstOrCreateTags(ctx, in.Tags)
		if err != nil {
			return err
		}

		return tm.db.SetArticleTags(ctx, article.ID, tagIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	m.cache.invalidate(ctx, cacheTagArticles, cacheTagTaxonomy)
	m.logger.InfoContext(ctx, "article created", "id", article.ID, "slug", article.Slug, "status", article.Status)

	return m.articleByID(ctx, article.ID, false, Viewer{})
}

// UpdateArticle edits an article. The slug stays as stored unless a new one is
// requested, or it is empty and the title changed.
func (m *Manager) UpdateArticle(ctx context.Context, id int, in ArticleUpdate) (*Article, error) {
	title := strings.TrimSpace(in.Title)
	if err := validArticle(title, in.Content, in.AuthorName); err != nil {
		return nil, err
	}

	if in.Status != "" && !validStatus(in.Status) {
		return nil, invalid("status", "must be one of draft, published, archived")
	}

	article, err := m.db.ArticleByID(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("db get article: %w", err)
	} else if article == nil {
		return nil, notFound("article", id)
	}

	author, err := m.authorByName(ctx, in.AuthorName)
	if err != nil {
		return nil, err
	}

	titleChanged := article.Title != title
	article.Title = title
	article.Content = in.Content
	article.Excerpt = lo.ToPtr(excerpt(in.Content))
	article.AuthorID = &author.ID

	columns := []string{
		db.Columns.Article.Title,
		db.Columns.Article.Content,
		db.Columns.Article.Excerpt,
		db.Columns.Article.AuthorID,
	}

	if in.Status != "" {
		article.Status = in.Status
		columns = append(columns, db.Columns.Article.Status)

		if in.Status == db.StatusPublished && article.PublishedAt == nil {
			article.PublishedAt = lo.ToPtr(time.Now())
			columns = append(columns, db.Columns.Article.PublishedAt)
		}
	}

	if in.FeaturedImage != nil {
		article.FeaturedImage = in.FeaturedImage
		columns = append(columns, db.Columns.Article.FeaturedImage)
	}

	err = m.inTx(ctx, func(tm *Manager) error {
		newSlug, changed, err := resolveSlug(ctx, tm.articleSlugRecord(), article.ID, title, article.Slug, titleChanged, in.Slug)
		if err != nil {
			return err
		}
		if changed {
			article.Slug = newSlug
			columns = append(columns, db.Columns.Article.Slug)
		}

		if err := tm.db.UpdateArticle(ctx, article, columns...); err != nil {
			if db.IsConstraint(err, db.ConstraintArticleSlug) {
				return fmt.Errorf("%w: article slug %q is taken", ErrConflict, article.Slug)
			}
			return err
		}

		if category := strings.TrimSpace(in.Category); category != "" {
			c, err := tm.firstOrCreateCategory(ctx, category)
			if err != nil {
				return err
			}
			if err := tm.db.SetArticleCategories(ctx, article.ID, []int{c.ID}); err != nil {
				return err
			}
		}

		if len(in.Tags) > 0 {
			tagIDs, err := tm.firstOrCreateTags(ctx, in.Tags)
			if err != nil {
				return err
			}
			if err := tm.db.SetArticleTags(ctx, article.ID, tagIDs); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}

	m.cache.invalidate(ctx, cacheTagArticles, cacheTagTaxonomy)
	m.logger.InfoContext(ctx, "article updated", "id", article.ID, "slug", article.Slug)

	return m.articleByID(ctx, article.ID, false, Viewer{})
}

// DeleteArticle soft-deletes the article.
func (m *Manager) DeleteArticle(ctx context.Context, id int) error {
	deleted, err := m.db.DeleteArticle(ctx, id)
	if err != nil {
		return fmt.Errorf("db delete article: %w", err)
	} else if !deleted {
		return notFound("article", id)
	}

	m.cache.invalidate(ctx, cacheTagArticles)
	m.logger.InfoContext(ctx, "article deleted", "id", id)

	return nil
}
