package newsportal

import (
	"math"
	"time"

	"github.com/daniilsolovey/news-herald/internal/db"
)

const UnknownAuthor = "Unknown Author"

// Viewer is the user a read is performed for. The zero value is an anonymous visitor.
type Viewer struct {
	UserID int
	Role   string
}

func (v Viewer) RoleName() string { return v.Role }

func (v Viewer) Anonymous() bool { return v.UserID == 0 }

type User struct {
	db.User
}

func (u User) RoleName() string { return u.Role }

type Category struct {
	db.Category
}

type Tag struct {
	db.Tag
}

type Author struct {
	ID          int
	UserID      *int
	Name        string
	Email       string
	Bio         *string
	Website     *string
	SocialLinks []db.SocialLink
}

type Article struct {
	ID               int
	Title            string
	Slug             string
	Excerpt          *string
	Content          string
	FeaturedImage    *string
	FeaturedImageURL *string
	Status           string
	PublishedAt      *time.Time
	AuthorID         *int
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Author     *Author
	Categories []Category
	Tags       []Tag

	Aggregates
}

type Subscriber struct {
	db.Subscriber
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
}

func (p Page[T]) LastPage() int {
	if p.PageSize < 1 || p.Total == 0 {
		return 1
	}
	return int(math.Ceil(float64(p.Total) / float64(p.PageSize)))
}

// Pagination is a page request; zero values fall back to defaults.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func (p Pagination) pager() db.Pager {
	page, size := p.Page, p.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return db.Pager{Page: page, PageSize: size}
}

func newPage[T any](items []T, total int, p db.Pager) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize}
}

// ArticleFilter selects articles for the listing endpoints.
type ArticleFilter struct {
	Status   string
	Category string
	AuthorID *int
	Pagination
}

// ArticleInput carries the fields for creating an article.
type ArticleInput struct {
	Title         string
	Content       string
	Slug          string
	Status        string
	AuthorName    string
	CategoryID    int
	Tags          []string
	FeaturedImage *string
}

// ArticleUpdate carries the fields for editing an article. Nil or empty
// optional fields leave the stored values untouched.
type ArticleUpdate struct {
	Title         string
	Content       string
	AuthorName    string
	Status        string
	Category      string
	Tags          []string
	Slug          *string
	FeaturedImage *string
}

// AuthorArticles is an author's article listing.
type AuthorArticles struct {
	Author       Author
	ArticleCount int
	Articles     Page[Article]
}

// LikeResult is the outcome of toggling a like.
type LikeResult struct {
	Liked      bool
	LikesCount int
}

type DashboardStats struct {
	TotalUsers        int
	PublishedArticles int
	DraftArticles     int
	TotalViews        int
	TotalLikes        int
}

// AdminStats are the site totals with the most recently published articles.
type AdminStats struct {
	TotalArticles  int
	TotalUsers     int
	TotalViews     int
	RecentArticles []Article
}

// Activity is one entry of the admin activity feed.
type Activity struct {
	Action    string
	Title     string
	User      string
	Timestamp time.Time
}

type CategoryInput struct {
	Name        string
	Slug        *string
	Description *string
}

type TagInput struct {
	Name string
	Slug *string
}

type SubscriberInput struct {
	Email       string
	Name        *string
	Status      string
	Preferences map[string]interface{}
}

type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// Session is an issued bearer token with its user.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}
