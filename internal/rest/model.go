package rest

import (
	"encoding/json"
	"strings"
	"time"
)

type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Tag struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type Author struct {
	ID          int          `json:"id"`
	UserID      *int         `json:"user_id"`
	Name        string       `json:"name"`
	Bio         *string      `json:"bio"`
	Website     *string      `json:"website"`
	SocialLinks []SocialLink `json:"social_links"`
}

type Article struct {
	ID               int        `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Excerpt          *string    `json:"excerpt"`
	Content          string     `json:"content"`
	FeaturedImage    *string    `json:"featured_image"`
	FeaturedImageURL *string    `json:"featured_image_url"`
	Status           string     `json:"status"`
	PublishedAt      *time.Time `json:"published_at"`
	AuthorID         *int       `json:"author_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	LikesCount       int        `json:"likes_count"`
	IsLiked          bool       `json:"is_liked"`
	Author           *Author    `json:"author"`
	Categories       []Category `json:"categories"`
	Tags             []Tag      `json:"tags"`
}

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Subscriber struct {
	ID             int                    `json:"id"`
	Email          string                 `json:"email"`
	Name           *string                `json:"name"`
	Status         string                 `json:"status"`
	SubscribedAt   time.Time              `json:"subscribed_at"`
	UnsubscribedAt *time.Time             `json:"unsubscribed_at"`
	Preferences    map[string]interface{} `json:"preferences"`
	CreatedAt      time.Time              `json:"created_at"`
}

// PageMeta describes the position of a page in a listing.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

type CategoryWithArticles struct {
	Category Category      `json:"category"`
	Articles Page[Article] `json:"articles"`
}

type TagWithArticles struct {
	Tag      Tag           `json:"tag"`
	Articles Page[Article] `json:"articles"`
}

type AuthorArticles struct {
	Author       Author        `json:"author"`
	ArticleCount int           `json:"article_count"`
	Articles     Page[Article] `json:"articles"`
}

type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	User      User      `json:"user"`
}

type DashboardStats struct {
	TotalUsers        int `json:"total_users"`
	PublishedArticles int `json:"published_articles"`
	DraftArticles     int `json:"draft_articles"`
	TotalViews        int `json:"total_views"`
	TotalLikes        int `json:"total_likes"`
}

type AdminStats struct {
	TotalArticles  int       `json:"totalArticles"`
	TotalUsers     int       `json:"totalUsers"`
	TotalViews     int       `json:"totalViews"`
	RecentArticles []Article `json:"recentArticles"`
}

type Activity struct {
	Action    string    `json:"action"`
	Title     string    `json:"title"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// TagList accepts tag names either as a JSON array or as one comma-separated string.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	*t = strings.Split(s, ",")
	return nil
}

type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword      string `json:"current_password" validate:"required"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

type CreateArticleRequest struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Content       string  `json:"content" validate:"required"`
	Author        string  `json:"author" validate:"required,max=255"`
	CategoryID    int     `json:"category_id" validate:"required,gt=0"`
	Tags          TagList `json:"tags"`
	Status        string  `json:"status" validate:"omitempty,oneof=draft published archived"`
	Slug          string  `json:"slug" validate:"max=255"`
	FeaturedImage *string `json:"featured_image" validate:"omitempty,max=255"`
}

type UpdateArticleRequest struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Content       string  `json:"content" validate:"required"`
	Author        string  `json:"author" validate:"required,max=255"`
	Status        string  `json:"status" validate:"omitempty,oneof=draft published archived"`
	Category      string  `json:"category" validate:"max=255"`
	Tags          TagList `json:"tags"`
	Slug          *string `json:"slug" validate:"omitempty,max=255"`
	FeaturedImage *string `json:"featured_image" validate:"omitempty,max=255"`
}

type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Slug        *string `json:"slug" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

type TagRequest struct {
	Name string  `json:"name" validate:"required,max=255"`
	Slug *string `json:"slug" validate:"omitempty,max=255"`
}

type SubscribeRequest struct {
	Email string  `json:"email" validate:"required,email,max=255"`
	Name  *string `json:"name" validate:"omitempty,max=255"`
}

type SubscriberRequest struct {
	Email       string                 `json:"email" validate:"omitempty,email,max=255"`
	Name        *string                `json:"name" validate:"omitempty,max=255"`
	Status      string                 `json:"status" validate:"omitempty,oneof=active inactive unsubscribed"`
	Preferences map[string]interface{} `json:"preferences"`
}

type ModeratorRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ListQuery is the pagination query of listing endpoints.
type ListQuery struct {
	Page  int `urlstruct:"page"`
	Limit int `urlstruct:"limit"`
}

type ArticlesQuery struct {
	Page     int    `urlstruct:"page"`
	Limit    int    `urlstruct:"limit"`
	Status   string `urlstruct:"status"`
	Category string `urlstruct:"category"`
	AuthorID *int   `urlstruct:"author_id"`
}

type AuthorArticlesQuery struct {
	Page   int    `urlstruct:"page"`
	Limit  int    `urlstruct:"limit"`
	Status string `urlstruct:"status"`
}

type SubscribersQuery struct {
	Page   int    `urlstruct:"page"`
	Limit  int    `urlstruct:"limit"`
	Status string `urlstruct:"status"`
	Search string `urlstruct:"search"`
}
