package rpc

import "time"

type Category struct {
	CategoryID  int     `json:"categoryId"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
}

type Tag struct {
	TagID int    `json:"tagId"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
}

type Author struct {
	AuthorID int     `json:"authorId"`
	Name     string  `json:"name"`
	Bio      *string `json:"bio,omitempty"`
}

type Article struct {
	ArticleID        int        `json:"articleId"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Excerpt          *string    `json:"excerpt,omitempty"`
	Content          string     `json:"content"`
	FeaturedImageURL *string    `json:"featuredImageUrl,omitempty"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
	LikesCount       int        `json:"likesCount"`
	Author           *Author    `json:"author,omitempty"`
	Categories       []Category `json:"categories"`
	Tags             []Tag      `json:"tags"`
}

// ArticleSummary is an article without its content.
type ArticleSummary struct {
	ArticleID        int        `json:"articleId"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Excerpt          *string    `json:"excerpt,omitempty"`
	FeaturedImageURL *string    `json:"featuredImageUrl,omitempty"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
	LikesCount       int        `json:"likesCount"`
	Author           *Author    `json:"author,omitempty"`
	Categories       []Category `json:"categories"`
	Tags             []Tag      `json:"tags"`
}
