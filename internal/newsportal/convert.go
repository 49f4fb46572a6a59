package newsportal

import (
	"github.com/daniilsolovey/news-herald/internal/db"
)

func NewUser(u *db.User) User {
	return User{User: *u}
}

func NewCategory(c *db.Category) Category {
	return Category{Category: *c}
}

func NewTag(t *db.Tag) Tag {
	return Tag{Tag: *t}
}

func NewSubscriber(s *db.Subscriber) Subscriber {
	return Subscriber{Subscriber: *s}
}

// NewAuthor converts an author profile. The display name falls back to
// UnknownAuthor when the linked user is gone.
func NewAuthor(a *db.Author) Author {
	author := Author{
		ID:          a.ID,
		UserID:      a.UserID,
		Name:        UnknownAuthor,
		Bio:         a.Bio,
		Website:     a.Website,
		SocialLinks: a.SocialLinks,
	}

	if a.User != nil {
		author.Name = a.User.Name
		author.Email = a.User.Email
	}

	if author.SocialLinks == nil {
		author.SocialLinks = []db.SocialLink{}
	}

	return author
}

func NewArticle(a *db.Article, images ImageURLBuilder) Article {
	article := Article{
		ID:               a.ID,
		Title:            a.Title,
		Slug:             a.Slug,
		Excerpt:          a.Excerpt,
		Content:          a.Content,
		FeaturedImage:    a.FeaturedImage,
		FeaturedImageURL: images.URL(a.FeaturedImage),
		Status:           a.Status,
		PublishedAt:      a.PublishedAt,
		AuthorID:         a.AuthorID,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
		Categories:       []Category{},
		Tags:             []Tag{},
	}

	if a.Author != nil {
		author := NewAuthor(a.Author)
		article.Author = &author
	}

	return article
}
