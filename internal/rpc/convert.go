package rpc

import "github.com/daniilsolovey/news-herald/internal/newsportal"

func NewArticle(a newsportal.Article) Article {
	return Article{
		ArticleID:        a.ID,
		Title:            a.Title,
		Slug:             a.Slug,
		Excerpt:          a.Excerpt,
		Content:          a.Content,
		FeaturedImageURL: a.FeaturedImageURL,
		PublishedAt:      a.PublishedAt,
		LikesCount:       a.LikesCount,
		Author:           NewAuthor(a.Author),
		Categories:       NewCategories(a.Categories),
		Tags:             NewTags(a.Tags),
	}
}

func NewArticleSummary(a newsportal.Article) ArticleSummary {
	return ArticleSummary{
		ArticleID:        a.ID,
		Title:            a.Title,
		Slug:             a.Slug,
		Excerpt:          a.Excerpt,
		FeaturedImageURL: a.FeaturedImageURL,
		PublishedAt:      a.PublishedAt,
		LikesCount:       a.LikesCount,
		Author:           NewAuthor(a.Author),
		Categories:       NewCategories(a.Categories),
		Tags:             NewTags(a.Tags),
	}
}

func NewAuthor(a *newsportal.Author) *Author {
	if a == nil {
		return nil
	}

	return &Author{
		AuthorID: a.ID,
		Name:     a.Name,
		Bio:      a.Bio,
	}
}

func NewCategory(c newsportal.Category) Category {
	return Category{
		CategoryID:  c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}

func NewTag(t newsportal.Tag) Tag {
	return Tag{
		TagID: t.ID,
		Name:  t.Name,
		Slug:  t.Slug,
	}
}
