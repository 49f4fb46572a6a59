package rest

import "github.com/daniilsolovey/news-herald/internal/newsportal"

func Map[From, To any](list []From, converter func(From) To) []To {
	result := make([]To, len(list))
	for i := range list {
		result[i] = converter(list[i])
	}
	return result
}

func NewArticles(in []newsportal.Article) []Article {
	return Map(in, NewArticle)
}

func NewCategories(in []newsportal.Category) []Category {
	return Map(in, NewCategory)
}

func NewTags(in []newsportal.Tag) []Tag {
	return Map(in, NewTag)
}

func NewAuthors(in []newsportal.Author) []Author {
	return Map(in, NewAuthor)
}
