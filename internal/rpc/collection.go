package rpc

import (
	"github.com/samber/lo"

	"github.com/daniilsolovey/news-herald/internal/newsportal"
)

type (
	ArticleSummaries []ArticleSummary
	Categories       []Category
	Tags             []Tag
)

func NewArticleSummaries(in []newsportal.Article) ArticleSummaries {
	return lo.Map(in, func(a newsportal.Article, _ int) ArticleSummary { return NewArticleSummary(a) })
}

func NewCategories(in []newsportal.Category) Categories {
	return lo.Map(in, func(c newsportal.Category, _ int) Category { return NewCategory(c) })
}

func NewTags(in []newsportal.Tag) Tags {
	return lo.Map(in, func(t newsportal.Tag, _ int) Tag { return NewTag(t) })
}
