package newsportal

import (
	"github.com/daniilsolovey/news-herald/internal/db"
	"github.com/samber/lo"
)

type Articles []Article

func NewArticles(in []db.Article, images ImageURLBuilder) Articles {
	return lo.Map(in, func(a db.Article, _ int) Article {
		return NewArticle(&a, images)
	})
}

func (ll Articles) IDs() []int {
	return lo.Map(ll, func(a Article, _ int) int { return a.ID })
}

func (ll Articles) SetCategories(byArticle map[int][]db.Category) {
	for i := range ll {
		ll[i].Categories = NewCategories(byArticle[ll[i].ID])
	}
}

func (ll Articles) SetTags(byArticle map[int][]db.Tag) {
	for i := range ll {
		ll[i].Tags = NewTags(byArticle[ll[i].ID])
	}
}

func NewCategories(in []db.Category) []Category {
	return lo.Map(in, func(c db.Category, _ int) Category { return NewCategory(&c) })
}

func NewTags(in []db.Tag) []Tag {
	return lo.Map(in, func(t db.Tag, _ int) Tag { return NewTag(&t) })
}

func NewUsers(in []db.User) []User {
	return lo.Map(in, func(u db.User, _ int) User { return NewUser(&u) })
}

func NewAuthors(in []db.Author) []Author {
	return lo.Map(in, func(a db.Author, _ int) Author { return NewAuthor(&a) })
}

func NewSubscribers(in []db.Subscriber) []Subscriber {
	return lo.Map(in, func(s db.Subscriber, _ int) Subscriber { return NewSubscriber(&s) })
}
