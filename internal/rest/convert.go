package rest

import (
	"github.com/daniilsolovey/news-herald/internal/db"
	"github.com/daniilsolovey/news-herald/internal/newsportal"
)

func NewCategory(c newsportal.Category) Category {
	return Category{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func NewTag(t newsportal.Tag) Tag {
	return Tag{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func NewSocialLink(l db.SocialLink) SocialLink {
	return SocialLink{Platform: l.Platform, URL: l.URL}
}

func NewAuthor(a newsportal.Author) Author {
	return Author{
		ID:          a.ID,
		UserID:      a.UserID,
		Name:        a.Name,
		Bio:         a.Bio,
		Website:     a.Website,
		SocialLinks: Map(a.SocialLinks, NewSocialLink),
	}
}

func NewArticle(a newsportal.Article) Article {
	article := Article{
		ID:               a.ID,
		Title:            a.Title,
		Slug:             a.Slug,
		Excerpt:          a.Excerpt,
		Content:          a.Content,
		FeaturedImage:    a.FeaturedImage,
		FeaturedImageURL: a.FeaturedImageURL,
		Status:           a.Status,
		PublishedAt:      a.PublishedAt,
		AuthorID:         a.AuthorID,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
		LikesCount:       a.LikesCount,
		IsLiked:          a.IsLiked,
		Categories:       NewCategories(a.Categories),
		Tags:             NewTags(a.Tags),
	}

	if a.Author != nil {
		author := NewAuthor(*a.Author)
		article.Author = &author
	}

	return article
}

func NewUser(u newsportal.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func NewSubscriber(s newsportal.Subscriber) Subscriber {
	return Subscriber{
		ID:             s.ID,
		Email:          s.Email,
		Name:           s.Name,
		Status:         s.Status,
		SubscribedAt:   s.SubscribedAt,
		UnsubscribedAt: s.UnsubscribedAt,
		Preferences:    s.Preferences,
		CreatedAt:      s.CreatedAt,
	}
}

func NewDashboardStats(s newsportal.DashboardStats) DashboardStats {
	return DashboardStats{
		TotalUsers:        s.TotalUsers,
		PublishedArticles: s.PublishedArticles,
		DraftArticles:     s.DraftArticles,
		TotalViews:        s.TotalViews,
		TotalLikes:        s.TotalLikes,
	}
}

func NewAdminStats(s newsportal.AdminStats) AdminStats {
	return AdminStats{
		TotalArticles:  s.TotalArticles,
		TotalUsers:     s.TotalUsers,
		TotalViews:     s.TotalViews,
		RecentArticles: Map(s.RecentArticles, NewArticle),
	}
}

func NewActivity(a newsportal.Activity) Activity {
	return Activity{Action: a.Action, Title: a.Title, User: a.User, Timestamp: a.Timestamp}
}

// NewPage converts a listing page with the item converter.
func NewPage[From, To any](p newsportal.Page[From], converter func(From) To) Page[To] {
	return Page[To]{
		Data: Map(p.Items, converter),
		Meta: PageMeta{
			CurrentPage: p.Page,
			PerPage:     p.PageSize,
			Total:       p.Total,
			LastPage:    p.LastPage(),
		},
	}
}
