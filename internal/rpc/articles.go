package rpc

import (
	"context"
	"errors"
	"strings"

	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/news-herald/internal/newsportal"
)

//go:generate zenrpc

const maxLatest = 50

// ArticleService exposes the public read side of the portal. Every call is
// made on behalf of an anonymous viewer.
type ArticleService struct {
	zenrpc.Service
	manager *newsportal.Manager
}

func NewArticleService(manager *newsportal.Manager) *ArticleService {
	return &ArticleService{manager: manager}
}

// Latest returns the most recently published articles without content.
//
//zenrpc:count=6 number of articles, from 1 to 50
//zenrpc:return article summaries, newest first
//zenrpc:400 count out of range
//zenrpc:500 internal server error
func (s *ArticleService) Latest(ctx context.Context, count *int) (ArticleSummaries, error) {
	n := 6
	if count != nil {
		n = *count
	}
	if n < 1 || n > maxLatest {
		return nil, zenrpc.NewStringError(400, "count must be between 1 and 50")
	}

	list, err := s.manager.LatestArticles(ctx, n, newsportal.Viewer{})
	if err != nil {
		return nil, err
	}

	return NewArticleSummaries(list), nil
}

// BySlug returns a published article with content, author, categories and tags.
//
//zenrpc:slug article slug
//zenrpc:return article
//zenrpc:400 slug is empty
//zenrpc:404 article not found
//zenrpc:500 internal server error
func (s *ArticleService) BySlug(ctx context.Context, slug string) (*Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, zenrpc.NewStringError(400, "slug is required")
	}

	a, err := s.manager.ArticleBySlug(ctx, slug, newsportal.Viewer{})
	if errors.Is(err, newsportal.ErrNotFound) {
		return nil, zenrpc.NewStringError(404, "article not found")
	} else if err != nil {
		return nil, err
	}

	article := NewArticle(*a)
	return &article, nil
}

// Categories returns all categories ordered by name.
//
//zenrpc:return list of categories
//zenrpc:500 internal server error
func (s *ArticleService) Categories(ctx context.Context) (Categories, error) {
	list, err := s.manager.Categories(ctx)
	if err != nil {
		return nil, err
	}

	return NewCategories(list), nil
}

// Tags returns all tags ordered by name.
//
//zenrpc:return list of tags
//zenrpc:500 internal server error
func (s *ArticleService) Tags(ctx context.Context) (Tags, error) {
	list, err := s.manager.Tags(ctx)
	if err != nil {
		return nil, err
	}

	return NewTags(list), nil
}
