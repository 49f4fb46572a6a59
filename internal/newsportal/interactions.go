package newsportal

import (
	"context"
	"fmt"

	"github.com/daniilsolovey/news-herald/internal/db"
)

func (m *Manager) ensureArticle(ctx context.Context, id int) error {
	article, err := m.db.ArticleByID(ctx, id, false)
	if err != nil {
		return fmt.Errorf("db get article: %w", err)
	} else if article == nil {
		return notFound("article", id)
	}
	return nil
}

// ToggleLike removes the user's like when present and adds it otherwise.
func (m *Manager) ToggleLike(ctx context.Context, userID, articleID int) (LikeResult, error) {
	if err := m.ensureArticle(ctx, articleID); err != nil {
		return LikeResult{}, err
	}

	var result LikeResult
	err := m.inTx(ctx, func(tm *Manager) error {
		removed, err := tm.db.RemoveInteraction(ctx, userID, articleID, db.InteractionLiked)
		if err != nil {
			return err
		}

		if !removed {
			if _, err := tm.db.AddInteraction(ctx, userID, articleID, db.InteractionLiked); err != nil {
				return err
			}
		}

		agg, err := tm.aggregator.Aggregate(ctx, articleID, Viewer{UserID: userID}, nil)
		if err != nil {
			return err
		}

		result = LikeResult{Liked: !removed, LikesCount: agg.LikesCount}
		return nil
	})
	if err != nil {
		return LikeResult{}, fmt.Errorf("toggle like: %w", err)
	}

	return result, nil
}

// Share records that the user shared the article. Repeated shares are a no-op.
func (m *Manager) Share(ctx context.Context, userID, articleID int) error {
	if err := m.ensureArticle(ctx, articleID); err != nil {
		return err
	}

	if _, err := m.db.AddInteraction(ctx, userID, articleID, db.InteractionShared); err != nil {
		return fmt.Errorf("db share article: %w", err)
	}

	return nil
}

func (m *Manager) LikedArticles(ctx context.Context, viewer Viewer, p Pagination) (Page[Article], error) {
	return m.interactedArticles(ctx, viewer, db.InteractionLiked, p)
}

func (m *Manager) SharedArticles(ctx context.Context, viewer Viewer, p Pagination) (Page[Article], error) {
	return m.interactedArticles(ctx, viewer, db.InteractionShared, p)
}

func (m *Manager) interactedArticles(ctx context.Context, viewer Viewer, kind string, p Pagination) (Page[Article], error) {
	if viewer.Anonymous() {
		return Page[Article]{}, fmt.Errorf("%w: authentication required", ErrForbidden)
	}

	return m.articlePage(ctx, db.ArticleSearch{
		InteractedBy:    &viewer.UserID,
		InteractionType: kind,
	}, p, viewer)
}
