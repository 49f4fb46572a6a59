package newsportal

import (
	"context"
	"fmt"

	"github.com/daniilsolovey/news-herald/internal/db"
)

// Aggregates are the viewer-relative interaction figures of an article.
type Aggregates struct {
	LikesCount int
	IsLiked    bool
}

// InteractionReader is the persistence surface the aggregator reads from.
type InteractionReader interface {
	CountInteractions(ctx context.Context, articleID int, kind string) (int, error)
	HasInteraction(ctx context.Context, userID, articleID int, kind string) (bool, error)
	InteractionCounts(ctx context.Context, articleIDs []int, kind string) (map[int]int, error)
	InteractedArticles(ctx context.Context, userID int, articleIDs []int, kind string) (map[int]bool, error)
}

// Aggregator computes like counts and the viewer's like flag.
type Aggregator struct {
	store InteractionReader
}

func NewAggregator(store InteractionReader) Aggregator {
	return Aggregator{store: store}
}

// Aggregate returns the figures for one article. Precomputed values are
// returned verbatim; otherwise they are read from the store.
func (a Aggregator) Aggregate(ctx context.Context, articleID int, viewer Viewer, precomputed *Aggregates) (Aggregates, error) {
	if precomputed != nil {
		return *precomputed, nil
	}

	count, err := a.store.CountInteractions(ctx, articleID, db.InteractionLiked)
	if err != nil {
		return Aggregates{}, fmt.Errorf("count likes: %w", err)
	}

	result := Aggregates{LikesCount: count}
	if viewer.Anonymous() {
		return result, nil
	}

	result.IsLiked, err = a.store.HasInteraction(ctx, viewer.UserID, articleID, db.InteractionLiked)
	if err != nil {
		return Aggregates{}, fmt.Errorf("check like: %w", err)
	}

	return result, nil
}

// Precompute computes figures for a batch of articles in two queries.
func (a Aggregator) Precompute(ctx context.Context, articleIDs []int, viewer Viewer) (map[int]Aggregates, error) {
	result := make(map[int]Aggregates, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	counts, err := a.store.InteractionCounts(ctx, articleIDs, db.InteractionLiked)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}

	liked := map[int]bool{}
	if !viewer.Anonymous() {
		liked, err = a.store.InteractedArticles(ctx, viewer.UserID, articleIDs, db.InteractionLiked)
		if err != nil {
			return nil, fmt.Errorf("check likes: %w", err)
		}
	}

	for _, id := range articleIDs {
		result[id] = Aggregates{LikesCount: counts[id], IsLiked: liked[id]}
	}

	return result, nil
}
