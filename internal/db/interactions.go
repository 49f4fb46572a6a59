package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"
)

// AddInteraction records the interaction once. It reports whether a new row was written.
func (r *Repository) AddInteraction(ctx context.Context, userID, articleID int, kind string) (bool, error) {
	interaction := &ArticleInteraction{
		UserID:    userID,
		ArticleID: articleID,
		Type:      kind,
		CreatedAt: time.Now(),
	}

	res, err := r.db.ModelContext(ctx, interaction).OnConflict("DO NOTHING").Insert()
	if err != nil {
		return false, writeErr("failed to add interaction", err)
	}

	return res.RowsAffected() > 0, nil
}

// RemoveInteraction deletes the interaction. It reports whether a row was removed.
func (r *Repository) RemoveInteraction(ctx context.Context, userID, articleID int, kind string) (bool, error) {
	res, err := r.db.ModelContext(ctx, (*ArticleInteraction)(nil)).
		Where(`"t"."user_id" = ?`, userID).
		Where(`"t"."article_id" = ?`, articleID).
		Where(`"t"."type" = ?`, kind).
		Delete()
	if err != nil {
		return false, fmt.Errorf("failed to remove interaction: %w", err)
	}

	return res.RowsAffected() > 0, nil
}

func (r *Repository) HasInteraction(ctx context.Context, userID, articleID int, kind string) (bool, error) {
	exists, err := r.db.ModelContext(ctx, (*ArticleInteraction)(nil)).
		Where(`"t"."user_id" = ?`, userID).
		Where(`"t"."article_id" = ?`, articleID).
		Where(`"t"."type" = ?`, kind).
		Exists()
	if err != nil {
		return false, fmt.Errorf("failed to check interaction: %w", err)
	}

	return exists, nil
}

// CountInteractions counts distinct users with an interaction of the kind on the article.
func (r *Repository) CountInteractions(ctx context.Context, articleID int, kind string) (int, error) {
	var count int
	err := r.db.ModelContext(ctx, (*ArticleInteraction)(nil)).
		ColumnExpr(`count(DISTINCT "t"."user_id")`).
		Where(`"t"."article_id" = ?`, articleID).
		Where(`"t"."type" = ?`, kind).
		Select(pg.Scan(&count))
	if err != nil {
		return 0, fmt.Errorf("failed to count interactions: %w", err)
	}

	return count, nil
}

// InteractionCounts returns distinct-user counts of the kind for a batch of articles.
// Articles without interactions are absent from the map.
func (r *Repository) InteractionCounts(ctx context.Context, articleIDs []int, kind string) (map[int]int, error) {
	result := make(map[int]int, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ArticleID int
		Total     int
	}
	err := r.db.ModelContext(ctx, (*ArticleInteraction)(nil)).
		Column("t.article_id").
		ColumnExpr(`count(DISTINCT "t"."user_id") AS total`).
		Where(`"t"."article_id" IN (?)`, pg.In(articleIDs)).
		Where(`"t"."type" = ?`, kind).
		Group("t.article_id").
		Select(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions by article: %w", err)
	}

	for _, row := range rows {
		result[row.ArticleID] = row.Total
	}

	return result, nil
}

// InteractedArticles returns which of the articles the user has an interaction of the kind with.
func (r *Repository) InteractedArticles(ctx context.Context, userID int, articleIDs []int, kind string) (map[int]bool, error) {
	result := make(map[int]bool, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	var ids []int
	err := r.db.ModelContext(ctx, (*ArticleInteraction)(nil)).
		Column("t.article_id").
		Where(`"t"."user_id" = ?`, userID).
		Where(`"t"."article_id" IN (?)`, pg.In(articleIDs)).
		Where(`"t"."type" = ?`, kind).
		Select(&ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query user interactions: %w", err)
	}

	for _, id := range ids {
		result[id] = true
	}

	return result, nil
}

// TotalInteractions counts all interaction rows of the kind.
func (r *Repository) TotalInteractions(ctx context.Context, kind string) (int, error) {
	count, err := r.db.ModelContext(ctx, (*ArticleInteraction)(nil)).
		Where(`"t"."type" = ?`, kind).
		Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s interactions: %w", kind, err)
	}

	return count, nil
}

func (r *Repository) DeleteInteractionsByUser(ctx context.Context, userID int) error {
	_, err := r.db.ModelContext(ctx, (*ArticleInteraction)(nil)).
		Where(`"t"."user_id" = ?`, userID).
		Delete()
	if err != nil {
		return fmt.Errorf("failed to delete user interactions: %w", err)
	}

	return nil
}
