package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"
)

// SubscriberSearch filters the subscriber listing.
type SubscriberSearch struct {
	Status string
	Query  string
}

func (r *Repository) Subscribers(ctx context.Context, search SubscriberSearch, pager Pager) ([]Subscriber, int, error) {
	if err := pager.validate(); err != nil {
		return nil, 0, err
	}

	var subscribers []Subscriber
	q := r.db.ModelContext(ctx, &subscribers)
	if search.Status != "" {
		q = q.Where(`"t"."status" = ?`, search.Status)
	}
	if search.Query != "" {
		pattern := likePattern(search.Query)
		q = q.Where(`("t"."email" ILIKE ? OR "t"."name" ILIKE ?)`, pattern, pattern)
	}

	count, err := q.OrderExpr(`"t"."subscribed_at" DESC, "t"."id" DESC`).
		Limit(pager.PageSize).
		Offset(pager.offset()).
		SelectAndCount()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query subscribers: %w", err)
	}

	return subscribers, count, nil
}

func (r *Repository) SubscriberByID(ctx context.Context, id int) (*Subscriber, error) {
	return r.subscriber(ctx, `"t"."id" = ?`, id)
}

func (r *Repository) SubscriberByEmail(ctx context.Context, email string) (*Subscriber, error) {
	return r.subscriber(ctx, `lower("t"."email") = lower(?)`, email)
}

func (r *Repository) SubscriberByToken(ctx context.Context, token string) (*Subscriber, error) {
	return r.subscriber(ctx, `"t"."unsubscribe_token" = ?`, token)
}

func (r *Repository) subscriber(ctx context.Context, where string, param interface{}) (*Subscriber, error) {
	subscriber := &Subscriber{}
	err := r.db.ModelContext(ctx, subscriber).Where(where, param).Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}

	return subscriber, nil
}

func (r *Repository) CreateSubscriber(ctx context.Context, subscriber *Subscriber) error {
	now := time.Now()
	subscriber.CreatedAt, subscriber.UpdatedAt = now, now

	return r.savepoint(ctx, "create_subscriber", func() error {
		if _, err := r.db.ModelContext(ctx, subscriber).Returning("*").Insert(); err != nil {
			return writeErr("failed to create subscriber", err)
		}
		return nil
	})
}

// UpdateSubscriber writes the listed columns; updated_at is always refreshed.
func (r *Repository) UpdateSubscriber(ctx context.Context, subscriber *Subscriber, columns ...string) error {
	subscriber.UpdatedAt = time.Now()
	columns = append(columns, Columns.Subscriber.UpdatedAt)

	if _, err := r.db.ModelContext(ctx, subscriber).Column(columns...).WherePK().Update(); err != nil {
		return writeErr("failed to update subscriber", err)
	}

	return nil
}

func (r *Repository) DeleteSubscriber(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ModelContext(ctx, &Subscriber{ID: id}).WherePK().Delete()
	if err != nil {
		return false, fmt.Errorf("failed to delete subscriber: %w", err)
	}

	return res.RowsAffected() > 0, nil
}
