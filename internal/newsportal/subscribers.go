package newsportal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/daniilsolovey/news-herald/internal/db"
	"github.com/google/uuid"
)

func validSubscriberStatus(status string) bool {
	switch status {
	case db.SubscriberActive, db.SubscriberInactive, db.SubscriberUnsubscribed:
		return true
	}
	return false
}

// applyStatus moves the subscriber to status and keeps unsubscribed_at consistent.
func applyStatus(s *db.Subscriber, status string, now time.Time) {
	if s.Status == status {
		return
	}

	s.Status = status
	switch status {
	case db.SubscriberUnsubscribed:
		s.UnsubscribedAt = &now
	case db.SubscriberActive:
		s.SubscribedAt = now
		s.UnsubscribedAt = nil
	}
}

// Subscribe adds an email to the newsletter. A previously unsubscribed or
// inactive address is re-activated; an active one is a conflict.
func (m *Manager) Subscribe(ctx context.Context, email string, name *string) (*Subscriber, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, invalid("email", "is required")
	}

	existing, err := m.db.SubscriberByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("db get subscriber: %w", err)
	}

	if existing != nil {
		if existing.Status == db.SubscriberActive {
			return nil, fmt.Errorf("%w: email is already subscribed", ErrConflict)
		}

		applyStatus(existing, db.SubscriberActive, time.Now())
		columns := []string{db.Columns.Subscriber.Status, db.Columns.Subscriber.SubscribedAt, db.Columns.Subscriber.UnsubscribedAt}
		if name != nil {
			existing.Name = name
			columns = append(columns, db.Columns.Subscriber.Name)
		}

		if err := m.db.UpdateSubscriber(ctx, existing, columns...); err != nil {
			return nil, fmt.Errorf("db reactivate subscriber: %w", err)
		}

		m.logger.InfoContext(ctx, "subscriber reactivated", "id", existing.ID)

		s := NewSubscriber(existing)
		return &s, nil
	}

	return m.CreateSubscriber(ctx, SubscriberInput{Email: email, Name: name})
}

// Unsubscribe deactivates the subscription owning the token.
func (m *Manager) Unsubscribe(ctx context.Context, token string) (*Subscriber, error) {
	s, err := m.db.SubscriberByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("db get subscriber: %w", err)
	} else if s == nil {
		return nil, notFound("subscription", "token")
	}

	if s.Status != db.SubscriberUnsubscribed {
		applyStatus(s, db.SubscriberUnsubscribed, time.Now())
		if err := m.db.UpdateSubscriber(ctx, s, db.Columns.Subscriber.Status, db.Columns.Subscriber.UnsubscribedAt); err != nil {
			return nil, fmt.Errorf("db unsubscribe: %w", err)
		}
		m.logger.InfoContext(ctx, "subscriber unsubscribed", "id", s.ID)
	}

	subscriber := NewSubscriber(s)
	return &subscriber, nil
}

func (m *Manager) Subscribers(ctx context.Context, status, query string, p Pagination) (Page[Subscriber], error) {
	if status != "" && !validSubscriberStatus(status) {
		return Page[Subscriber]{}, invalid("status", "must be one of active, inactive, unsubscribed")
	}

	pager := p.pager()
	list, total, err := m.db.Subscribers(ctx, db.SubscriberSearch{Status: status, Query: strings.TrimSpace(query)}, pager)
	if err != nil {
		return Page[Subscriber]{}, fmt.Errorf("db get subscribers: %w", err)
	}

	return newPage(NewSubscribers(list), total, pager), nil
}

func (m *Manager) Subscriber(ctx context.Context, id int) (*Subscriber, error) {
	s, err := m.db.SubscriberByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("db get subscriber: %w", err)
	} else if s == nil {
		return nil, notFound("subscriber", id)
	}

	subscriber := NewSubscriber(s)
	return &subscriber, nil
}

func (m *Manager) CreateSubscriber(ctx context.Context, in SubscriberInput) (*Subscriber, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, invalid("email", "is required")
	}

	status := in.Status
	if status == "" {
		status = db.SubscriberActive
	} else if !validSubscriberStatus(status) {
		return nil, invalid("status", "must be one of active, inactive, unsubscribed")
	}

	now := time.Now()
	s := &db.Subscriber{
		Email:            email,
		Name:             in.Name,
		Status:           status,
		SubscribedAt:     now,
		UnsubscribeToken: uuid.NewString(),
		Preferences:      in.Preferences,
	}
	if status == db.SubscriberUnsubscribed {
		s.UnsubscribedAt = &now
	}

	if err := m.db.CreateSubscriber(ctx, s); err != nil {
		if db.IsConstraint(err, db.ConstraintSubscriber) {
			return nil, fmt.Errorf("%w: email is already subscribed", ErrConflict)
		}
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	m.logger.InfoContext(ctx, "subscriber created", "id", s.ID)

	subscriber := NewSubscriber(s)
	return &subscriber, nil
}

// UpdateSubscriber changes the fields set in the input; empty fields are kept.
func (m *Manager) UpdateSubscriber(ctx context.Context, id int, in SubscriberInput) (*Subscriber, error) {
	s, err := m.db.SubscriberByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("db get subscriber: %w", err)
	} else if s == nil {
		return nil, notFound("subscriber", id)
	}

	columns := []string{}
	if email := normalizeEmail(in.Email); email != "" && email != s.Email {
		s.Email = email
		columns = append(columns, db.Columns.Subscriber.Email)
	}

	if in.Name != nil {
		s.Name = in.Name
		columns = append(columns, db.Columns.Subscriber.Name)
	}

	if in.Status != "" {
		if !validSubscriberStatus(in.Status) {
			return nil, invalid("status", "must be one of active, inactive, unsubscribed")
		}
		applyStatus(s, in.Status, time.Now())
		columns = append(columns,
			db.Columns.Subscriber.Status,
			db.Columns.Subscriber.SubscribedAt,
			db.Columns.Subscriber.UnsubscribedAt,
		)
	}

	if in.Preferences != nil {
		s.Preferences = in.Preferences
		columns = append(columns, db.Columns.Subscriber.Preferences)
	}

	if err := m.db.UpdateSubscriber(ctx, s, columns...); err != nil {
		if db.IsConstraint(err, db.ConstraintSubscriber) {
			return nil, fmt.Errorf("%w: email is already subscribed", ErrConflict)
		}
		return nil, fmt.Errorf("update subscriber: %w", err)
	}

	subscriber := NewSubscriber(s)
	return &subscriber, nil
}

func (m *Manager) DeleteSubscriber(ctx context.Context, id int) error {
	deleted, err := m.db.DeleteSubscriber(ctx, id)
	if err != nil {
		return fmt.Errorf("db delete subscriber: %w", err)
	} else if !deleted {
		return notFound("subscriber", id)
	}

	m.logger.InfoContext(ctx, "subscriber deleted", "id", id)

	return nil
}
