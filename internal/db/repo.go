package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pg/pg/v10"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"

	InteractionLiked  = "liked"
	InteractionShared = "shared"

	SubscriberActive       = "active"
	SubscriberInactive     = "inactive"
	SubscriberUnsubscribed = "unsubscribed"
)

// Unique constraint names declared in the migrations.
const (
	ConstraintArticleSlug  = "articles_slug_key"
	ConstraintCategorySlug = "categories_slug_key"
	ConstraintCategoryName = "categories_name_key"
	ConstraintTagSlug      = "tags_slug_key"
	ConstraintTagName      = "tags_name_key"
	ConstraintUserEmail    = "users_email_key"
	ConstraintSubscriber   = "subscribers_email_key"
)

var ErrConstraintViolation = errors.New("unique constraint violation")

// ConstraintError is returned by write methods when postgres rejects a row
// with SQLSTATE 23505.
type ConstraintError struct {
	Constraint string
	cause      error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("unique constraint %q violated", e.Constraint)
}

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraintViolation }

func (e *ConstraintError) Unwrap() error { return e.cause }

// IsConstraint reports whether err is a unique violation of the named constraint.
func IsConstraint(err error, name string) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Constraint == name
}

func writeErr(op string, err error) error {
	var pgErr pg.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == "23505" {
		return fmt.Errorf("%s: %w", op, &ConstraintError{Constraint: pgErr.Field('n'), cause: err})
	}
	return fmt.Errorf("%s: %w", op, err)
}

type Repository struct {
	db pg.DBI
}

func New(db pg.DBI) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Ping(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) Close() error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Close(); err != nil {
			return err
		}
	}

	return nil
}

// RunInTransaction executes fn with a repository bound to a single transaction.
// Nested calls reuse the outer transaction.
func (r *Repository) RunInTransaction(ctx context.Context, fn func(*Repository) error) error {
	if _, ok := r.db.(*pg.Tx); ok {
		return fn(r)
	}

	return r.db.RunInTransaction(ctx, func(tx *pg.Tx) error {
		return fn(New(tx))
	})
}

// Pager is a 1-based page request.
type Pager struct {
	Page     int
	PageSize int
}

func (p Pager) validate() error {
	if p.Page < 1 || p.PageSize < 1 {
		return fmt.Errorf(
			"page or pageSize must be greater than 0: page=%d, pageSize=%d",
			p.Page, p.PageSize,
		)
	}
	return nil
}

func (p Pager) offset() int {
	return (p.Page - 1) * p.PageSize
}

// likePattern builds a case-insensitive substring pattern with LIKE metacharacters escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// savepoint runs fn inside a savepoint when the repository is bound to a
// transaction, so a failed statement does not abort the enclosing transaction.
func (r *Repository) savepoint(ctx context.Context, name string, fn func() error) error {
	if _, ok := r.db.(*pg.Tx); !ok {
		return fn()
	}

	if _, err := r.db.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("savepoint %s: %w", name, err)
	}

	if err := fn(); err != nil {
		if _, rbErr := r.db.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("rollback to savepoint %s: %w", name, rbErr)
		}
		return err
	}

	if _, err := r.db.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("release savepoint %s: %w", name, err)
	}

	return nil
}
