package newsportal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/daniilsolovey/news-herald/internal/auth"
	"github.com/daniilsolovey/news-herald/internal/db"
	"github.com/daniilsolovey/news-herald/internal/slug"
)

const (
	maxNameLength = 255
	slugRetries   = 3
)

type Manager struct {
	db         *db.Repository
	aggregator Aggregator
	images     ImageURLBuilder
	tokens     *auth.Tokens
	cache      *Cache
	logger     *slog.Logger
}

func NewManager(repo *db.Repository, tokens *auth.Tokens, images ImageURLBuilder, cache *Cache, logger *slog.Logger) *Manager {
	return &Manager{
		db:         repo,
		aggregator: NewAggregator(repo),
		images:     images,
		tokens:     tokens,
		cache:      cache,
		logger:     logger,
	}
}

// inTx runs fn with a copy of the manager bound to one transaction.
func (m *Manager) inTx(ctx context.Context, fn func(tm *Manager) error) error {
	return m.db.RunInTransaction(ctx, func(repo *db.Repository) error {
		tm := *m
		tm.db = repo
		tm.aggregator = NewAggregator(repo)
		return fn(&tm)
	})
}

// slugFor generates a free slug for name, using fallback as the base when
// name has no characters usable in a slug.
func slugFor(ctx context.Context, name, fallback string, exists slug.ExistsFunc, excludeID int) (string, error) {
	s, err := slug.Generate(ctx, name, exists, excludeID)
	if errors.Is(err, slug.ErrEmpty) {
		return slug.Generate(ctx, fallback, exists, excludeID)
	}
	return s, err
}

// slugRecord describes how to slug and persist one record kind.
type slugRecord struct {
	kind       string
	exists     slug.ExistsFunc
	constraint string
}

// insertWithSlug assigns a slug to a new record and inserts it. An explicit
// slug is used as given and a collision is a conflict; a generated slug is
// regenerated when a concurrent writer takes it between check and insert.
func (m *Manager) insertWithSlug(ctx context.Context, rec slugRecord, name, explicit string, assign func(string), insert func() error) error {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		s := slug.Make(explicit)
		if s == "" {
			return invalid("slug", "slug must contain letters or digits")
		}

		assign(s)
		err := insert()
		if db.IsConstraint(err, rec.constraint) {
			return fmt.Errorf("%w: %s slug %q is taken", ErrConflict, rec.kind, s)
		}
		return err
	}

	for attempt := 1; ; attempt++ {
		s, err := slugFor(ctx, name, rec.kind, rec.exists, 0)
		if err != nil {
			return fmt.Errorf("generate %s slug: %w", rec.kind, err)
		}

		assign(s)
		err = insert()
		if !db.IsConstraint(err, rec.constraint) {
			return err
		}

		if attempt == slugRetries {
			return fmt.Errorf("%w: %s slug %q is taken", ErrConflict, rec.kind, s)
		}

		m.logger.WarnContext(ctx, "slug taken concurrently, retrying", "kind", rec.kind, "slug", s, "attempt", attempt)
	}
}

// resolveSlug decides the slug of an existing record on update. It returns the
// new slug and whether it changed. requested nil keeps the stored slug, an
// empty requested value clears it.
func resolveSlug(ctx context.Context, rec slugRecord, id int, name, current string, nameChanged bool, requested *string) (string, bool, error) {
	if requested != nil {
		if explicit := strings.TrimSpace(*requested); explicit != "" {
			s := slug.Make(explicit)
			if s == "" {
				return "", false, invalid("slug", "slug must contain letters or digits")
			}
			if s == current {
				return current, false, nil
			}

			taken, err := rec.exists(ctx, s, id)
			if err != nil {
				return "", false, err
			} else if taken {
				return "", false, fmt.Errorf("%w: %s slug %q is taken", ErrConflict, rec.kind, s)
			}

			return s, true, nil
		}

		// cleared
		if !slug.NeedsGeneration(false, nameChanged, "") {
			return current, false, nil
		}
	} else if !slug.NeedsGeneration(false, nameChanged, current) {
		return current, false, nil
	}

	s, err := slugFor(ctx, name, rec.kind, rec.exists, id)
	if err != nil {
		return "", false, fmt.Errorf("generate %s slug: %w", rec.kind, err)
	}

	return s, s != current, nil
}

func validName(field, value string) error {
	if value == "" {
		return invalid(field, "is required")
	}
	if len([]rune(value)) > maxNameLength {
		return invalid(field, fmt.Sprintf("must not exceed %d characters", maxNameLength))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
