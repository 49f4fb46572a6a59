package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"
)

func (r *Repository) UserByID(ctx context.Context, id int) (*User, error) {
	return r.user(ctx, `"t"."id" = ?`, id)
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (*User, error) {
	return r.user(ctx, `lower("t"."email") = lower(?)`, email)
}

// UserByName returns the first user with the exact name.
func (r *Repository) UserByName(ctx context.Context, name string) (*User, error) {
	return r.user(ctx, `"t"."name" = ?`, name)
}

// UserByNameOrEmail returns the first user whose name or email matches key.
func (r *Repository) UserByNameOrEmail(ctx context.Context, key string) (*User, error) {
	return r.user(ctx, `"t"."name" = ?0 OR lower("t"."email") = lower(?0)`, key)
}

func (r *Repository) user(ctx context.Context, where string, param interface{}) (*User, error) {
	user := &User{}
	err := r.db.ModelContext(ctx, user).Where(where, param).OrderExpr(`"t"."id"`).Limit(1).Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Users returns a page of users, newest first, optionally restricted to a role.
func (r *Repository) Users(ctx context.Context, role string, pager Pager) ([]User, int, error) {
	if err := pager.validate(); err != nil {
		return nil, 0, err
	}

	var users []User
	q := r.db.ModelContext(ctx, &users)
	if role != "" {
		q = q.Where(`"t"."role" = ?`, role)
	}

	count, err := q.OrderExpr(`"t"."created_at" DESC, "t"."id" DESC`).
		Limit(pager.PageSize).
		Offset(pager.offset()).
		SelectAndCount()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}

	return users, count, nil
}

func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	count, err := r.db.ModelContext(ctx, (*User)(nil)).Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now

	return r.savepoint(ctx, "create_user", func() error {
		if _, err := r.db.ModelContext(ctx, user).Returning("*").Insert(); err != nil {
			return writeErr("failed to create user", err)
		}
		return nil
	})
}

// UpdateUser writes the listed columns; updated_at is always refreshed.
func (r *Repository) UpdateUser(ctx context.Context, user *User, columns ...string) error {
	user.UpdatedAt = time.Now()
	columns = append(columns, Columns.User.UpdatedAt)

	if _, err := r.db.ModelContext(ctx, user).Column(columns...).WherePK().Update(); err != nil {
		return writeErr("failed to update user", err)
	}

	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ModelContext(ctx, &User{ID: id}).WherePK().Delete()
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	return res.RowsAffected() > 0, nil
}

// Authors returns all author profiles with their user loaded, ordered by user name.
func (r *Repository) Authors(ctx context.Context) ([]Author, error) {
	var authors []Author
	err := r.db.ModelContext(ctx, &authors).
		Relation("User").
		OrderExpr(`"user"."name" ASC NULLS LAST, "t"."id" ASC`).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}

	return authors, nil
}

func (r *Repository) AuthorByID(ctx context.Context, id int) (*Author, error) {
	return r.author(ctx, `"t"."id" = ?`, id)
}

func (r *Repository) AuthorByUserID(ctx context.Context, userID int) (*Author, error) {
	return r.author(ctx, `"t"."user_id" = ?`, userID)
}

func (r *Repository) author(ctx context.Context, where string, param interface{}) (*Author, error) {
	author := &Author{}
	err := r.db.ModelContext(ctx, author).Relation("User").Where(where, param).Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}

	return author, nil
}

func (r *Repository) CreateAuthor(ctx context.Context, author *Author) error {
	now := time.Now()
	author.CreatedAt, author.UpdatedAt = now, now

	if _, err := r.db.ModelContext(ctx, author).Returning("*").Insert(); err != nil {
		return writeErr("failed to create author", err)
	}

	return nil
}

// RevokeToken blacklists the token id until its expiry and prunes expired entries.
func (r *Repository) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	if _, err := r.db.ModelContext(ctx, (*RevokedToken)(nil)).Where(`"t"."expires_at" < now()`).Delete(); err != nil {
		return fmt.Errorf("failed to prune revoked tokens: %w", err)
	}

	token := &RevokedToken{JTI: jti, ExpiresAt: expiresAt}
	if _, err := r.db.ModelContext(ctx, token).OnConflict("DO NOTHING").Insert(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

func (r *Repository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := r.db.ModelContext(ctx, (*RevokedToken)(nil)).
		Where(`"t"."jti" = ?`, jti).
		Exists()
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}

	return exists, nil
}
