package newsportal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/daniilsolovey/news-herald/internal/auth"
	"github.com/daniilsolovey/news-herald/internal/db"
	"github.com/samber/lo"
)

func validPassword(password, confirmation string) error {
	if !auth.StrongPassword(password) {
		return invalid("password", auth.ErrWeakPassword.Error())
	}
	if password != confirmation {
		return invalid("password", "confirmation does not match")
	}
	return nil
}

// Register creates a user with the plain user role.
func (m *Manager) Register(ctx context.Context, in RegisterInput) (*User, error) {
	name := strings.TrimSpace(in.Name)
	if err := validName("name", name); err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, invalid("email", "is required")
	}

	if err := validPassword(in.Password, in.PasswordConfirmation); err != nil {
		return nil, err
	}

	existing, err := m.db.UserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("db get user: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: email has already been taken", ErrConflict)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &db.User{Name: name, Email: email, Password: hash, Role: string(auth.RoleUser)}
	if err := m.db.CreateUser(ctx, u); err != nil {
		if db.IsConstraint(err, db.ConstraintUserEmail) {
			return nil, fmt.Errorf("%w: email has already been taken", ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	m.logger.InfoContext(ctx, "user registered", "id", u.ID)

	user := NewUser(u)
	return &user, nil
}

// Login checks the credentials and issues a bearer token.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := m.db.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("db get user: %w", err)
	} else if u == nil || !auth.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := m.tokens.Issue(u.ID, u.Name, u.Email, u.Role)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: NewUser(u)}, nil
}

// Authenticate validates a bearer token and refreshes its identity claims from
// the stored user, so role changes apply to tokens already issued.
func (m *Manager) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := m.db.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("db check token: %w", err)
	} else if revoked {
		return nil, fmt.Errorf("%w: token revoked", auth.ErrInvalidToken)
	}

	u, err := m.db.UserByID(ctx, claims.UserID())
	if err != nil {
		return nil, fmt.Errorf("db get user: %w", err)
	} else if u == nil {
		return nil, fmt.Errorf("%w: user no longer exists", auth.ErrInvalidToken)
	}

	claims.Name, claims.Email, claims.Role = u.Name, u.Email, u.Role

	return claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (m *Manager) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return errors.New("logout: no token claims")
	}

	expiresAt := time.Now().Add(m.tokens.TTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := m.db.RevokeToken(ctx, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("db revoke token: %w", err)
	}

	return nil
}

func (m *Manager) Me(ctx context.Context, userID int) (*User, error) {
	u, err := m.db.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("db get user: %w", err)
	} else if u == nil {
		return nil, notFound("user", userID)
	}

	user := NewUser(u)
	return &user, nil
}

func (m *Manager) ChangePassword(ctx context.Context, userID int, current, password, confirmation string) error {
	u, err := m.db.UserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("db get user: %w", err)
	} else if u == nil {
		return notFound("user", userID)
	}

	if !auth.CheckPassword(u.Password, current) {
		return invalid("current_password", "current password is incorrect")
	}

	if err := validPassword(password, confirmation); err != nil {
		return err
	}

	if u.Password, err = auth.HashPassword(password); err != nil {
		return err
	}

	if err := m.db.UpdateUser(ctx, u, db.Columns.User.Password); err != nil {
		return fmt.Errorf("db update password: %w", err)
	}

	m.logger.InfoContext(ctx, "password changed", "user_id", userID)

	return nil
}

// DeleteAccount removes the user with their interactions and soft-deletes the
// articles of their author profile. The profile itself stays, unlinked.
func (m *Manager) DeleteAccount(ctx context.Context, userID int, password string) error {
	u, err := m.db.UserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("db get user: %w", err)
	} else if u == nil {
		return notFound("user", userID)
	}

	if !auth.CheckPassword(u.Password, password) {
		return invalid("password", "password is incorrect")
	}

	err = m.inTx(ctx, func(tm *Manager) error {
		if err := tm.db.DeleteInteractionsByUser(ctx, userID); err != nil {
			return err
		}

		author, err := tm.db.AuthorByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if author != nil {
			if err := tm.db.DeleteArticlesByAuthor(ctx, author.ID); err != nil {
				return err
			}
		}

		_, err = tm.db.DeleteUser(ctx, userID)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	m.cache.invalidate(ctx, cacheTagArticles)
	m.logger.InfoContext(ctx, "account deleted", "user_id", userID)

	return nil
}

func (m *Manager) Users(ctx context.Context, p Pagination) (Page[User], error) {
	return m.usersByRole(ctx, "", p)
}

func (m *Manager) Moderators(ctx context.Context, p Pagination) (Page[User], error) {
	return m.usersByRole(ctx, string(auth.RoleModerator), p)
}

func (m *Manager) usersByRole(ctx context.Context, role string, p Pagination) (Page[User], error) {
	pager := p.pager()

	list, total, err := m.db.Users(ctx, role, pager)
	if err != nil {
		return Page[User]{}, fmt.Errorf("db get users: %w", err)
	}

	return newPage(NewUsers(list), total, pager), nil
}

// AddModerator grants the moderator role to the user with the email.
func (m *Manager) AddModerator(ctx context.Context, email string) (*User, error) {
	u, err := m.db.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("db get user: %w", err)
	} else if u == nil {
		return nil, notFound("user", email)
	}

	switch auth.Role(u.Role) {
	case auth.RoleModerator:
		return nil, fmt.Errorf("%w: user is already a moderator", ErrConflict)
	case auth.RoleAdmin:
		return nil, fmt.Errorf("%w: user is an admin", ErrConflict)
	}

	return m.setRole(ctx, u, auth.RoleModerator)
}

// RemoveModerator returns a moderator to the plain user role.
func (m *Manager) RemoveModerator(ctx context.Context, userID int) (*User, error) {
	u, err := m.db.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("db get user: %w", err)
	} else if u == nil {
		return nil, notFound("user", userID)
	}

	if !auth.IsModerator(NewUser(u)) {
		return nil, fmt.Errorf("%w: user is not a moderator", ErrConflict)
	}

	return m.setRole(ctx, u, auth.RoleUser)
}

func (m *Manager) setRole(ctx context.Context, u *db.User, role auth.Role) (*User, error) {
	u.Role = string(role)
	if err := m.db.UpdateUser(ctx, u, db.Columns.User.Role); err != nil {
		return nil, fmt.Errorf("db update role: %w", err)
	}

	m.logger.InfoContext(ctx, "role changed", "user_id", u.ID, "role", role)

	user := NewUser(u)
	return &user, nil
}

// Authors lists every author profile.
func (m *Manager) Authors(ctx context.Context) ([]Author, error) {
	list, err := m.db.Authors(ctx)
	if err != nil {
		return nil, fmt.Errorf("db get authors: %w", err)
	}

	return NewAuthors(list), nil
}

// DashboardStats summarizes users, articles and interactions.
func (m *Manager) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)

	if stats.TotalUsers, err = m.db.CountUsers(ctx); err != nil {
		return nil, err
	}
	if stats.PublishedArticles, err = m.db.CountArticles(ctx, db.StatusPublished); err != nil {
		return nil, err
	}
	if stats.DraftArticles, err = m.db.CountArticles(ctx, db.StatusDraft); err != nil {
		return nil, err
	}
	if stats.TotalViews, err = m.db.TotalInteractions(ctx, db.InteractionShared); err != nil {
		return nil, err
	}
	if stats.TotalLikes, err = m.db.TotalInteractions(ctx, db.InteractionLiked); err != nil {
		return nil, err
	}

	return &stats, nil
}

const (
	adminRecentArticles = 5
	activityFeedSize    = 20
	activityPublished   = "Published"
	unknownUser         = "Unknown"
)

// AdminStats returns the site totals and the most recently published
// articles in any status.
func (m *Manager) AdminStats(ctx context.Context, viewer Viewer) (*AdminStats, error) {
	var (
		stats AdminStats
		err   error
	)

	if stats.TotalArticles, err = m.db.CountArticles(ctx, ""); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = m.db.CountUsers(ctx); err != nil {
		return nil, err
	}
	if stats.TotalViews, err = m.db.TotalInteractions(ctx, db.InteractionShared); err != nil {
		return nil, err
	}

	recent, err := m.articlePage(ctx, db.ArticleSearch{Order: orderPublished}, Pagination{Page: 1, PageSize: adminRecentArticles}, viewer)
	if err != nil {
		return nil, err
	}
	stats.RecentArticles = recent.Items

	return &stats, nil
}

// RecentActivity lists the latest publications with the email of their author.
func (m *Manager) RecentActivity(ctx context.Context) ([]Activity, error) {
	rows, err := m.db.LatestArticles(ctx, activityFeedSize)
	if err != nil {
		return nil, fmt.Errorf("db get latest articles: %w", err)
	}

	return lo.Map(rows, func(a db.Article, _ int) Activity {
		user := unknownUser
		if a.Author != nil && a.Author.User != nil {
			user = a.Author.User.Email
		}

		ts := a.CreatedAt
		if a.PublishedAt != nil {
			ts = *a.PublishedAt
		}

		return Activity{Action: activityPublished, Title: a.Title, User: user, Timestamp: ts}
	}), nil
}
