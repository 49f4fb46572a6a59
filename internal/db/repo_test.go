package db

import (
	"errors"
	"testing"

	"github.com/go-pg/pg/v10"
	"github.com/jackc/pgx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%news%", likePattern("news"))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\dir%`, likePattern(`c:\dir`))
}

func TestPager(t *testing.T) {
	assert.NoError(t, Pager{Page: 1, PageSize: 10}.validate())
	assert.Error(t, Pager{Page: 0, PageSize: 10}.validate())
	assert.Error(t, Pager{Page: 1, PageSize: 0}.validate())

	assert.Equal(t, 0, Pager{Page: 1, PageSize: 10}.offset())
	assert.Equal(t, 20, Pager{Page: 3, PageSize: 10}.offset())
}

func TestConstraintError(t *testing.T) {
	cause := errors.New("duplicate key")
	err := writeErr("insert article", &ConstraintError{Constraint: ConstraintArticleSlug, cause: cause})

	assert.True(t, IsConstraint(err, ConstraintArticleSlug))
	assert.False(t, IsConstraint(err, ConstraintTagSlug))
	assert.ErrorIs(t, err, ErrConstraintViolation)

	plain := writeErr("insert article", cause)
	assert.False(t, IsConstraint(plain, ConstraintArticleSlug))
	assert.ErrorIs(t, plain, cause)
}

func TestConnectionURL(t *testing.T) {
	t.Run("EscapesCredentials", func(t *testing.T) {
		dbURL := ConnectionURL(&pg.Options{
			Addr:     "localhost:5432",
			User:     "news@herald",
			Password: "p@ss/w#rd?:",
			Database: "news_herald",
		})

		config, err := pgx.ParseConnectionString(dbURL)
		require.NoError(t, err)
		assert.Equal(t, "localhost", config.Host)
		assert.Equal(t, uint16(5432), config.Port)
		assert.Equal(t, "news@herald", config.User)
		assert.Equal(t, "p@ss/w#rd?:", config.Password)
		assert.Equal(t, "news_herald", config.Database)
		assert.Nil(t, config.TLSConfig)
	})

	t.Run("EmptyPassword", func(t *testing.T) {
		dbURL := ConnectionURL(&pg.Options{Addr: "db:5433", User: "postgres", Database: "news"})
		assert.Equal(t, "postgres://postgres@db:5433/news?sslmode=disable", dbURL)
	})
}
