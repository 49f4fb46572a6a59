package slug

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryTable is an in-memory slug column keyed by row id.
type memoryTable map[int]string

func (m memoryTable) exists(_ context.Context, s string, excludeID int) (bool, error) {
	for id, v := range m {
		if v == s && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func TestMake(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation is dropped at the edges", "Campus News!", "campus-news"},
		{"runs collapse to one hyphen", "  Hello,   World -- again ", "hello-world-again"},
		{"diacritics are transliterated", "Café Crème brûlée", "cafe-creme-brulee"},
		{"special letters are transliterated", "Straße Øst", "strasse-ost"},
		{"digits are kept", "Top 10 Tips", "top-10-tips"},
		{"underscores become hyphens", "snake_case_title", "snake-case-title"},
		{"already a slug", "campus-news", "campus-news"},
		{"non latin scripts vanish", "Новости", ""},
		{"only punctuation", "!!!", ""},
		{"long input is cut to the column width", strings.Repeat("ab ", 200), strings.TrimRight(strings.Repeat("ab-", 85), "-")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.in))
		})
	}
}

func TestMake_ExpandingLetters(t *testing.T) {
	got := Make(strings.Repeat("ß", MaxLength))
	assert.Len(t, got, MaxLength)
	assert.Equal(t, strings.Repeat("s", MaxLength), got)
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("free base slug is returned as is", func(t *testing.T) {
		got, err := Generate(ctx, "Campus News!", memoryTable{}.exists, 0)
		require.NoError(t, err)
		assert.Equal(t, "campus-news", got)
	})

	t.Run("second article with the same title gets suffix 1", func(t *testing.T) {
		table := memoryTable{}
		first, err := Generate(ctx, "Campus News!", table.exists, 0)
		require.NoError(t, err)
		table[1] = first

		second, err := Generate(ctx, "Campus News!", table.exists, 0)
		require.NoError(t, err)
		assert.Equal(t, "campus-news-1", second)
	})

	t.Run("k collisions give suffix k", func(t *testing.T) {
		for k := 1; k <= 5; k++ {
			table := memoryTable{1: "news"}
			for i := 1; i < k; i++ {
				table[i+1] = fmt.Sprintf("news-%d", i)
			}

			got, err := Generate(ctx, "News", table.exists, 0)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("news-%d", k), got)
		}
	})

	t.Run("update keeps its own slug", func(t *testing.T) {
		table := memoryTable{7: "campus-news", 8: "other"}
		got, err := Generate(ctx, "Campus News", table.exists, 7)
		require.NoError(t, err)
		assert.Equal(t, "campus-news", got)
	})

	t.Run("update still avoids other rows", func(t *testing.T) {
		table := memoryTable{7: "campus-news-1", 8: "campus-news"}
		got, err := Generate(ctx, "Campus News", table.exists, 7)
		require.NoError(t, err)
		assert.Equal(t, "campus-news-1", got)
	})

	t.Run("result is always free and prefixed by the base", func(t *testing.T) {
		table := memoryTable{1: "a-b", 2: "a-b-1", 3: "a-b-3"}
		for _, name := range []string{"A b", "a  B!", "Ä-B"} {
			got, err := Generate(ctx, name, table.exists, 0)
			require.NoError(t, err)

			taken, _ := table.exists(ctx, got, 0)
			assert.False(t, taken)
			assert.True(t, strings.HasPrefix(got, Make(name)))
			table[len(table)+1] = got
		}
	})

	t.Run("long title stays within the column width", func(t *testing.T) {
		name := strings.Repeat("a", MaxLength)
		base := Make(name)
		require.Len(t, base, MaxLength)

		table := memoryTable{1: base, 2: withSuffix(base, 1)}
		got, err := Generate(ctx, name, table.exists, 0)
		require.NoError(t, err)
		assert.Len(t, got, MaxLength)
		assert.Equal(t, strings.Repeat("a", MaxLength-2)+"-2", got)
	})

	t.Run("suffix never leaves a double hyphen", func(t *testing.T) {
		name := strings.Repeat("a", MaxLength-3) + " bcd"
		table := memoryTable{1: Make(name)}
		got, err := Generate(ctx, name, table.exists, 0)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), MaxLength)
		assert.NotContains(t, got, "--")
		assert.True(t, strings.HasSuffix(got, "-1"))
	})

	t.Run("empty slug is an error", func(t *testing.T) {
		_, err := Generate(ctx, "???", memoryTable{}.exists, 0)
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("existence check error is propagated", func(t *testing.T) {
		boom := errors.New("db down")
		_, err := Generate(ctx, "News", func(context.Context, string, int) (bool, error) {
			return false, boom
		}, 0)
		assert.ErrorIs(t, err, boom)
	})
}

func TestNeedsGeneration(t *testing.T) {
	assert.True(t, NeedsGeneration(true, false, ""))
	assert.False(t, NeedsGeneration(true, false, "given"))
	assert.True(t, NeedsGeneration(false, true, ""))
	assert.False(t, NeedsGeneration(false, true, "stable-url"))
	assert.False(t, NeedsGeneration(false, false, ""))
}
