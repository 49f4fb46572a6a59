package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fallback = "http://localhost:5173"

func newTestPolicy(t *testing.T) *Policy {
	t.Helper()
	p, err := New(Config{
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000", "https://herald.example.edu"},
		WildcardHosts:  []string{"vercel.app"},
		FallbackOrigin: fallback,
	})
	require.NoError(t, err)
	return p
}

func TestPolicy_Evaluate(t *testing.T) {
	p := newTestPolicy(t)

	tests := []struct {
		name       string
		origin     string
		method     string
		wantAllow  bool
		wantOrigin string
	}{
		{"exact origin", "https://herald.example.edu", http.MethodGet, true, "https://herald.example.edu"},
		{"preview deployment", "https://preview-123.vercel.app", http.MethodGet, true, "https://preview-123.vercel.app"},
		{"nested preview subdomain", "https://a.b.vercel.app", http.MethodPost, true, "https://a.b.vercel.app"},
		{"http preview", "http://preview.vercel.app", http.MethodGet, true, "http://preview.vercel.app"},
		{"evil origin", "https://evil.com", http.MethodGet, false, fallback},
		{"bare wildcard host", "https://vercel.app", http.MethodGet, false, fallback},
		{"suffix trick", "https://evil.com/.vercel.app", http.MethodGet, false, fallback},
		{"lookalike host", "https://preview.vercel.app.evil.com", http.MethodGet, false, fallback},
		{"absent origin", "", http.MethodGet, false, fallback},
		{"exact match is case sensitive", "HTTPS://HERALD.EXAMPLE.EDU", http.MethodGet, false, fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Evaluate(tt.origin, tt.method)
			assert.Equal(t, tt.wantAllow, d.Allow)
			assert.Equal(t, tt.wantOrigin, d.EffectiveOrigin)
			assert.False(t, d.Preflight)
		})
	}

	assert.True(t, p.Evaluate("https://evil.com", http.MethodOptions).Preflight)
}

func TestNew_RequiresFallback(t *testing.T) {
	_, err := New(Config{AllowedOrigins: []string{"http://localhost:5173"}})
	assert.Error(t, err)
}

func TestNew_SkipsBlankEntries(t *testing.T) {
	p, err := New(Config{
		AllowedOrigins: []string{"  ", "http://localhost:5173"},
		WildcardHosts:  []string{"", " . "},
		FallbackOrigin: "http://localhost:5173",
	})
	require.NoError(t, err)
	assert.Empty(t, p.patterns)
	assert.Len(t, p.origins, 1)
	assert.False(t, p.Allowed(""))
	assert.False(t, p.Allowed("https://anything.example.com"))
}

func TestPolicy_Middleware(t *testing.T) {
	p := newTestPolicy(t)

	e := echo.New()
	e.Pre(p.Middleware())

	called := 0
	e.GET("/api/articles/public", func(c echo.Context) error {
		called++
		c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	t.Run("preflight never reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/articles/public", nil)
		req.Header.Set(echo.HeaderOrigin, "https://preview-123.vercel.app")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, 0, called)
		assert.Equal(t, "https://preview-123.vercel.app", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Equal(t, AllowMethods, rec.Header().Get(echo.HeaderAccessControlAllowMethods))
		assert.Equal(t, AllowHeaders, rec.Header().Get(echo.HeaderAccessControlAllowHeaders))
		assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	})

	t.Run("preflight on an unknown path is answered too", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/nowhere", nil)
		req.Header.Set(echo.HeaderOrigin, "https://evil.com")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, fallback, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})

	t.Run("regular request is stamped after the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/articles/public", nil)
		req.Header.Set(echo.HeaderOrigin, "https://evil.com")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, called)
		assert.Equal(t, fallback, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	})

	t.Run("error responses carry the headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/missing", nil)
		req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})
}
