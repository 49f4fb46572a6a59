// Package cors decides which origin a response may be shared with and sets
// the CORS headers on every response, including errors and preflights.
package cors

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
)

// Header values sent with every response.
const (
	// AllowMethods lists the methods the API accepts cross-origin.
	AllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	// AllowHeaders lists the request headers a browser may send.
	AllowHeaders = "Content-Type, Authorization, X-Requested-With"
	// AllowCredentials lets browsers send cookies and Authorization headers.
	AllowCredentials = "true"
)

// Config is the explicit CORS configuration built at startup.
type Config struct {
	// AllowedOrigins are matched exactly against the Origin header.
	AllowedOrigins []string
	// WildcardHosts admit any subdomain of the host over http or https,
	// e.g. "vercel.app" admits https://preview-123.vercel.app.
	WildcardHosts []string
	// FallbackOrigin is echoed when the request origin is not allowed.
	FallbackOrigin string
}

// Decision is the result of evaluating one request.
type Decision struct {
	Allow           bool
	EffectiveOrigin string
	Preflight       bool
}

// Policy evaluates request origins against the configured exact origins and
// wildcard hosts. It is immutable after New and safe for concurrent use.
type Policy struct {
	origins  map[string]struct{}
	patterns []*regexp.Regexp
	fallback string
}

// New compiles cfg into a Policy. The fallback origin is required; blank
// origins and wildcard hosts are skipped.
func New(cfg Config) (*Policy, error) {
	if cfg.FallbackOrigin == "" {
		return nil, fmt.Errorf("cors: fallback origin is required")
	}

	p := &Policy{
		origins:  make(map[string]struct{}, len(cfg.AllowedOrigins)),
		fallback: cfg.FallbackOrigin,
	}

	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			p.origins[o] = struct{}{}
		}
	}

	for _, host := range cfg.WildcardHosts {
		host = strings.Trim(strings.TrimSpace(host), ".")
		if host == "" {
			continue
		}
		re, err := regexp.Compile(`^https?://[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)*\.` +
			regexp.QuoteMeta(strings.ToLower(host)) + `$`)
		if err != nil {
			return nil, fmt.Errorf("cors: wildcard host %q: %w", host, err)
		}
		p.patterns = append(p.patterns, re)
	}

	return p, nil
}

// Allowed reports whether origin is in the allow-list or matches a wildcard host.
// An empty origin is never allowed.
func (p *Policy) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := p.origins[origin]; ok {
		return true
	}
	for _, re := range p.patterns {
		if re.MatchString(origin) {
			return true
		}
	}
	return false
}

// Evaluate decides the effective origin for a request. A disallowed origin is
// never reflected; the fallback origin is returned instead.
func (p *Policy) Evaluate(origin, method string) Decision {
	d := Decision{
		Allow:           p.Allowed(origin),
		EffectiveOrigin: p.fallback,
		Preflight:       method == http.MethodOptions,
	}
	if d.Allow {
		d.EffectiveOrigin = origin
	}
	return d
}

func (p *Policy) writeHeaders(h http.Header, d Decision) {
	h.Set(echo.HeaderAccessControlAllowOrigin, d.EffectiveOrigin)
	h.Set(echo.HeaderAccessControlAllowMethods, AllowMethods)
	h.Set(echo.HeaderAccessControlAllowHeaders, AllowHeaders)
	h.Set(echo.HeaderAccessControlAllowCredentials, AllowCredentials)
	h.Add(echo.HeaderVary, echo.HeaderOrigin)
}

// Middleware answers pre-flight requests itself and stamps the CORS headers
// on every other response right before it is written. Register it with
// echo.Pre so that it also covers unrouted paths.
func (p *Policy) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			d := p.Evaluate(req.Header.Get(echo.HeaderOrigin), req.Method)

			if d.Preflight {
				p.writeHeaders(c.Response().Header(), d)
				return c.NoContent(http.StatusOK)
			}

			res := c.Response()
			res.Before(func() {
				p.writeHeaders(res.Header(), d)
			})

			return next(c)
		}
	}
}
