package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-pg/urlstruct"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/news-herald/internal/auth"
	"github.com/daniilsolovey/news-herald/internal/newsportal"
)

type Handler struct {
	m   *newsportal.Manager
	log *slog.Logger
}

func NewHandler(m *newsportal.Manager, log *slog.Logger) *Handler {
	return &Handler{
		m:   m,
		log: log,
	}
}

// Validator adapts go-playground/validator to echo. Field names in errors are
// taken from the json tags.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{v: v}
}

func (cv *Validator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must not exceed " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	case "eqfield":
		return "confirmation does not match"
	case "gt":
		return "must be greater than " + fe.Param()
	}
	return "is invalid"
}

// handleError maps business errors to HTTP statuses. Unexpected errors are
// logged and hidden behind a generic message.
func (h *Handler) handleError(c echo.Context, err error) error {
	var (
		verr  *newsportal.ValidationError
		fErrs validator.ValidationErrors
		herr  *echo.HTTPError
	)

	switch {
	case errors.As(err, &fErrs):
		fields := make(map[string]string, len(fErrs))
		for _, fe := range fErrs {
			fields[fe.Field()] = validationMessage(fe)
		}
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Fields: fields})
	case errors.As(err, &verr):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, newsportal.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, newsportal.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, newsportal.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, newsportal.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, auth.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	case errors.As(err, &herr):
		return c.JSON(herr.Code, ErrorResponse{Error: fmt.Sprint(herr.Message)})
	}

	h.log.Error("handleError", "error", err, "method", c.Request().Method, "path", c.Path())
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// bind decodes the request body into req and validates it.
func (h *Handler) bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}

// query decodes the query string into a filter struct.
func query(c echo.Context, filter interface{}) error {
	if err := urlstruct.Unmarshal(c.Request().Context(), c.QueryParams(), filter); err != nil {
		return &newsportal.ValidationError{Fields: map[string]string{"query": err.Error()}}
	}
	return nil
}

func idParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, &newsportal.ValidationError{Fields: map[string]string{name: "must be a positive integer"}}
	}
	return id, nil
}

func pagination(q ListQuery) newsportal.Pagination {
	return newsportal.Pagination{Page: q.Page, PageSize: q.Limit}
}
