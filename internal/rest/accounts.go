package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/news-herald/internal/newsportal"
)

// Register handles POST /api/register
// @Summary Register a user
// @Description Creates a user with the user role. The password needs 8 characters with lower case, upper case and a digit.
// @Tags auth
// @Accept json
// @Produce json
// @Param user body rest.RegisterRequest true "User"
// @Success 201 {object} rest.User
// @Failure 400,409,422,429,500 {object} rest.ErrorResponse
// @Router /api/register [post]
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	user, err := h.m.Register(c.Request().Context(), newsportal.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusCreated, NewUser(*user))
}

// Login handles POST /api/login
// @Summary Log in
// @Description Returns a bearer token for the Authorization header.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body rest.LoginRequest true "Credentials"
// @Success 200 {object} rest.LoginResponse
// @Failure 400,401,422,429,500 {object} rest.ErrorResponse
// @Router /api/login [post]
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	session, err := h.m.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
		Role:      session.User.Role,
		User:      NewUser(session.User),
	})
}

// Logout handles POST /api/logout
// @Summary Log out
// @Description Revokes the current token.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} rest.MessageResponse
// @Failure 401,500 {object} rest.ErrorResponse
// @Router /api/logout [post]
func (h *Handler) Logout(c echo.Context) error {
	if err := h.m.Logout(c.Request().Context(), claimsFrom(c)); err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// Me handles GET /api/user
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} rest.User
// @Failure 401,404,500 {object} rest.ErrorResponse
// @Router /api/user [get]
func (h *Handler) Me(c echo.Context) error {
	user, err := h.m.Me(c.Request().Context(), viewer(c).UserID)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewUser(*user))
}

// ChangePassword handles POST /api/change-password
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param passwords body rest.ChangePasswordRequest true "Passwords"
// @Success 200 {object} rest.MessageResponse
// @Failure 400,401,422,500 {object} rest.ErrorResponse
// @Router /api/change-password [post]
func (h *Handler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	err := h.m.ChangePassword(c.Request().Context(), viewer(c).UserID, req.CurrentPassword, req.Password, req.PasswordConfirmation)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "password changed"})
}

// DeleteAccount handles POST /api/delete-account
// @Summary Delete own account
// @Description Removes the user and their interactions and soft-deletes the articles of their author profile.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param password body rest.DeleteAccountRequest true "Password"
// @Success 200 {object} rest.MessageResponse
// @Failure 400,401,422,500 {object} rest.ErrorResponse
// @Router /api/delete-account [post]
func (h *Handler) DeleteAccount(c echo.Context) error {
	var req DeleteAccountRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	if err := h.m.DeleteAccount(c.Request().Context(), viewer(c).UserID, req.Password); err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "account deleted"})
}
