package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CheckAccess handles GET /api/admin/check-access
// @Summary Check admin access
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} rest.MessageResponse
// @Failure 401,403 {object} rest.ErrorResponse
// @Router /api/admin/check-access [get]
func (h *Handler) CheckAccess(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "access granted"})
}

// AdminStats handles GET /api/admin/stats
// @Summary Site totals with the latest articles
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} rest.AdminStats
// @Failure 401,403,500 {object} rest.ErrorResponse
// @Router /api/admin/stats [get]
func (h *Handler) AdminStats(c echo.Context) error {
	stats, err := h.m.AdminStats(c.Request().Context(), viewer(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewAdminStats(*stats))
}

// Users handles GET /api/admin/users
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} rest.Page[rest.User]
// @Failure 401,403,422,500 {object} rest.ErrorResponse
// @Router /api/admin/users [get]
func (h *Handler) Users(c echo.Context) error {
	var q ListQuery
	if err := query(c, &q); err != nil {
		return h.handleError(c, err)
	}

	page, err := h.m.Users(c.Request().Context(), pagination(q))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewPage(page, NewUser))
}

// Moderators handles GET /api/admin/moderators
// @Summary List moderators
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} rest.Page[rest.User]
// @Failure 401,403,422,500 {object} rest.ErrorResponse
// @Router /api/admin/moderators [get]
func (h *Handler) Moderators(c echo.Context) error {
	var q ListQuery
	if err := query(c, &q); err != nil {
		return h.handleError(c, err)
	}

	page, err := h.m.Moderators(c.Request().Context(), pagination(q))
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewPage(page, NewUser))
}

// AddModerator handles POST /api/admin/moderators
// @Summary Promote a user to moderator
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body rest.ModeratorRequest true "User email"
// @Success 200 {object} rest.User
// @Failure 400,401,403,404,409,422,500 {object} rest.ErrorResponse
// @Router /api/admin/moderators [post]
func (h *Handler) AddModerator(c echo.Context) error {
	var req ModeratorRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	user, err := h.m.AddModerator(c.Request().Context(), req.Email)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewUser(*user))
}

// RemoveModerator handles DELETE /api/admin/moderators/:id
// @Summary Demote a moderator to user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} rest.User
// @Failure 401,403,404,409,422,500 {object} rest.ErrorResponse
// @Router /api/admin/moderators/{id} [delete]
func (h *Handler) RemoveModerator(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	user, err := h.m.RemoveModerator(c.Request().Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewUser(*user))
}

// DashboardStats handles GET /api/admin/dashboard-stats
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} rest.DashboardStats
// @Failure 401,403,500 {object} rest.ErrorResponse
// @Router /api/admin/dashboard-stats [get]
func (h *Handler) DashboardStats(c echo.Context) error {
	stats, err := h.m.DashboardStats(c.Request().Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewDashboardStats(*stats))
}

// RecentActivity handles GET /api/admin/recent-activity
// @Summary Latest publications
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} rest.Activity
// @Failure 401,403,500 {object} rest.ErrorResponse
// @Router /api/admin/recent-activity [get]
func (h *Handler) RecentActivity(c echo.Context) error {
	feed, err := h.m.RecentActivity(c.Request().Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, Map(feed, NewActivity))
}
