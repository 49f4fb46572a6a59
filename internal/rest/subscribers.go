package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/news-herald/internal/newsportal"
)

// Subscribe handles POST /api/subscribe
// @Summary Subscribe to the newsletter
// @Tags subscribers
// @Accept json
// @Produce json
// @Param subscriber body rest.SubscribeRequest true "Subscriber"
// @Success 201 {object} rest.Subscriber
// @Failure 400,409,422,500 {object} rest.ErrorResponse
// @Router /api/subscribe [post]
func (h *Handler) Subscribe(c echo.Context) error {
	var req SubscribeRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	s, err := h.m.Subscribe(c.Request().Context(), req.Email, req.Name)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusCreated, NewSubscriber(*s))
}

// Unsubscribe handles GET /api/unsubscribe/:token
// @Summary Unsubscribe from the newsletter
// @Tags subscribers
// @Produce json
// @Param token path string true "Unsubscribe token"
// @Success 200 {object} rest.MessageResponse
// @Failure 404,500 {object} rest.ErrorResponse
// @Router /api/unsubscribe/{token} [get]
func (h *Handler) Unsubscribe(c echo.Context) error {
	if _, err := h.m.Unsubscribe(c.Request().Context(), c.Param("token")); err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "you have been unsubscribed"})
}

// Subscribers handles GET /api/subscribers
// @Summary List subscribers
// @Tags subscribers
// @Produce json
// @Security BearerAuth
// @Param status query string false "active, inactive or unsubscribed"
// @Param search query string false "Email or name substring"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Page size (default: 10)"
// @Success 200 {object} rest.Page[rest.Subscriber]
// @Failure 401,403,422,500 {object} rest.ErrorResponse
// @Router /api/subscribers [get]
func (h *Handler) Subscribers(c echo.Context) error {
	var q SubscribersQuery
	if err := query(c, &q); err != nil {
		return h.handleError(c, err)
	}

	page, err := h.m.Subscribers(c.Request().Context(), q.Status, q.Search, newsportal.Pagination{Page: q.Page, PageSize: q.Limit})
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewPage(page, NewSubscriber))
}

// Subscriber handles GET /api/subscribers/:id
// @Summary Get subscriber
// @Tags subscribers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subscriber ID"
// @Success 200 {object} rest.Subscriber
// @Failure 401,403,404,422,500 {object} rest.ErrorResponse
// @Router /api/subscribers/{id} [get]
func (h *Handler) Subscriber(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	s, err := h.m.Subscriber(c.Request().Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewSubscriber(*s))
}

// CreateSubscriber handles POST /api/subscribers
// @Summary Create subscriber
// @Tags subscribers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subscriber body rest.SubscriberRequest true "Subscriber"
// @Success 201 {object} rest.Subscriber
// @Failure 400,401,403,409,422,500 {object} rest.ErrorResponse
// @Router /api/subscribers [post]
func (h *Handler) CreateSubscriber(c echo.Context) error {
	var req SubscriberRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	s, err := h.m.CreateSubscriber(c.Request().Context(), newsportal.SubscriberInput{
		Email:       req.Email,
		Name:        req.Name,
		Status:      req.Status,
		Preferences: req.Preferences,
	})
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusCreated, NewSubscriber(*s))
}

// UpdateSubscriber handles PUT /api/subscribers/:id
// @Summary Update subscriber
// @Tags subscribers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subscriber ID"
// @Param subscriber body rest.SubscriberRequest true "Subscriber"
// @Success 200 {object} rest.Subscriber
// @Failure 400,401,403,404,409,422,500 {object} rest.ErrorResponse
// @Router /api/subscribers/{id} [put]
func (h *Handler) UpdateSubscriber(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	var req SubscriberRequest
	if err := h.bind(c, &req); err != nil {
		return h.handleError(c, err)
	}

	s, err := h.m.UpdateSubscriber(c.Request().Context(), id, newsportal.SubscriberInput{
		Email:       req.Email,
		Name:        req.Name,
		Status:      req.Status,
		Preferences: req.Preferences,
	})
	if err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, NewSubscriber(*s))
}

// DeleteSubscriber handles DELETE /api/subscribers/:id
// @Summary Delete subscriber
// @Tags subscribers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subscriber ID"
// @Success 200 {object} rest.MessageResponse
// @Failure 401,403,404,422,500 {object} rest.ErrorResponse
// @Router /api/subscribers/{id} [delete]
func (h *Handler) DeleteSubscriber(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return h.handleError(c, err)
	}

	if err := h.m.DeleteSubscriber(c.Request().Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "subscriber deleted"})
}
