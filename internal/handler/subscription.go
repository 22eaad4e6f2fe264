package handler

import (
	"errors"
	"net/http"

	"recipe-payments/internal/middleware"
	"recipe-payments/internal/service"

	"github.com/labstack/echo/v4"
)

type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

func (h *SubscriptionHandler) GetMySubscription(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	sub, err := h.subscriptionService.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) CancelMySubscription(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	sub, err := h.subscriptionService.Cancel(ctx, userID)
	if errors.Is(err, service.ErrNoActiveSubscription) {
		return echo.NewHTTPError(http.StatusNotFound, "no active subscription to cancel")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sub)
}
