package handler

import (
	"errors"
	"net/http"

	"recipe-payments/internal/dto"
	"recipe-payments/internal/middleware"
	"recipe-payments/internal/model"
	"recipe-payments/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type PaymentMethodHandler struct {
	paymentMethodRepo repository.PaymentMethodRepository
}

func NewPaymentMethodHandler(paymentMethodRepo repository.PaymentMethodRepository) *PaymentMethodHandler {
	return &PaymentMethodHandler{
		paymentMethodRepo: paymentMethodRepo,
	}
}

func (h *PaymentMethodHandler) ListPaymentMethods(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	methods, err := h.paymentMethodRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, methods)
}

func (h *PaymentMethodHandler) AddPaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.AddPaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Type == "" || req.Label == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "type and label are required")
	}
	if req.Type != model.PaymentMethodVNPay && req.Type != model.PaymentMethodMoMo {
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported payment method type")
	}

	count, err := h.paymentMethodRepo.CountByUser(ctx, userID)
	if err != nil {
		return err
	}

	method := &model.PaymentMethod{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      req.Type,
		Label:     req.Label,
		IsDefault: count == 0, // first saved method becomes the default
	}
	if err := h.paymentMethodRepo.Create(ctx, method); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, method)
}

func (h *PaymentMethodHandler) RemovePaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	method, err := h.paymentMethodRepo.FindByID(ctx, userID, c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "payment method not found")
	}
	if err != nil {
		return err
	}

	if err := h.paymentMethodRepo.Delete(ctx, userID, method.ID); err != nil {
		return err
	}

	if method.IsDefault {
		if err := h.paymentMethodRepo.PromoteOldest(ctx, userID); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "payment method removed"})
}
