package handler

import (
	"errors"
	"net/http"

	"recipe-payments/internal/dto"
	"recipe-payments/internal/middleware"
	"recipe-payments/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req dto.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.PlanID == "" || req.PaymentMethodID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "plan_id and payment_method_id are required")
	}

	result, err := h.paymentService.CreatePayment(ctx, userID, &req, c.RealIP())
	switch {
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrPaymentMethodNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnsupportedMethod):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *PaymentHandler) GetPaymentHistory(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	orders, err := h.paymentService.GetHistory(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

// VNPayIPN is the server-to-server push channel. VNPay retries until it sees
// an acknowledgement body, so every exit path replies 200 with an RspCode.
func (h *PaymentHandler) VNPayIPN(c echo.Context) error {
	ctx := c.Request().Context()

	ack := h.paymentService.HandleVNPayIPN(ctx, queryParams(c))
	return c.JSON(http.StatusOK, ack)
}

// VNPayReturn is the browser channel: the user's webview lands here after
// checkout and must always be sent back into the app via the deep link.
func (h *PaymentHandler) VNPayReturn(c echo.Context) error {
	ctx := c.Request().Context()

	location := h.paymentService.HandleVNPayReturn(ctx, queryParams(c))
	return c.Redirect(http.StatusFound, location)
}

func (h *PaymentHandler) MoMoIPN(c echo.Context) error {
	ctx := c.Request().Context()

	var ipn dto.MoMoIPNRequest
	if err := c.Bind(&ipn); err != nil {
		h.logger.Warn("momo ipn body rejected", zap.Error(err))
		return c.NoContent(http.StatusBadRequest)
	}

	switch h.paymentService.HandleMoMoIPN(ctx, &ipn) {
	case service.MoMoIPNAccepted:
		return c.NoContent(http.StatusNoContent)
	case service.MoMoIPNRejected:
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid Signature"})
	default:
		return c.NoContent(http.StatusInternalServerError)
	}
}

func queryParams(c echo.Context) map[string]string {
	params := map[string]string{}
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}
