package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"unicode"

	"recipe-payments/internal/client"
	"recipe-payments/internal/dto"
	"recipe-payments/internal/model"
	"recipe-payments/internal/repository"
	"recipe-payments/internal/signature"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrPlanNotFound          = errors.New("subscription plan not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrUnsupportedMethod     = errors.New("unsupported payment method type")
)

// ConfirmOutcome is the terminal state of one callback dispatch.
type ConfirmOutcome string

const (
	// OutcomeUpgraded: the order transitioned to completed and the
	// entitlement was upserted.
	OutcomeUpgraded ConfirmOutcome = "upgraded"
	// OutcomeSkipped: the order was already terminal. The normal result of
	// duplicate delivery (IPN and browser return racing), not an error.
	OutcomeSkipped ConfirmOutcome = "skipped"
	// OutcomeNotFound: the callback referenced an order this system never
	// issued. Behaves like OutcomeSkipped, logged differently.
	OutcomeNotFound ConfirmOutcome = "not_found"
	// OutcomeMarkedFailed: the provider reported failure/cancel.
	OutcomeMarkedFailed ConfirmOutcome = "marked_failed"
	// OutcomeUpgradePending: the payment is completed but the entitlement
	// write failed; left for reconciliation.
	OutcomeUpgradePending ConfirmOutcome = "upgrade_pending"
)

// MoMoIPNStatus tells the handler which acknowledgement MoMo gets.
type MoMoIPNStatus int

const (
	MoMoIPNAccepted MoMoIPNStatus = iota // processed, reply 204
	MoMoIPNRejected                      // bad signature or malformed body, reply 400
	MoMoIPNError                         // internal error, reply 500
)

// UpgradeError is the soft-failure case: the provider's money movement is
// settled and acknowledged, but the downstream entitlement write failed.
type UpgradeError struct {
	OrderID string
	Err     error
}

func (e *UpgradeError) Error() string {
	return fmt.Sprintf("order %s completed but entitlement upgrade failed: %v", e.OrderID, e.Err)
}

func (e *UpgradeError) Unwrap() error {
	return e.Err
}

type PaymentService interface {
	CreatePayment(ctx context.Context, userID string, req *dto.CreatePaymentRequest, ipAddr string) (*dto.CreatePaymentResponse, error)
	GetHistory(ctx context.Context, userID string) ([]*model.Order, error)

	// ConfirmPayment drives the completion transition for a verified,
	// provider-successful callback. Exactly one caller per order ever
	// observes OutcomeUpgraded; everyone else skips.
	ConfirmPayment(ctx context.Context, orderID string) (ConfirmOutcome, error)

	HandleVNPayIPN(ctx context.Context, params map[string]string) *dto.VNPayIPNResponse
	HandleVNPayReturn(ctx context.Context, params map[string]string) string
	HandleMoMoIPN(ctx context.Context, ipn *dto.MoMoIPNRequest) MoMoIPNStatus
}

type paymentServiceImpl struct {
	orderRepo           repository.OrderRepository
	planRepo            repository.PlanRepository
	paymentMethodRepo   repository.PaymentMethodRepository
	subscriptionService SubscriptionService
	vnpaySigner         *signature.VNPaySigner
	momoSigner          *signature.MoMoSigner
	vnpayClient         client.VNPayClient
	momoClient          client.MoMoClient
	deepLink            string
	logger              *zap.Logger
}

func NewPaymentService(
	orderRepo repository.OrderRepository,
	planRepo repository.PlanRepository,
	paymentMethodRepo repository.PaymentMethodRepository,
	subscriptionService SubscriptionService,
	vnpaySigner *signature.VNPaySigner,
	momoSigner *signature.MoMoSigner,
	vnpayClient client.VNPayClient,
	momoClient client.MoMoClient,
	deepLink string,
	logger *zap.Logger,
) PaymentService {
	return &paymentServiceImpl{
		orderRepo:           orderRepo,
		planRepo:            planRepo,
		paymentMethodRepo:   paymentMethodRepo,
		subscriptionService: subscriptionService,
		vnpaySigner:         vnpaySigner,
		momoSigner:          momoSigner,
		vnpayClient:         vnpayClient,
		momoClient:          momoClient,
		deepLink:            deepLink,
		logger:              logger,
	}
}

func (s *paymentServiceImpl) CreatePayment(ctx context.Context, userID string, req *dto.CreatePaymentRequest, ipAddr string) (*dto.CreatePaymentResponse, error) {
	method, err := s.paymentMethodRepo.FindByID(ctx, userID, req.PaymentMethodID)
	if err != nil {
		return nil, ErrPaymentMethodNotFound
	}

	plan, err := s.planRepo.FindByPlanID(ctx, req.PlanID)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Nang cap %s", plan.Name)
	}

	orderID := uuid.NewString()
	order := &model.Order{
		ID:          orderID,
		UserID:      userID,
		Status:      model.OrderStatusPending,
		Amount:      plan.Price,
		Currency:    plan.Currency,
		Method:      method.Type,
		PlanID:      plan.PlanID,
		Description: description,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	orderInfo := sanitizeOrderInfo(description)

	var paymentURL string
	switch method.Type {
	case model.PaymentMethodVNPay:
		paymentURL, err = s.vnpayClient.BuildPaymentURL(&client.VNPayPaymentRequest{
			Amount:    plan.Price,
			OrderID:   orderID,
			OrderInfo: orderInfo,
			IPAddr:    ipAddr,
		})
	case model.PaymentMethodMoMo:
		paymentURL, err = s.momoClient.CreatePayment(ctx, &client.MoMoPaymentRequest{
			Amount:    plan.Price,
			OrderID:   orderID,
			OrderInfo: orderInfo,
			RequestID: orderID,
		})
	default:
		return nil, ErrUnsupportedMethod
	}
	if err != nil {
		return nil, fmt.Errorf("create %s payment: %w", method.Type, err)
	}

	s.logger.Info("payment created",
		zap.String("order_id", orderID),
		zap.String("user_id", userID),
		zap.String("method", method.Type),
		zap.String("plan_id", plan.PlanID),
		zap.Int64("amount", plan.Price),
	)

	return &dto.CreatePaymentResponse{
		OrderID:    orderID,
		PaymentURL: paymentURL,
	}, nil
}

func (s *paymentServiceImpl) GetHistory(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID, 50)
}

func (s *paymentServiceImpl) ConfirmPayment(ctx context.Context, orderID string) (ConfirmOutcome, error) {
	order, err := s.orderRepo.MarkCompleted(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("mark order completed: %w", err)
	}

	if order == nil {
		// lost the race or the reference is bogus; either way nothing more
		// to do here
		if _, ferr := s.orderRepo.FindByID(ctx, orderID); ferr != nil {
			s.logger.Warn("callback for unknown order", zap.String("order_id", orderID))
			return OutcomeNotFound, nil
		}
		s.logger.Info("duplicate callback for settled order", zap.String("order_id", orderID))
		return OutcomeSkipped, nil
	}

	if err := s.subscriptionService.UpgradeFromOrder(ctx, order); err != nil {
		s.logger.Error("entitlement upgrade failed after completed payment",
			zap.String("order_id", order.ID),
			zap.String("user_id", order.UserID),
			zap.Error(err),
		)
		return OutcomeUpgradePending, &UpgradeError{OrderID: order.ID, Err: err}
	}

	return OutcomeUpgraded, nil
}

func (s *paymentServiceImpl) failPayment(ctx context.Context, orderID string) {
	order, err := s.orderRepo.MarkFailed(ctx, orderID)
	if err != nil {
		s.logger.Error("mark order failed", zap.String("order_id", orderID), zap.Error(err))
		return
	}
	if order == nil {
		s.logger.Info("failure callback for settled or unknown order", zap.String("order_id", orderID))
		return
	}

	s.logger.Info("order marked failed", zap.String("order_id", orderID))
}

func (s *paymentServiceImpl) HandleVNPayIPN(ctx context.Context, params map[string]string) *dto.VNPayIPNResponse {
	if !s.vnpaySigner.Verify(params) {
		s.logger.Warn("vnpay ipn signature rejected",
			zap.String("order_id", params["vnp_TxnRef"]),
		)
		return &dto.VNPayIPNResponse{RspCode: "97", Message: "Invalid Signature"}
	}

	orderID := params["vnp_TxnRef"]

	if params["vnp_ResponseCode"] == "00" {
		_, err := s.ConfirmPayment(ctx, orderID)
		var upgradeErr *UpgradeError
		if err != nil && !errors.As(err, &upgradeErr) {
			return &dto.VNPayIPNResponse{RspCode: "99", Message: "Internal Error"}
		}
		// a soft upgrade failure is still acknowledged: the payment itself
		// settled, and a retry storm from VNPay cannot fix our side
		return &dto.VNPayIPNResponse{RspCode: "00", Message: "Confirm Success"}
	}

	s.failPayment(ctx, orderID)
	return &dto.VNPayIPNResponse{RspCode: "01", Message: "Confirm Failed"}
}

// HandleVNPayReturn drives the browser-redirect channel. It always returns a
// deep link; a human is parked in a webview waiting for this redirect.
func (s *paymentServiceImpl) HandleVNPayReturn(ctx context.Context, params map[string]string) string {
	orderID := params["vnp_TxnRef"]

	if !s.vnpaySigner.Verify(params) {
		s.logger.Warn("vnpay return signature rejected", zap.String("order_id", orderID))
		return s.failureLink(orderID, "97")
	}

	responseCode := params["vnp_ResponseCode"]
	if responseCode == "00" {
		if _, err := s.ConfirmPayment(ctx, orderID); err != nil {
			// settled payment; the IPN channel or reconciliation picks up
			// whatever is left
			s.logger.Error("vnpay return confirm", zap.String("order_id", orderID), zap.Error(err))
		}
		return s.deepLink + "?status=success&orderId=" + url.QueryEscape(orderID)
	}

	s.failPayment(ctx, orderID)
	return s.failureLink(orderID, responseCode)
}

func (s *paymentServiceImpl) failureLink(orderID, code string) string {
	return s.deepLink + "?status=failed&orderId=" + url.QueryEscape(orderID) + "&code=" + url.QueryEscape(code)
}

func (s *paymentServiceImpl) HandleMoMoIPN(ctx context.Context, ipn *dto.MoMoIPNRequest) MoMoIPNStatus {
	if ipn == nil || ipn.OrderID == "" || ipn.Signature == "" {
		return MoMoIPNRejected
	}

	verified := s.momoSigner.VerifyIPN(&signature.MoMoIPN{
		PartnerCode:  ipn.PartnerCode,
		OrderID:      ipn.OrderID,
		RequestID:    ipn.RequestID,
		Amount:       ipn.Amount,
		OrderInfo:    ipn.OrderInfo,
		OrderType:    ipn.OrderType,
		TransID:      ipn.TransID,
		ResultCode:   ipn.ResultCode,
		Message:      ipn.Message,
		PayType:      ipn.PayType,
		ResponseTime: ipn.ResponseTime,
		ExtraData:    ipn.ExtraData,
		Signature:    ipn.Signature,
	})
	if !verified {
		s.logger.Warn("momo ipn signature rejected", zap.String("order_id", ipn.OrderID))
		return MoMoIPNRejected
	}

	if ipn.ResultCode == 0 {
		_, err := s.ConfirmPayment(ctx, ipn.OrderID)
		var upgradeErr *UpgradeError
		if err != nil && !errors.As(err, &upgradeErr) {
			return MoMoIPNError
		}
		return MoMoIPNAccepted
	}

	s.failPayment(ctx, ipn.OrderID)
	return MoMoIPNAccepted
}

var orderInfoUnsafe = regexp.MustCompile(`[^a-zA-Z0-9 ]`)

// sanitizeOrderInfo strips diacritics and anything outside the providers'
// safe alphabet from the human description before it rides in signed fields.
func sanitizeOrderInfo(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	return orderInfoUnsafe.ReplaceAllString(stripped, " ")
}
