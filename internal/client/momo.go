package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"recipe-payments/internal/config"
	"recipe-payments/internal/signature"
)

const momoRequestType = "payWithATM"

type MoMoClient interface {
	// CreatePayment opens a payment with MoMo and returns the payUrl the
	// client app loads in a webview.
	CreatePayment(ctx context.Context, req *MoMoPaymentRequest) (string, error)
}

type MoMoPaymentRequest struct {
	Amount    int64
	OrderID   string
	OrderInfo string
	RequestID string
}

type momoClientImpl struct {
	httpClient  *http.Client
	partnerCode string
	apiEndpoint string
	notifyURL   string
	redirectURL string
	signer      *signature.MoMoSigner
}

func NewMoMoClient(momoCfg *config.MoMo, signer *signature.MoMoSigner) MoMoClient {
	return &momoClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		partnerCode: momoCfg.PartnerCode,
		apiEndpoint: momoCfg.APIEndpoint,
		notifyURL:   momoCfg.NotifyURL,
		redirectURL: momoCfg.RedirectURL,
		signer:      signer,
	}
}

type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	RequestType string `json:"requestType"`
	ExtraData   string `json:"extraData"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

type momoCreateResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
}

func (c *momoClientImpl) CreatePayment(ctx context.Context, req *MoMoPaymentRequest) (string, error) {
	if c.partnerCode == "" || c.apiEndpoint == "" {
		return "", fmt.Errorf("momo config incomplete")
	}

	sig := c.signer.SignCreate(&signature.MoMoCreateParams{
		PartnerCode: c.partnerCode,
		Amount:      req.Amount,
		OrderID:     req.OrderID,
		OrderInfo:   req.OrderInfo,
		IPNURL:      c.notifyURL,
		RedirectURL: c.redirectURL,
		RequestID:   req.RequestID,
		RequestType: momoRequestType,
		ExtraData:   "",
	})
	if sig == "" {
		return "", fmt.Errorf("momo secret key not configured")
	}

	payload, err := json.Marshal(&momoCreateRequest{
		PartnerCode: c.partnerCode,
		RequestID:   req.RequestID,
		Amount:      req.Amount,
		OrderID:     req.OrderID,
		OrderInfo:   req.OrderInfo,
		RedirectURL: c.redirectURL,
		IPNURL:      c.notifyURL,
		RequestType: momoRequestType,
		ExtraData:   "",
		Lang:        "vi",
		Signature:   sig,
	})
	if err != nil {
		return "", fmt.Errorf("marshal momo request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read momo response: %w", err)
	}

	var res momoCreateResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode momo response: %w", err)
	}

	if res.ResultCode != 0 {
		return "", fmt.Errorf("momo create payment: %s (code %d)", res.Message, res.ResultCode)
	}

	return res.PayURL, nil
}
