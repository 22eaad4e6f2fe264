package client

import (
	"fmt"
	"strconv"
	"time"

	"recipe-payments/internal/config"
	"recipe-payments/internal/signature"
)

// VNPayClient builds signed hosted-checkout URLs. VNPay has no create-payment
// API call; the signed URL itself is the payment request.
type VNPayClient interface {
	BuildPaymentURL(req *VNPayPaymentRequest) (string, error)
}

type VNPayPaymentRequest struct {
	Amount    int64 // VND, before VNPay's x100 wire scaling
	OrderID   string
	OrderInfo string
	IPAddr    string
}

type vnpayClientImpl struct {
	tmnCode   string
	payURL    string
	returnURL string
	signer    *signature.VNPaySigner
	location  *time.Location
}

func NewVNPayClient(vnpayCfg *config.VNPay, signer *signature.VNPaySigner) VNPayClient {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		// VNPay timestamps are always Vietnam local time
		loc = time.FixedZone("ICT", 7*60*60)
	}

	return &vnpayClientImpl{
		tmnCode:   vnpayCfg.TmnCode,
		payURL:    vnpayCfg.PayURL,
		returnURL: vnpayCfg.ReturnURL,
		signer:    signer,
		location:  loc,
	}
}

func (c *vnpayClientImpl) BuildPaymentURL(req *VNPayPaymentRequest) (string, error) {
	if c.tmnCode == "" || c.payURL == "" || c.returnURL == "" {
		return "", fmt.Errorf("vnpay config incomplete")
	}

	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    c.tmnCode,
		"vnp_Locale":     "vn",
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     req.OrderID,
		"vnp_OrderInfo":  req.OrderInfo,
		"vnp_OrderType":  "other",
		"vnp_Amount":     strconv.FormatInt(req.Amount*100, 10),
		"vnp_ReturnUrl":  c.returnURL,
		"vnp_IpAddr":     req.IPAddr,
		"vnp_CreateDate": time.Now().In(c.location).Format("20060102150405"),
	}

	secureHash := c.signer.Sign(params)
	if secureHash == "" {
		return "", fmt.Errorf("vnpay hash secret not configured")
	}

	query := signature.CanonicalQuery(params)
	return c.payURL + "?" + query + "&" + signature.VNPaySecureHashField + "=" + secureHash, nil
}
