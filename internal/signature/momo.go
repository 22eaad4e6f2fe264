package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// MoMoSigner signs and checks MoMo v2 request/IPN signatures. MoMo signs a
// raw key=value string in a fixed documented field order, no escaping.
type MoMoSigner struct {
	accessKey string
	secret    string
}

func NewMoMoSigner(accessKey, secret string) *MoMoSigner {
	return &MoMoSigner{
		accessKey: accessKey,
		secret:    secret,
	}
}

// MoMoIPN carries the IPN callback fields that participate in the signature,
// as they arrive on the wire.
type MoMoIPN struct {
	PartnerCode  string
	OrderID      string
	RequestID    string
	Amount       int64
	OrderInfo    string
	OrderType    string
	TransID      int64
	ResultCode   int
	Message      string
	PayType      string
	ResponseTime int64
	ExtraData    string
	Signature    string
}

// MoMoCreateParams carries the fields signed on the create-payment call.
type MoMoCreateParams struct {
	PartnerCode string
	Amount      int64
	OrderID     string
	OrderInfo   string
	IPNURL      string
	RedirectURL string
	RequestID   string
	RequestType string
	ExtraData   string
}

// SignIPN recomputes the IPN signature. The access key comes from config,
// everything else from the callback body. Field order is mandated by the
// MoMo docs.
func (s *MoMoSigner) SignIPN(p *MoMoIPN) string {
	raw := "accessKey=" + s.accessKey +
		"&amount=" + strconv.FormatInt(p.Amount, 10) +
		"&extraData=" + p.ExtraData +
		"&message=" + p.Message +
		"&orderId=" + p.OrderID +
		"&orderInfo=" + p.OrderInfo +
		"&orderType=" + p.OrderType +
		"&partnerCode=" + p.PartnerCode +
		"&payType=" + p.PayType +
		"&requestId=" + p.RequestID +
		"&responseTime=" + strconv.FormatInt(p.ResponseTime, 10) +
		"&resultCode=" + strconv.Itoa(p.ResultCode) +
		"&transId=" + strconv.FormatInt(p.TransID, 10)

	return s.sign(raw)
}

// VerifyIPN checks the signature supplied on an IPN body. Fails closed on
// missing key material or a missing signature.
func (s *MoMoSigner) VerifyIPN(p *MoMoIPN) bool {
	if s.secret == "" || s.accessKey == "" {
		return false
	}
	if p == nil || p.Signature == "" {
		return false
	}

	return hmac.Equal([]byte(p.Signature), []byte(s.SignIPN(p)))
}

// SignCreate signs the pay-with-ATM create request.
func (s *MoMoSigner) SignCreate(p *MoMoCreateParams) string {
	raw := "accessKey=" + s.accessKey +
		"&amount=" + strconv.FormatInt(p.Amount, 10) +
		"&extraData=" + p.ExtraData +
		"&ipnUrl=" + p.IPNURL +
		"&orderId=" + p.OrderID +
		"&orderInfo=" + p.OrderInfo +
		"&partnerCode=" + p.PartnerCode +
		"&redirectUrl=" + p.RedirectURL +
		"&requestId=" + p.RequestID +
		"&requestType=" + p.RequestType

	return s.sign(raw)
}

func (s *MoMoSigner) sign(raw string) string {
	if s.secret == "" {
		return ""
	}

	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}
