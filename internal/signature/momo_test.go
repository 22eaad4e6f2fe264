package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func momoTestIPN() *MoMoIPN {
	return &MoMoIPN{
		PartnerCode:  "PARTNER",
		OrderID:      "order-456",
		RequestID:    "order-456",
		Amount:       199000,
		OrderInfo:    "Nang cap Premium",
		OrderType:    "momo_wallet",
		TransID:      2147483648,
		ResultCode:   0,
		Message:      "Successful.",
		PayType:      "qr",
		ResponseTime: 1700000000000,
		ExtraData:    "",
	}
}

func TestMoMoSignIPNMatchesManualHMAC(t *testing.T) {
	signer := NewMoMoSigner("access-key", "secret-key")

	raw := "accessKey=access-key" +
		"&amount=199000" +
		"&extraData=" +
		"&message=Successful." +
		"&orderId=order-456" +
		"&orderInfo=Nang cap Premium" +
		"&orderType=momo_wallet" +
		"&partnerCode=PARTNER" +
		"&payType=qr" +
		"&requestId=order-456" +
		"&responseTime=1700000000000" +
		"&resultCode=0" +
		"&transId=2147483648"
	mac := hmac.New(sha256.New, []byte("secret-key"))
	mac.Write([]byte(raw))
	want := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, signer.SignIPN(momoTestIPN()))
}

func TestMoMoVerifyIPNRoundTrip(t *testing.T) {
	signer := NewMoMoSigner("access-key", "secret-key")

	ipn := momoTestIPN()
	ipn.Signature = signer.SignIPN(ipn)

	assert.True(t, signer.VerifyIPN(ipn))
}

func TestMoMoVerifyIPNRejectsTamperedResultCode(t *testing.T) {
	signer := NewMoMoSigner("access-key", "secret-key")

	ipn := momoTestIPN()
	ipn.ResultCode = 1006
	ipn.Signature = signer.SignIPN(ipn)
	require.True(t, signer.VerifyIPN(ipn))

	// attacker rewrites the failure into a success without re-signing
	ipn.ResultCode = 0
	assert.False(t, signer.VerifyIPN(ipn))
}

func TestMoMoVerifyIPNMissingSignature(t *testing.T) {
	signer := NewMoMoSigner("access-key", "secret-key")

	assert.False(t, signer.VerifyIPN(momoTestIPN()))
	assert.False(t, signer.VerifyIPN(nil))
}

func TestMoMoFailsClosedWithoutKeyMaterial(t *testing.T) {
	ipn := momoTestIPN()

	noSecret := NewMoMoSigner("access-key", "")
	ipn.Signature = noSecret.SignIPN(ipn)
	assert.False(t, noSecret.VerifyIPN(ipn))

	noAccessKey := NewMoMoSigner("", "secret-key")
	ipn.Signature = noAccessKey.SignIPN(ipn)
	assert.False(t, noAccessKey.VerifyIPN(ipn))
}

func TestMoMoSignCreate(t *testing.T) {
	signer := NewMoMoSigner("access-key", "secret-key")

	raw := "accessKey=access-key" +
		"&amount=199000" +
		"&extraData=" +
		"&ipnUrl=https://api.example.com/api/v1/payments/ipn/momo" +
		"&orderId=order-456" +
		"&orderInfo=Nang cap Premium" +
		"&partnerCode=PARTNER" +
		"&redirectUrl=bartendercommunity://payment/callback" +
		"&requestId=order-456" +
		"&requestType=payWithATM"
	mac := hmac.New(sha256.New, []byte("secret-key"))
	mac.Write([]byte(raw))
	want := hex.EncodeToString(mac.Sum(nil))

	got := signer.SignCreate(&MoMoCreateParams{
		PartnerCode: "PARTNER",
		Amount:      199000,
		OrderID:     "order-456",
		OrderInfo:   "Nang cap Premium",
		IPNURL:      "https://api.example.com/api/v1/payments/ipn/momo",
		RedirectURL: "bartendercommunity://payment/callback",
		RequestID:   "order-456",
		RequestType: "payWithATM",
		ExtraData:   "",
	})
	assert.Equal(t, want, got)
}
