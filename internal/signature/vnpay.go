package signature

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
)

const (
	VNPaySecureHashField     = "vnp_SecureHash"
	VNPaySecureHashTypeField = "vnp_SecureHashType"
)

// VNPaySigner computes and checks the vnp_SecureHash over callback and
// payment-url parameters.
type VNPaySigner struct {
	secret string
}

func NewVNPaySigner(secret string) *VNPaySigner {
	return &VNPaySigner{secret: secret}
}

// Sign returns the hex HMAC-SHA512 of the canonical query form of params.
// The signature fields themselves are excluded if present. Returns "" when
// the secret is not configured.
func (s *VNPaySigner) Sign(params map[string]string) string {
	if s.secret == "" {
		return ""
	}

	mac := hmac.New(sha512.New, []byte(s.secret))
	mac.Write([]byte(CanonicalQuery(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks the vnp_SecureHash supplied in params against the recomputed
// hash. Fails closed: a missing secret or missing signature never verifies.
func (s *VNPaySigner) Verify(params map[string]string) bool {
	if s.secret == "" {
		return false
	}

	supplied := params[VNPaySecureHashField]
	if supplied == "" {
		return false
	}

	return hmac.Equal([]byte(supplied), []byte(s.Sign(params)))
}

// CanonicalQuery builds the exact string VNPay signs: every parameter except
// the signature fields, keys and values query-escaped (space becomes '+'),
// sorted by key, joined as key=value pairs with '&'. Any deviation here
// invalidates every signature, so this must stay aligned with VNPay's
// published algorithm.
func CanonicalQuery(params map[string]string) string {
	v := url.Values{}
	for key, value := range params {
		if key == VNPaySecureHashField || key == VNPaySecureHashTypeField {
			continue
		}
		v.Set(key, value)
	}

	return v.Encode()
}
