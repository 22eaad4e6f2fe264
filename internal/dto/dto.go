package dto

type CreatePaymentRequest struct {
	PlanID          string `json:"plan_id"`
	PaymentMethodID string `json:"payment_method_id"`
	Description     string `json:"description"`
}

type CreatePaymentResponse struct {
	OrderID    string `json:"order_id"`
	PaymentURL string `json:"payment_url"`
}

// MoMoIPNRequest is the JSON body MoMo POSTs to the IPN endpoint.
type MoMoIPNRequest struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// VNPayIPNResponse is the acknowledgement body VNPay expects from the IPN
// endpoint. RspCode "00" tells VNPay the notification was recorded.
type VNPayIPNResponse struct {
	RspCode string `json:"RspCode"`
	Message string `json:"Message"`
}

type AddPaymentMethodRequest struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

type PlanRequest struct {
	PlanID       string `json:"plan_id"`
	Tier         string `json:"tier"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	Currency     string `json:"currency"`
	BillingCycle string `json:"billing_cycle"`
	Features     string `json:"features"`
	PopularPlan  bool   `json:"popular_plan"`
}
