package midtrans

// Transaction status values reported by the gateway.
const (
	StatusCapture    = "capture"
	StatusSettlement = "settlement"
	StatusPending    = "pending"
	StatusCancel     = "cancel"
	StatusDeny       = "deny"
	StatusExpire     = "expire"

	FraudAccept = "accept"
)

// TransactionDetails identifies the order and amount of a Snap transaction
type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

// CustomerDetails carries the payer identity shown on the gateway page
type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// ItemDetail describes a single line item of the transaction
type ItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

// Callbacks configures post-payment redirects
type Callbacks struct {
	Finish string `json:"finish,omitempty"`
}

// SnapRequest represents the request body for the Snap create-transaction API
type SnapRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    *CustomerDetails   `json:"customer_details,omitempty"`
	ItemDetails        []ItemDetail       `json:"item_details,omitempty"`
	Callbacks          *Callbacks         `json:"callbacks,omitempty"`
}

// SnapResponse represents the response from the Snap create-transaction API
type SnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// VANumber is a virtual account assigned to a bank-transfer payment
type VANumber struct {
	Bank     string `json:"bank"`
	VANumber string `json:"va_number"`
}

// TransactionStatus represents the Core API status (and cancel) response.
// Gross amount arrives as a decimal string, e.g. "22405000.00".
type TransactionStatus struct {
	StatusCode        string     `json:"status_code"`
	StatusMessage     string     `json:"status_message"`
	TransactionID     string     `json:"transaction_id"`
	OrderID           string     `json:"order_id"`
	GrossAmount       string     `json:"gross_amount"`
	PaymentType       string     `json:"payment_type"`
	TransactionTime   string     `json:"transaction_time"`
	TransactionStatus string     `json:"transaction_status"`
	FraudStatus       string     `json:"fraud_status,omitempty"`
	Bank              string     `json:"bank,omitempty"`
	VANumbers         []VANumber `json:"va_numbers,omitempty"`
	CardType          string     `json:"card_type,omitempty"`
	MaskedCard        string     `json:"masked_card,omitempty"`
	SignatureKey      string     `json:"signature_key,omitempty"`
}

// Settled reports whether the transaction has completed successfully.
// A capture is only trusted once fraud screening accepts it.
func (t *TransactionStatus) Settled() bool {
	switch t.TransactionStatus {
	case StatusSettlement:
		return true
	case StatusCapture:
		return t.FraudStatus == "" || t.FraudStatus == FraudAccept
	default:
		return false
	}
}

// Failed reports whether the transaction has reached a terminal failure state.
func (t *TransactionStatus) Failed() bool {
	switch t.TransactionStatus {
	case StatusCancel, StatusDeny, StatusExpire:
		return true
	default:
		return false
	}
}

// FirstVANumber returns the bank and VA number of the first virtual account,
// or empty strings when the payment used another method.
func (t *TransactionStatus) FirstVANumber() (bank, number string) {
	if len(t.VANumbers) > 0 {
		return t.VANumbers[0].Bank, t.VANumbers[0].VANumber
	}
	return t.Bank, ""
}

// NotificationPayload is the strict shape of an inbound webhook payload.
// Nothing in it is trusted until the signature key verifies.
type NotificationPayload struct {
	OrderID           string     `json:"order_id"`
	StatusCode        string     `json:"status_code"`
	GrossAmount       string     `json:"gross_amount"`
	SignatureKey      string     `json:"signature_key"`
	TransactionID     string     `json:"transaction_id"`
	TransactionStatus string     `json:"transaction_status"`
	TransactionTime   string     `json:"transaction_time"`
	FraudStatus       string     `json:"fraud_status"`
	PaymentType       string     `json:"payment_type"`
	Bank              string     `json:"bank"`
	VANumbers         []VANumber `json:"va_numbers"`
	CardType          string     `json:"card_type"`
	MaskedCard        string     `json:"masked_card"`
}

// AsStatus converts a verified notification payload into a TransactionStatus.
func (p *NotificationPayload) AsStatus() *TransactionStatus {
	return &TransactionStatus{
		StatusCode:        p.StatusCode,
		TransactionID:     p.TransactionID,
		OrderID:           p.OrderID,
		GrossAmount:       p.GrossAmount,
		PaymentType:       p.PaymentType,
		TransactionTime:   p.TransactionTime,
		TransactionStatus: p.TransactionStatus,
		FraudStatus:       p.FraudStatus,
		Bank:              p.Bank,
		VANumbers:         p.VANumbers,
		CardType:          p.CardType,
		MaskedCard:        p.MaskedCard,
		SignatureKey:      p.SignatureKey,
	}
}

// ErrorResponse represents an error response from the Midtrans API
type ErrorResponse struct {
	StatusCode    string   `json:"status_code"`
	StatusMessage string   `json:"status_message"`
	ErrorMessages []string `json:"error_messages,omitempty"`
}
