package midtrans

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// Signature computes the webhook signature key over
// (order_id + status_code + gross_amount + server_key).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// Verify checks the notification's signature key against the server key.
func (p *NotificationPayload) Verify(serverKey string) bool {
	expected := Signature(p.OrderID, p.StatusCode, p.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(p.SignatureKey)) == 1
}
