package upi

import (
	"github.com/skip2/go-qrcode"
)

// PaymentQR renders the generic upi://pay link as a PNG so desktop viewers
// can scan it with a phone. Always uses the generic variant since the
// scanning device picks its own UPI app.
func PaymentQR(payeeID string, amount float64, payerName string) ([]byte, error) {
	link := BuildGenericLink(payeeID, amount, payerName)
	return qrcode.Encode(link, qrcode.Medium, 256)
}
