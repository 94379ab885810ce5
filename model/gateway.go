package model

type PixCustomer struct {
	Name           string
	Email          string
	Phone          string
	DocumentType   string
	DocumentNumber string
}

type PixPaymentRequest struct {
	AmountCents int64
	ItemTitle   string
	ExternalRef string
	Metadata    string
	Customer    PixCustomer
}

// PixPayment is the gateway response after normalization: whatever shape the
// provider answered with, these are the fields the rest of the system sees.
type PixPayment struct {
	GatewayId     string
	PaymentCode   string
	QrImageBase64 string
	ExpiresAt     string
	Status        string
}
