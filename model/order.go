package model

// OrderCustomer is the buyer block of the order-creation payload. Only the
// document is mandatory; name/email default to placeholders when absent.
type OrderCustomer struct {
	Name           string `json:"name" validate:"max=100"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
}

// CreateOrderRequest mirrors what the storefront sends. Quantity/amount
// fields are pointers so the resolver can tell an absent field from an
// explicit zero.
type CreateOrderRequest struct {
	Quantity      *float64      `json:"quantity"`
	TotalInCents  *float64      `json:"totalInCents"`
	AmountInCents *float64      `json:"amountInCents"`
	Amount        *float64      `json:"amount"`
	Numbers       []int64       `json:"numbers"`
	ItemTitle     string        `json:"itemTitle" validate:"max=200"`
	ExternalRef   string        `json:"externalRef"`
	Metadata      string        `json:"metadata"`
	Customer      OrderCustomer `json:"customer"`
}

type CreateOrderResponse struct {
	Ok            bool   `json:"ok"`
	OrderId       string `json:"orderId"`
	Quantity      int32  `json:"quantity"`
	TransactionId string `json:"transactionId"`
	PaymentCode   string `json:"paymentCode"`
	QrImageBase64 string `json:"qrImageBase64,omitempty"`
	ExpiresAt     string `json:"expiresAt,omitempty"`
}

type TransactionStatusResponse struct {
	Ok          bool   `json:"ok"`
	Status      string `json:"status"`
	OrderId     string `json:"orderId"`
	OrderStatus string `json:"orderStatus"`
}
