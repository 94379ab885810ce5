package model

type OrderCreatedEventMessage struct {
	OrderId     string `json:"order_id"`
	AmountCents int64  `json:"amount_cents"`
	Quantity    int32  `json:"quantity"`
	Cpf         string `json:"cpf"`
}

type OrderPaidEventMessage struct {
	OrderId       string `json:"order_id"`
	TransactionId string `json:"transaction_id"`
	AmountCents   int64  `json:"amount_cents"`
	PaidAt        string `json:"paid_at"`
}

// ConversionEventMessage carries the raw attribution fields for the ads
// Purchase event. PII is hashed by the outbound client, not here, so the
// queue payload stays debuggable.
type ConversionEventMessage struct {
	TransactionId string `json:"transaction_id"`
	OrderId       string `json:"order_id"`
	AmountCents   int64  `json:"amount_cents"`
	Quantity      int32  `json:"quantity"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Cpf           string `json:"cpf,omitempty"`
	ClientIp      string `json:"client_ip,omitempty"`
	UserAgent     string `json:"user_agent,omitempty"`
}

type WebhookAckResponse struct {
	Ok       bool `json:"ok"`
	Ignored  bool `json:"ignored,omitempty"`
	NotFound bool `json:"notFound,omitempty"`
}
