package constant

const (
	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusCanceled = "canceled"
)

// PaidGatewayStatuses is the allow-list of gateway status tokens that count
// as a confirmed payment. Anything else on the webhook is acknowledged and
// ignored so the gateway stops retrying.
var PaidGatewayStatuses = map[string]bool{
	"PAID":      true,
	"APPROVED":  true,
	"CONFIRMED": true,
	"SUCCESS":   true,
	"COMPLETED": true,
	"SUCCEEDED": true,
}
