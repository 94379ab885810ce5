package contract

import (
	"context"

	"rifa-pix/model"
)

// PixGateway creates PIX charges at the external payment provider.
type PixGateway interface {
	CreatePixPayment(ctx context.Context, req model.PixPaymentRequest) (model.PixPayment, error)
}
