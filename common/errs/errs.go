package errs

import (
	"errors"
	"fmt"
)

type HttpError struct {
	Code    int
	Message string
	Data    any
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("code %d: %s, data: %v", e.Code, e.Message, e.Data)
}

// GatewayError is a non-2xx answer from the payment provider. The raw body
// is kept for diagnostics; it is never echoed to the storefront.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway status %d: %s", e.StatusCode, e.Body)
}

// ErrGatewayIncomplete means the provider answered 2xx but the response had
// no resolvable payment code. The charge may exist gateway-side but is
// unusable; callers treat this as a 502.
var ErrGatewayIncomplete = errors.New("gateway response has no payment code")
