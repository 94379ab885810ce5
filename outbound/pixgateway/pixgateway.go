package pixgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"rifa-pix/common"
	"rifa-pix/common/constant"
	"rifa-pix/common/errs"
	"rifa-pix/common/otel"
	"rifa-pix/common/probe"
	"rifa-pix/model"

	"github.com/spf13/viper"
)

// Candidate field paths for the provider response, in priority order. The
// provider has shipped several shapes over time; the first non-empty match
// wins.
var (
	paymentCodePaths = []string{
		"qrCode", "qrcode", "pixCode",
		"pix.qrCode", "pix.qrcode", "pix.emv", "pix.brCode", "pix.pixCopy",
		"payload", "pixCopiaECola",
	}
	qrImagePaths   = []string{"pix.qrCodeBase64", "qrCodeBase64"}
	expiresAtPaths = []string{"pix.expirationDate", "expiresAt", "expirationDate"}
	gatewayIdPaths = []string{"id", "transactionId"}
	statusPaths    = []string{"status"}
)

type PixGatewayOutbound struct {
	Client *http.Client

	baseUrl       string
	apiKey        string
	userAgent     string
	postbackUrl   string
	expiresInDays int
}

func New(cfg *viper.Viper) *PixGatewayOutbound {
	return &PixGatewayOutbound{
		Client:        &http.Client{Timeout: cfg.GetDuration("gateway.timeout")},
		baseUrl:       strings.TrimRight(cfg.GetString("gateway.base_url"), "/"),
		apiKey:        cfg.GetString("gateway.api_key"),
		userAgent:     cfg.GetString("gateway.user_agent"),
		postbackUrl:   cfg.GetString("gateway.postback_url"),
		expiresInDays: cfg.GetInt("gateway.expires_in_days"),
	}
}

func (out *PixGatewayOutbound) CreatePixPayment(ctx context.Context, req model.PixPaymentRequest) (model.PixPayment, error) {
	ctx, span := otel.Tracer.Start(ctx, "PixGatewayOutbound.CreatePixPayment")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	body := map[string]any{
		"pix": map[string]any{
			"expiresInDays": out.expiresInDays,
		},
		"items": []map[string]any{
			{
				"title":       req.ItemTitle,
				"quantity":    1,
				"tangible":    false,
				"unitPrice":   req.AmountCents,
				"externalRef": req.ExternalRef,
			},
		},
		"amount":   req.AmountCents,
		"currency": "BRL",
		"customer": map[string]any{
			"name":  req.Customer.Name,
			"email": req.Customer.Email,
			"phone": req.Customer.Phone,
			"document": map[string]any{
				"type":   req.Customer.DocumentType,
				"number": req.Customer.DocumentNumber,
			},
		},
		"metadata":      req.Metadata,
		"traceable":     false,
		"paymentMethod": "PIX",
	}

	// The provider rejects the whole request over a non-HTTPS postback, so
	// an insecure URL is dropped rather than sent.
	if strings.HasPrefix(out.postbackUrl, "https://") {
		body["postbackUrl"] = out.postbackUrl
	}

	payload, err := json.Marshal(body)
	if err != nil {
		common.UtilSpanError(span, err)
		return model.PixPayment{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, out.baseUrl+"/user/transactions", bytes.NewReader(payload))
	if err != nil {
		common.UtilSpanError(span, err)
		return model.PixPayment{}, err
	}

	httpReq.Header.Set("x-api-key", out.apiKey)
	httpReq.Header.Set("User-Agent", out.userAgent)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := out.Client.Do(httpReq)
	if err != nil {
		slog.ErrorContext(ctx, "gateway request failed", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return model.PixPayment{}, err
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		common.UtilSpanError(span, err)
		return model.PixPayment{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gwErr := &errs.GatewayError{StatusCode: resp.StatusCode, Body: string(rawBody)}
		slog.ErrorContext(ctx, "gateway returned error status", traceIdAttr,
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(rawBody)),
		)
		common.UtilSpanError(span, gwErr)
		return model.PixPayment{}, gwErr
	}

	var doc map[string]any
	if err := json.Unmarshal(rawBody, &doc); err != nil {
		slog.ErrorContext(ctx, "gateway response is not valid json", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return model.PixPayment{}, fmt.Errorf("decode gateway response: %w", err)
	}

	tx := probe.FirstMap(doc, "data")

	payment := model.PixPayment{
		GatewayId:     probe.FirstString(tx, gatewayIdPaths...),
		PaymentCode:   probe.FirstString(tx, paymentCodePaths...),
		QrImageBase64: probe.FirstString(tx, qrImagePaths...),
		ExpiresAt:     probe.FirstString(tx, expiresAtPaths...),
		Status:        probe.FirstString(tx, statusPaths...),
	}

	if payment.Status == "" {
		payment.Status = constant.StatusPending
	}

	if payment.PaymentCode == "" {
		slog.ErrorContext(ctx, "gateway response has no payment code", traceIdAttr, slog.String("body", string(rawBody)))
		common.UtilSpanError(span, errs.ErrGatewayIncomplete)
		return model.PixPayment{}, errs.ErrGatewayIncomplete
	}

	slog.DebugContext(ctx, "gateway payment created", traceIdAttr, slog.String("gateway_id", payment.GatewayId))

	return payment, nil
}
