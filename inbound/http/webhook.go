package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rifa-pix/common"
	"rifa-pix/common/constant"
	"rifa-pix/common/contract"
	"rifa-pix/common/errs"
	"rifa-pix/common/otel"
	"rifa-pix/common/probe"
	"rifa-pix/model"
	"rifa-pix/outbound/store"

	"github.com/jackc/pgx/v5"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/viper"
)

const signatureHeader = "X-Webhook-Signature"

// Candidate paths for the webhook payload; the gateway has delivered the
// transaction object and its fields under several names over time.
var (
	webhookEnvelopePaths  = []string{"data", "transaction", "object", "payload"}
	webhookGatewayIdPaths = []string{"id", "objectId", "transactionId", "externalRef"}
	webhookStatusPaths    = []string{"status", "paymentStatus", "transactionStatus"}

	payerCpfPaths   = []string{"payer.documentNumber", "customer.document.number"}
	payerEmailPaths = []string{"customer.email"}
	payerPhonePaths = []string{"customer.phone"}
	payerIpPaths    = []string{"ip"}
)

type WebhookHttp struct {
	Db        contract.DbConn
	Querier   *store.Queries
	Publisher jetstream.Publisher

	TimeNow func() time.Time

	secret string
}

func RegisterWebhookHttp(
	mux *http.ServeMux,
	cfg *viper.Viper,
	db contract.DbConn,
	querier *store.Queries,
	publisher jetstream.Publisher,
) *WebhookHttp {
	in := &WebhookHttp{
		Db:        db,
		Querier:   querier,
		Publisher: publisher,
		TimeNow:   time.Now,

		secret: cfg.GetString("webhook.secret"),
	}

	mux.HandleFunc("POST /api/webhooks/pix", in.receive)

	return in
}

func (in WebhookHttp) receive(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Requisição inválida"})
		return
	}

	if in.secret != "" && !in.verifySignature(rawBody, r.Header.Get(signatureHeader)) {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusUnauthorized, Message: "Assinatura inválida"})
		return
	}

	var doc map[string]any
	if err := json.Unmarshal(rawBody, &doc); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Requisição inválida"})
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "WebhookHttp.receive")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	payload := probe.FirstMap(doc, webhookEnvelopePaths...)

	gatewayId := probe.FirstString(payload, webhookGatewayIdPaths...)
	rawStatus := probe.FirstString(payload, webhookStatusPaths...)
	if rawStatus == "" {
		rawStatus = probe.FirstString(doc, "event")
	}

	slog.InfoContext(ctx, "webhook receive request", traceIdAttr,
		slog.String("gateway_id", gatewayId),
		slog.String("status", rawStatus),
	)

	if gatewayId == "" || rawStatus == "" {
		slog.WarnContext(ctx, "webhook missing gateway id or status", traceIdAttr)
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Campos obrigatórios ausentes"})
		return
	}

	// Anything outside the paid allow-list is acknowledged without mutation
	// so the gateway stops redelivering.
	if !constant.PaidGatewayStatuses[strings.ToUpper(rawStatus)] {
		slog.DebugContext(ctx, "webhook status ignored", traceIdAttr, slog.String("status", rawStatus))
		writeJSONResponse(w, http.StatusOK, model.WebhookAckResponse{Ok: true, Ignored: true})
		return
	}

	transaction, err := in.Querier.FindTransactionByGatewayId(ctx, gatewayId)
	if errors.Is(err, pgx.ErrNoRows) {
		slog.WarnContext(ctx, "webhook transaction not found", traceIdAttr, slog.String("gateway_id", gatewayId))
		writeJSONResponse(w, http.StatusOK, model.WebhookAckResponse{Ok: true, NotFound: true})
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to find transaction", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	if err := in.markPaid(ctx, transaction); err != nil {
		slog.ErrorContext(ctx, "failed to mark transaction paid", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	slog.InfoContext(ctx, "payment confirmed", traceIdAttr,
		slog.String("transaction_id", transaction.ExternalID),
		slog.Int("order_id", int(transaction.OrderID)),
	)

	in.publishNotifications(ctx, transaction, payload, r.UserAgent())

	writeJSONResponse(w, http.StatusOK, model.WebhookAckResponse{Ok: true})
}

func (in WebhookHttp) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(in.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

// markPaid flips transaction and order to paid in one database transaction.
// Re-applying paid to an already-paid pair is a harmless no-op, which makes
// webhook redelivery safe.
func (in WebhookHttp) markPaid(ctx context.Context, transaction store.FindTransactionByGatewayIdRow) error {
	tx, err := in.Db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && rollbackErr != pgx.ErrTxClosed {
			slog.ErrorContext(ctx, "failed to rollback transaction", slog.Any(constant.LogFieldErr, rollbackErr))
		}
	}()

	withTx := in.Querier.WithTx(tx)

	if _, err := withTx.UpdateTransactionStatusToPaid(ctx, transaction.ID); err != nil {
		return err
	}

	if _, err := withTx.UpdateOrderStatusToPaid(ctx, transaction.OrderID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// publishNotifications queues the operator alert and the ads conversion
// event. Best effort only: the payment write already happened and must not
// be reported as failed over a side channel.
func (in WebhookHttp) publishNotifications(ctx context.Context, transaction store.FindTransactionByGatewayIdRow, payload map[string]any, userAgent string) {
	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	order, err := in.Querier.FindOrderWithUserById(ctx, transaction.OrderID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load order for notifications", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return
	}

	err = common.PublishMessage(ctx, in.Publisher, constant.SubjectNotifyOrderPaid, model.OrderPaidEventMessage{
		OrderId:       order.ExternalID,
		TransactionId: transaction.ExternalID,
		AmountCents:   transaction.AmountCents,
		PaidAt:        in.TimeNow().UTC().Format(time.RFC3339),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish order paid message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}

	email := probe.FirstString(payload, payerEmailPaths...)
	if email == "" {
		email = order.Email
	}

	phone := probe.FirstString(payload, payerPhonePaths...)
	if phone == "" {
		phone = order.Phone
	}

	cpf := probe.FirstString(payload, payerCpfPaths...)
	if cpf == "" {
		cpf = order.Cpf
	}

	err = common.PublishMessage(ctx, in.Publisher, constant.SubjectNotifyConversion, model.ConversionEventMessage{
		TransactionId: transaction.ExternalID,
		OrderId:       order.ExternalID,
		AmountCents:   transaction.AmountCents,
		Quantity:      order.Quantity,
		Email:         email,
		Phone:         digitsOnly(phone),
		Cpf:           digitsOnly(cpf),
		ClientIp:      probe.FirstString(payload, payerIpPaths...),
		UserAgent:     userAgent,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to publish conversion message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}
}
