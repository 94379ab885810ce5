package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"rifa-pix/common"
	"rifa-pix/common/constant"
	"rifa-pix/common/contract"
	"rifa-pix/common/errs"
	"rifa-pix/common/otel"
	"rifa-pix/common/pricing"
	"rifa-pix/model"
	"rifa-pix/outbound/store"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

const uniqueViolationCode = "23505"

type OrderHttp struct {
	Db        contract.DbConn
	Querier   *store.Queries
	Cache     *redis.Client
	Gateway   contract.PixGateway
	Publisher jetstream.Publisher
	Validate  *validator.Validate
	Resolver  pricing.Resolver

	TimeNow func() time.Time
}

func RegisterOrderHttp(
	mux *http.ServeMux,
	cfg *viper.Viper,
	db contract.DbConn,
	querier *store.Queries,
	cache *redis.Client,
	gateway contract.PixGateway,
	publisher jetstream.Publisher,
	validate *validator.Validate,
) *OrderHttp {
	in := &OrderHttp{
		Db:        db,
		Querier:   querier,
		Cache:     cache,
		Gateway:   gateway,
		Publisher: publisher,
		Validate:  validate,
		Resolver: pricing.Resolver{
			UnitPriceCents: cfg.GetInt64("pricing.unit_price_cents"),
			MinQuantity:    cfg.GetInt32("pricing.min_quantity"),
		},
		TimeNow: time.Now,
	}

	mux.HandleFunc("POST /api/orders", in.create)

	return in
}

func (in OrderHttp) create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Requisição inválida"})
		return
	}

	cpf := digitsOnly(req.Customer.DocumentNumber)
	if cpf == "" {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "CPF/CNPJ obrigatório"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	resolution, err := in.Resolver.Resolve(pricing.Request{
		Quantity:      req.Quantity,
		TotalInCents:  req.TotalInCents,
		AmountInCents: req.AmountInCents,
		Amount:        req.Amount,
		Numbers:       req.Numbers,
	})
	if err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Valor do pedido inválido"})
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "OrderHttp.create")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "create order receive request", traceIdAttr,
		slog.Int("quantity", int(resolution.Quantity)),
		slog.Int64("amount_cents", resolution.AmountCents),
	)

	lockKey := fmt.Sprintf(constant.OrderCpfLock, cpf)
	cpfLock, err := in.Cache.SetNX(ctx, lockKey, true, constant.OrderCpfLockDefaultTTL).Result()
	if err != nil {
		slog.ErrorContext(ctx, "failed to set cpf lock", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	if !cpfLock {
		slog.DebugContext(ctx, "cpf already has an order in flight", traceIdAttr)
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusConflict, Message: "Já existe um pedido em processamento para este CPF"})
		return
	}

	// Release the lock on failure so the buyer can retry the whole flow
	// right away instead of waiting out the TTL.
	defer func() {
		if err != nil {
			if redisErr := in.Cache.Del(ctx, lockKey).Err(); redisErr != nil {
				slog.ErrorContext(ctx, "failed to release cpf lock", traceIdAttr, slog.Any(constant.LogFieldErr, redisErr))
			}
		}
	}()

	user, err := in.getOrCreateUser(ctx, cpf, req.Customer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get or create user", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	customerName := req.Customer.Name
	if customerName == "" {
		customerName = "Cliente"
	}

	customerEmail := req.Customer.Email
	if customerEmail == "" {
		customerEmail = "cliente@example.com"
	}

	documentType := req.Customer.DocumentType
	if documentType == "" {
		documentType = "CPF"
	}

	itemTitle := req.ItemTitle
	if itemTitle == "" {
		itemTitle = fmt.Sprintf("%d números", resolution.Quantity)
	}

	tx, err := in.Db.Begin(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to begin transaction", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && rollbackErr != pgx.ErrTxClosed {
			slog.ErrorContext(ctx, "failed to rollback transaction", traceIdAttr, slog.Any(constant.LogFieldErr, rollbackErr))
		}
	}()

	withTx := in.Querier.WithTx(tx)

	orderExternalId := ulid.Make().String()
	orderId, err := withTx.InsertOrder(ctx, store.InsertOrderParams{
		ExternalID:  orderExternalId,
		UserID:      user.ID,
		AmountCents: resolution.AmountCents,
		Quantity:    resolution.Quantity,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert order", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	if len(req.Numbers) > 0 {
		err = withTx.InsertTickets(ctx, store.InsertTicketsParams{OrderID: orderId, Numbers: req.Numbers})
		if err != nil {
			slog.ErrorContext(ctx, "failed to insert tickets", traceIdAttr, slog.Any(constant.LogFieldErr, err))
			writeErrorResponse(w, err)
			return
		}
	}

	externalRef := req.ExternalRef
	if externalRef == "" {
		externalRef = orderExternalId
	}

	payment, err := in.Gateway.CreatePixPayment(ctx, model.PixPaymentRequest{
		AmountCents: resolution.AmountCents,
		ItemTitle:   itemTitle,
		ExternalRef: externalRef,
		Metadata:    req.Metadata,
		Customer: model.PixCustomer{
			Name:           customerName,
			Email:          customerEmail,
			Phone:          digitsOnly(req.Customer.Phone),
			DocumentType:   documentType,
			DocumentNumber: cpf,
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create pix payment", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	transactionExternalId := ulid.Make().String()
	_, err = withTx.InsertTransaction(ctx, store.InsertTransactionParams{
		ExternalID:  transactionExternalId,
		OrderID:     orderId,
		AmountCents: resolution.AmountCents,
		Status:      normalizeTransactionStatus(payment.Status),
		GatewayID:   payment.GatewayId,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert transaction", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	if err = tx.Commit(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to commit transaction", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	// Side channel only: a failed alert must never fail the order.
	publishErr := common.PublishMessage(ctx, in.Publisher, constant.SubjectNotifyOrderCreated, model.OrderCreatedEventMessage{
		OrderId:     orderExternalId,
		AmountCents: resolution.AmountCents,
		Quantity:    resolution.Quantity,
		Cpf:         cpf,
	})
	if publishErr != nil {
		slog.ErrorContext(ctx, "failed to publish order created message", traceIdAttr, slog.Any(constant.LogFieldErr, publishErr))
	}

	slog.InfoContext(ctx, "insert order success", traceIdAttr, slog.Any(constant.LogFieldResponse, orderExternalId))

	writeJSONResponse(w, http.StatusOK, model.CreateOrderResponse{
		Ok:            true,
		OrderId:       orderExternalId,
		Quantity:      resolution.Quantity,
		TransactionId: transactionExternalId,
		PaymentCode:   payment.PaymentCode,
		QrImageBase64: payment.QrImageBase64,
		ExpiresAt:     payment.ExpiresAt,
	})
}

// getOrCreateUser looks up the buyer by CPF and lazily creates the row on
// first purchase. A concurrent duplicate insert loses the race on the unique
// index and falls back to one more lookup.
func (in OrderHttp) getOrCreateUser(ctx context.Context, cpf string, customer model.OrderCustomer) (store.User, error) {
	user, err := in.Querier.FindUserByCpf(ctx, cpf)
	if err == nil {
		return user, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return store.User{}, err
	}

	newUser := store.User{
		ID:    ulid.Make().String(),
		Cpf:   cpf,
		Name:  pgtype.Text{String: customer.Name, Valid: customer.Name != ""},
		Email: pgtype.Text{String: customer.Email, Valid: customer.Email != ""},
		Phone: pgtype.Text{String: digitsOnly(customer.Phone), Valid: customer.Phone != ""},
	}

	err = in.Querier.InsertUser(ctx, store.InsertUserParams{
		ID:    newUser.ID,
		Cpf:   newUser.Cpf,
		Name:  newUser.Name,
		Email: newUser.Email,
		Phone: newUser.Phone,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return in.Querier.FindUserByCpf(ctx, cpf)
		}

		return store.User{}, err
	}

	return newUser, nil
}

func normalizeTransactionStatus(status string) string {
	switch status {
	case constant.StatusPending, constant.StatusPaid, constant.StatusCanceled:
		return status
	default:
		return constant.StatusPending
	}
}
