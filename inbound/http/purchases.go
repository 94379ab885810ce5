package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rifa-pix/common"
	"rifa-pix/common/constant"
	"rifa-pix/common/errs"
	"rifa-pix/common/otel"
	"rifa-pix/model"
	"rifa-pix/outbound/store"

	"github.com/jackc/pgx/v5"
)

type PurchaseHttp struct {
	Querier *store.Queries
}

func RegisterPurchaseHttp(mux *http.ServeMux, querier *store.Queries) *PurchaseHttp {
	in := &PurchaseHttp{Querier: querier}

	mux.HandleFunc("POST /api/purchases", in.list)

	return in
}

func (in PurchaseHttp) list(w http.ResponseWriter, r *http.Request) {
	var req model.PurchaseHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Requisição inválida"})
		return
	}

	// Same acceptance rule as order creation: any non-empty digit string,
	// so a buyer can always look up what they bought with.
	cpf := digitsOnly(req.Cpf)
	if cpf == "" {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "CPF/CNPJ obrigatório"})
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "PurchaseHttp.list")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	user, err := in.Querier.FindUserByCpf(ctx, cpf)
	if errors.Is(err, pgx.ErrNoRows) {
		writeJSONResponse(w, http.StatusOK, model.PurchaseHistoryResponse{Ok: true, Orders: []model.PurchaseOrderResponse{}})
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to find user", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	orders, err := in.Querier.FindOrdersByUserId(ctx, user.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to find orders", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	response := model.PurchaseHistoryResponse{Ok: true, Orders: make([]model.PurchaseOrderResponse, 0, len(orders))}
	for _, order := range orders {
		numbers, err := in.Querier.FindTicketNumbersByOrderId(ctx, order.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to find ticket numbers", traceIdAttr, slog.Any(constant.LogFieldErr, err))
			writeErrorResponse(w, err)
			return
		}

		transactions, err := in.Querier.FindTransactionsByOrderId(ctx, order.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to find transactions", traceIdAttr, slog.Any(constant.LogFieldErr, err))
			writeErrorResponse(w, err)
			return
		}

		response.Orders = append(response.Orders, buildPurchaseOrder(order, numbers, transactions))
	}

	writeJSONResponse(w, http.StatusOK, response)
}

func buildPurchaseOrder(order store.Order, numbers []int64, transactions []store.FindTransactionsByOrderIdRow) model.PurchaseOrderResponse {
	quantity := order.Quantity
	if quantity == 0 {
		quantity = int32(len(numbers))
	}

	out := model.PurchaseOrderResponse{
		Id:               order.ExternalID,
		DisplayOrderCode: displayOrderCode(order.ExternalID),
		Amount:           float64(order.AmountCents) / 100,
		Status:           order.Status,
		CreatedAt:        order.CreatedAt.Time.UTC().Format(time.RFC3339),
		Quantity:         quantity,
		Numbers:          numbers,
		Transactions:     make([]model.PurchaseTransactionResponse, 0, len(transactions)),
	}

	if out.Numbers == nil {
		out.Numbers = []int64{}
	}

	for _, transaction := range transactions {
		out.Transactions = append(out.Transactions, model.PurchaseTransactionResponse{
			Id:        transaction.ExternalID,
			Status:    transaction.Status,
			Value:     float64(transaction.AmountCents) / 100,
			GatewayId: transaction.GatewayID,
		})
	}

	return out
}

func displayOrderCode(externalId string) string {
	code := externalId
	if len(code) > 6 {
		code = code[len(code)-6:]
	}

	return "#" + strings.ToUpper(code)
}
