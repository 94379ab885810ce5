package http

import (
	"errors"
	"log/slog"
	"net/http"

	"rifa-pix/common"
	"rifa-pix/common/constant"
	"rifa-pix/common/errs"
	"rifa-pix/common/otel"
	"rifa-pix/model"
	"rifa-pix/outbound/store"

	"github.com/jackc/pgx/v5"
)

type StatusHttp struct {
	Querier *store.Queries
}

func RegisterStatusHttp(mux *http.ServeMux, querier *store.Queries) *StatusHttp {
	in := &StatusHttp{Querier: querier}

	mux.HandleFunc("GET /api/transactions/status", in.get)

	return in
}

func (in StatusHttp) get(w http.ResponseWriter, r *http.Request) {
	transactionId := r.URL.Query().Get("id")
	if transactionId == "" {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Identificador obrigatório"})
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "StatusHttp.get")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	row, err := in.Querier.FindTransactionStatusByExternalId(ctx, transactionId)
	if errors.Is(err, pgx.ErrNoRows) {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusNotFound, Message: "Transação não encontrada"})
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to find transaction status", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.TransactionStatusResponse{
		Ok:          true,
		Status:      row.Status,
		OrderId:     row.OrderExternalID,
		OrderStatus: row.OrderStatus,
	})
}
