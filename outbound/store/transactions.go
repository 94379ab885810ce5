package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

const insertTransaction = `INSERT INTO transactions (external_id, order_id, amount_cents, status, gateway_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`

type InsertTransactionParams struct {
	ExternalID  string
	OrderID     int32
	AmountCents int64
	Status      string
	GatewayID   string
}

func (q *Queries) InsertTransaction(ctx context.Context, arg InsertTransactionParams) (int32, error) {
	row := q.db.QueryRow(ctx, insertTransaction, arg.ExternalID, arg.OrderID, arg.AmountCents, arg.Status, arg.GatewayID)

	var id int32
	err := row.Scan(&id)
	return id, err
}

// First match by design: the store does not enforce gateway_id uniqueness,
// so the lookup tolerates upstream identifier duplication.
const findTransactionByGatewayId = `SELECT id, external_id, order_id, amount_cents, status FROM transactions WHERE gateway_id = $1 ORDER BY id LIMIT 1`

type FindTransactionByGatewayIdRow struct {
	ID          int32
	ExternalID  string
	OrderID     int32
	AmountCents int64
	Status      string
}

func (q *Queries) FindTransactionByGatewayId(ctx context.Context, gatewayId string) (FindTransactionByGatewayIdRow, error) {
	row := q.db.QueryRow(ctx, findTransactionByGatewayId, gatewayId)

	var r FindTransactionByGatewayIdRow
	err := row.Scan(&r.ID, &r.ExternalID, &r.OrderID, &r.AmountCents, &r.Status)
	return r, err
}

const updateTransactionStatusToPaid = `UPDATE transactions SET status = 'paid' WHERE id = $1`

func (q *Queries) UpdateTransactionStatusToPaid(ctx context.Context, id int32) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, updateTransactionStatusToPaid, id)
}

const findTransactionStatusByExternalId = `SELECT t.status, o.external_id, o.status FROM transactions t JOIN orders o ON o.id = t.order_id WHERE t.external_id = $1`

type FindTransactionStatusByExternalIdRow struct {
	Status          string
	OrderExternalID string
	OrderStatus     string
}

func (q *Queries) FindTransactionStatusByExternalId(ctx context.Context, externalId string) (FindTransactionStatusByExternalIdRow, error) {
	row := q.db.QueryRow(ctx, findTransactionStatusByExternalId, externalId)

	var r FindTransactionStatusByExternalIdRow
	err := row.Scan(&r.Status, &r.OrderExternalID, &r.OrderStatus)
	return r, err
}

const findTransactionsByOrderId = `SELECT id, external_id, amount_cents, status, gateway_id FROM transactions WHERE order_id = $1 ORDER BY id`

type FindTransactionsByOrderIdRow struct {
	ID          int32
	ExternalID  string
	AmountCents int64
	Status      string
	GatewayID   string
}

func (q *Queries) FindTransactionsByOrderId(ctx context.Context, orderId int32) ([]FindTransactionsByOrderIdRow, error) {
	rows, err := q.db.Query(ctx, findTransactionsByOrderId, orderId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []FindTransactionsByOrderIdRow
	for rows.Next() {
		var t FindTransactionsByOrderIdRow
		if err := rows.Scan(&t.ID, &t.ExternalID, &t.AmountCents, &t.Status, &t.GatewayID); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}

	return txs, rows.Err()
}
