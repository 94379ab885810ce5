package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

const insertOrder = `INSERT INTO orders (external_id, user_id, amount_cents, quantity, status) VALUES ($1, $2, $3, $4, 'pending') RETURNING id`

type InsertOrderParams struct {
	ExternalID  string
	UserID      string
	AmountCents int64
	Quantity    int32
}

func (q *Queries) InsertOrder(ctx context.Context, arg InsertOrderParams) (int32, error) {
	row := q.db.QueryRow(ctx, insertOrder, arg.ExternalID, arg.UserID, arg.AmountCents, arg.Quantity)

	var id int32
	err := row.Scan(&id)
	return id, err
}

const updateOrderStatusToPaid = `UPDATE orders SET status = 'paid' WHERE id = $1 AND status <> 'canceled'`

func (q *Queries) UpdateOrderStatusToPaid(ctx context.Context, id int32) (pgconn.CommandTag, error) {
	return q.db.Exec(ctx, updateOrderStatusToPaid, id)
}

const findOrderWithUserById = `SELECT o.id, o.external_id, o.amount_cents, o.quantity, o.status, u.cpf, COALESCE(u.email, ''), COALESCE(u.phone, '') FROM orders o JOIN users u ON u.id = o.user_id WHERE o.id = $1`

type FindOrderWithUserByIdRow struct {
	ID          int32
	ExternalID  string
	AmountCents int64
	Quantity    int32
	Status      string
	Cpf         string
	Email       string
	Phone       string
}

func (q *Queries) FindOrderWithUserById(ctx context.Context, id int32) (FindOrderWithUserByIdRow, error) {
	row := q.db.QueryRow(ctx, findOrderWithUserById, id)

	var r FindOrderWithUserByIdRow
	err := row.Scan(&r.ID, &r.ExternalID, &r.AmountCents, &r.Quantity, &r.Status, &r.Cpf, &r.Email, &r.Phone)
	return r, err
}

const findOrdersByUserId = `SELECT id, external_id, amount_cents, quantity, status, created_at FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

func (q *Queries) FindOrdersByUserId(ctx context.Context, userId string) ([]Order, error) {
	rows, err := q.db.Query(ctx, findOrdersByUserId, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ExternalID, &o.AmountCents, &o.Quantity, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}
