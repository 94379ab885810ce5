package store

import "context"

const insertTickets = `INSERT INTO tickets (order_id, number) SELECT $1, unnest($2::bigint[])`

type InsertTicketsParams struct {
	OrderID int32
	Numbers []int64
}

func (q *Queries) InsertTickets(ctx context.Context, arg InsertTicketsParams) error {
	_, err := q.db.Exec(ctx, insertTickets, arg.OrderID, arg.Numbers)
	return err
}

const findTicketNumbersByOrderId = `SELECT number FROM tickets WHERE order_id = $1 ORDER BY number`

func (q *Queries) FindTicketNumbersByOrderId(ctx context.Context, orderId int32) ([]int64, error) {
	rows, err := q.db.Query(ctx, findTicketNumbersByOrderId, orderId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []int64
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}

	return numbers, rows.Err()
}
