package store

import "github.com/jackc/pgx/v5/pgtype"

type User struct {
	ID        string
	Cpf       string
	Name      pgtype.Text
	Email     pgtype.Text
	Phone     pgtype.Text
	CreatedAt pgtype.Timestamp
}

type Order struct {
	ID          int32
	ExternalID  string
	UserID      string
	AmountCents int64
	Quantity    int32
	Status      string
	CreatedAt   pgtype.Timestamp
}

type Ticket struct {
	ID      int32
	OrderID int32
	Number  int64
}

type Transaction struct {
	ID          int32
	ExternalID  string
	OrderID     int32
	AmountCents int64
	Status      string
	GatewayID   string
	CreatedAt   pgtype.Timestamp
}
