package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const findUserByCpf = `SELECT id, cpf, name, email, phone, created_at FROM users WHERE cpf = $1`

func (q *Queries) FindUserByCpf(ctx context.Context, cpf string) (User, error) {
	row := q.db.QueryRow(ctx, findUserByCpf, cpf)

	var u User
	err := row.Scan(&u.ID, &u.Cpf, &u.Name, &u.Email, &u.Phone, &u.CreatedAt)
	return u, err
}

const insertUser = `INSERT INTO users (id, cpf, name, email, phone) VALUES ($1, $2, $3, $4, $5)`

type InsertUserParams struct {
	ID    string
	Cpf   string
	Name  pgtype.Text
	Email pgtype.Text
	Phone pgtype.Text
}

func (q *Queries) InsertUser(ctx context.Context, arg InsertUserParams) error {
	_, err := q.db.Exec(ctx, insertUser, arg.ID, arg.Cpf, arg.Name, arg.Email, arg.Phone)
	return err
}
