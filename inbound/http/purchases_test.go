package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rifa-pix/outbound/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/suite"
)

type PurchaseHttpTestSuite struct {
	suite.Suite

	Querier *store.Queries
	PgxMock pgxmock.PgxPoolIface
}

func (s *PurchaseHttpTestSuite) SetupTest() {
	pool, err := pgxmock.NewPool()
	if err != nil {
		s.T().Fatalf("failed to create pgxmock pool: %v", err)
	}

	s.PgxMock = pool
	s.Querier = store.New(pool)
}

func (s *PurchaseHttpTestSuite) TearDownTest() {
	s.PgxMock.Close()
}

func TestPurchaseHttpTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseHttpTestSuite))
}

func (s *PurchaseHttpTestSuite) expectFindUser(cpf string) {
	s.PgxMock.ExpectQuery(`SELECT id, cpf, name, email, phone, created_at FROM users WHERE cpf = \$1`).
		WithArgs(cpf).
		WillReturnRows(pgxmock.NewRows([]string{"id", "cpf", "name", "email", "phone", "created_at"}).
			AddRow(
				"01ARZ3NDEKTSV4RRFFQ69G5FAV",
				cpf,
				pgtype.Text{String: "Maria", Valid: true},
				pgtype.Text{},
				pgtype.Text{},
				pgtype.Timestamp{Time: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Valid: true},
			))
}

func (s *PurchaseHttpTestSuite) TestList() {
	tests := []struct {
		name           string
		reqBody        string
		setupMock      func()
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "invalid json",
			reqBody:        `{not json`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"ok":false,"error":"Requisição inválida"}`,
		},
		{
			name:           "missing document",
			reqBody:        `{"cpf": "---"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"ok":false,"error":"CPF/CNPJ obrigatório"}`,
		},
		{
			name:    "short document accepted like order creation",
			reqBody: `{"cpf": "12345"}`,
			setupMock: func() {
				s.PgxMock.ExpectQuery(`SELECT id, cpf, name, email, phone, created_at FROM users WHERE cpf = \$1`).
					WithArgs("12345").
					WillReturnError(pgx.ErrNoRows)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"ok":true,"orders":[]}`,
		},
		{
			name:    "unknown cpf returns empty list",
			reqBody: `{"cpf": "529.982.247-25"}`,
			setupMock: func() {
				s.PgxMock.ExpectQuery(`SELECT id, cpf, name, email, phone, created_at FROM users WHERE cpf = \$1`).
					WithArgs("52998224725").
					WillReturnError(pgx.ErrNoRows)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"ok":true,"orders":[]}`,
		},
		{
			name:    "find orders error",
			reqBody: `{"cpf": "52998224725"}`,
			setupMock: func() {
				s.expectFindUser("52998224725")
				s.PgxMock.ExpectQuery(`SELECT id, external_id, amount_cents, quantity, status, created_at FROM orders WHERE user_id = \$1 ORDER BY created_at DESC`).
					WithArgs("01ARZ3NDEKTSV4RRFFQ69G5FAV").
					WillReturnError(fmt.Errorf("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"ok":false,"error":"Erro inesperado"}`,
		},
		{
			name:    "orders with tickets and transactions",
			reqBody: `{"cpf": "52998224725"}`,
			setupMock: func() {
				s.expectFindUser("52998224725")
				s.PgxMock.ExpectQuery(`SELECT id, external_id, amount_cents, quantity, status, created_at FROM orders WHERE user_id = \$1 ORDER BY created_at DESC`).
					WithArgs("01ARZ3NDEKTSV4RRFFQ69G5FAV").
					WillReturnRows(pgxmock.NewRows([]string{"id", "external_id", "amount_cents", "quantity", "status", "created_at"}).
						AddRow(int32(10), "01HXYZABCDEF0123456789ABCD", int64(2500), int32(250), "paid",
							pgtype.Timestamp{Time: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), Valid: true}))

				s.PgxMock.ExpectQuery(`SELECT number FROM tickets WHERE order_id = \$1 ORDER BY number`).
					WithArgs(int32(10)).
					WillReturnRows(pgxmock.NewRows([]string{"number"}).AddRow(int64(7)).AddRow(int64(42)))

				s.PgxMock.ExpectQuery(`SELECT id, external_id, amount_cents, status, gateway_id FROM transactions WHERE order_id = \$1 ORDER BY id`).
					WithArgs(int32(10)).
					WillReturnRows(pgxmock.NewRows([]string{"id", "external_id", "amount_cents", "status", "gateway_id"}).
						AddRow(int32(1), "01BX5ZZKBKACTAV9WEVGEMMVRZ", int64(2500), "paid", "gw-1"))
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"ok":true,"orders":[{"id":"01HXYZABCDEF0123456789ABCD","displayOrderCode":"#89ABCD","amount":25,"status":"paid","createdAt":"2026-02-01T12:00:00Z","quantity":250,"numbers":[7,42],"transactions":[{"id":"01BX5ZZKBKACTAV9WEVGEMMVRZ","status":"paid","value":25,"gatewayId":"gw-1"}]}]}`,
		},
		{
			name:    "zero stored quantity falls back to ticket count",
			reqBody: `{"cpf": "52998224725"}`,
			setupMock: func() {
				s.expectFindUser("52998224725")
				s.PgxMock.ExpectQuery(`SELECT id, external_id, amount_cents, quantity, status, created_at FROM orders WHERE user_id = \$1 ORDER BY created_at DESC`).
					WithArgs("01ARZ3NDEKTSV4RRFFQ69G5FAV").
					WillReturnRows(pgxmock.NewRows([]string{"id", "external_id", "amount_cents", "quantity", "status", "created_at"}).
						AddRow(int32(10), "01HXYZABCDEF0123456789ABCD", int64(30), int32(0), "pending",
							pgtype.Timestamp{Time: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC), Valid: true}))

				s.PgxMock.ExpectQuery(`SELECT number FROM tickets WHERE order_id = \$1 ORDER BY number`).
					WithArgs(int32(10)).
					WillReturnRows(pgxmock.NewRows([]string{"number"}).AddRow(int64(7)).AddRow(int64(42)).AddRow(int64(99)))

				s.PgxMock.ExpectQuery(`SELECT id, external_id, amount_cents, status, gateway_id FROM transactions WHERE order_id = \$1 ORDER BY id`).
					WithArgs(int32(10)).
					WillReturnRows(pgxmock.NewRows([]string{"id", "external_id", "amount_cents", "status", "gateway_id"}))
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"ok":true,"orders":[{"id":"01HXYZABCDEF0123456789ABCD","displayOrderCode":"#89ABCD","amount":0.3,"status":"pending","createdAt":"2026-02-01T12:00:00Z","quantity":3,"numbers":[7,42,99],"transactions":[]}]}`,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			purchaseHttp := RegisterPurchaseHttp(http.NewServeMux(), s.Querier)

			tc.setupMock()

			req := httptest.NewRequest(http.MethodPost, "/api/purchases", strings.NewReader(tc.reqBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			purchaseHttp.list(w, req)

			s.Equal(tc.expectedStatus, w.Code)

			actual := strings.TrimSpace(w.Body.String())
			s.Equal(tc.expectedBody, actual)

			s.NoError(s.PgxMock.ExpectationsWereMet())
		})
	}
}
