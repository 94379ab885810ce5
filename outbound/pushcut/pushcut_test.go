package pushcut

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rifa-pix/model"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendOrderPaid(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := viper.New()
	cfg.Set("pushcut.order_paid_url", srv.URL)
	cfg.Set("pushcut.timeout", "5s")

	out := New(cfg)

	err := out.SendOrderPaid(context.Background(), model.OrderPaidEventMessage{
		OrderId:       "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		TransactionId: "01BX5ZZKBKACTAV9WEVGEMMVRZ",
		AmountCents:   2500,
		PaidAt:        "2026-01-02T12:00:00Z",
	})

	require.NoError(t, err)
	assert.Equal(t, "order_paid", received["type"])
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", received["orderId"])
	assert.Equal(t, 25.0, received["amount"])
}

func TestSendOrderCreatedUnconfigured(t *testing.T) {
	cfg := viper.New()
	cfg.Set("pushcut.timeout", "5s")

	out := New(cfg)

	err := out.SendOrderCreated(context.Background(), model.OrderCreatedEventMessage{OrderId: "x"})
	assert.NoError(t, err)
}

func TestSendOrderCreatedErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := viper.New()
	cfg.Set("pushcut.order_created_url", srv.URL)
	cfg.Set("pushcut.timeout", "5s")

	out := New(cfg)

	err := out.SendOrderCreated(context.Background(), model.OrderCreatedEventMessage{OrderId: "x", AmountCents: 100})
	assert.Error(t, err)
}
