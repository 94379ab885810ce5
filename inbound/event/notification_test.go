package event

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"rifa-pix/common/constant"
	"rifa-pix/model"
	metacapiOutbound "rifa-pix/outbound/metacapi"
	pushcutOutbound "rifa-pix/outbound/pushcut"

	"github.com/go-redis/redismock/v9"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type NotificationEventTestSuite struct {
	suite.Suite

	CacheMock redismock.ClientMock

	Event NotificationEvent

	pushcutCalls  atomic.Int64
	metacapiCalls atomic.Int64

	pushcutSrv  *httptest.Server
	metacapiSrv *httptest.Server
}

func (s *NotificationEventTestSuite) SetupTest() {
	s.pushcutCalls.Store(0)
	s.metacapiCalls.Store(0)

	s.pushcutSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.pushcutCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))

	s.metacapiSrv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metacapiCalls.Add(1)
		w.Write([]byte(`{"events_received": 1}`))
	}))

	cfg := viper.New()
	cfg.Set("pushcut.order_created_url", s.pushcutSrv.URL)
	cfg.Set("pushcut.order_paid_url", s.pushcutSrv.URL)
	cfg.Set("pushcut.timeout", "5s")
	cfg.Set("meta.graph_url", s.metacapiSrv.URL)
	cfg.Set("meta.pixel_id", "12345")
	cfg.Set("meta.capi_token", "token")
	cfg.Set("meta.site_url", "https://rifa.example.com")
	cfg.Set("meta.timeout", "5s")

	rdb, mock := redismock.NewClientMock()
	s.CacheMock = mock

	s.Event = NotificationEvent{
		Pushcut:  pushcutOutbound.New(cfg),
		MetaCapi: metacapiOutbound.New(cfg),
		Cache:    rdb,
		Timeout:  5 * time.Second,
	}
}

func (s *NotificationEventTestSuite) TearDownTest() {
	s.pushcutSrv.Close()
	s.metacapiSrv.Close()
}

func TestNotificationEventTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationEventTestSuite))
}

func (s *NotificationEventTestSuite) TestOrderCreatedHandler() {
	msg, err := json.Marshal(model.OrderCreatedEventMessage{
		OrderId:     "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		AmountCents: 2500,
		Quantity:    250,
		Cpf:         "52998224725",
	})
	require.NoError(s.T(), err)

	s.NoError(s.Event.OrderCreatedHandler(context.Background(), msg))
	s.Equal(int64(1), s.pushcutCalls.Load())
}

func (s *NotificationEventTestSuite) TestOrderCreatedHandlerBadPayload() {
	s.NoError(s.Event.OrderCreatedHandler(context.Background(), []byte(`{not json`)))
	s.Equal(int64(0), s.pushcutCalls.Load())
}

func (s *NotificationEventTestSuite) TestOrderPaidHandlerDeliveryFailureIsAcked() {
	s.pushcutSrv.Close()

	msg, err := json.Marshal(model.OrderPaidEventMessage{
		OrderId:       "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		TransactionId: "01BX5ZZKBKACTAV9WEVGEMMVRZ",
		AmountCents:   2500,
	})
	require.NoError(s.T(), err)

	s.NoError(s.Event.OrderPaidHandler(context.Background(), msg))
}

func (s *NotificationEventTestSuite) TestConversionHandler() {
	msg, err := json.Marshal(model.ConversionEventMessage{
		TransactionId: "01BX5ZZKBKACTAV9WEVGEMMVRZ",
		OrderId:       "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		AmountCents:   2500,
		Quantity:      250,
		Email:         "maria@example.com",
	})
	require.NoError(s.T(), err)

	dedupKey := fmt.Sprintf(constant.ConversionDedupKey, "01BX5ZZKBKACTAV9WEVGEMMVRZ")
	s.CacheMock.ExpectSetNX(dedupKey, true, constant.ConversionDedupTTL).SetVal(true)

	s.NoError(s.Event.ConversionHandler(context.Background(), msg))
	s.Equal(int64(1), s.metacapiCalls.Load())
	s.NoError(s.CacheMock.ExpectationsWereMet())
}

func (s *NotificationEventTestSuite) TestConversionHandlerDeduplicates() {
	msg, err := json.Marshal(model.ConversionEventMessage{TransactionId: "01BX5ZZKBKACTAV9WEVGEMMVRZ"})
	require.NoError(s.T(), err)

	dedupKey := fmt.Sprintf(constant.ConversionDedupKey, "01BX5ZZKBKACTAV9WEVGEMMVRZ")
	s.CacheMock.ExpectSetNX(dedupKey, true, constant.ConversionDedupTTL).SetVal(false)

	s.NoError(s.Event.ConversionHandler(context.Background(), msg))
	s.Equal(int64(0), s.metacapiCalls.Load())
	s.NoError(s.CacheMock.ExpectationsWereMet())
}

func (s *NotificationEventTestSuite) TestConversionHandlerReleasesDedupOnSendFailure() {
	s.metacapiSrv.Close()

	msg, err := json.Marshal(model.ConversionEventMessage{TransactionId: "01BX5ZZKBKACTAV9WEVGEMMVRZ"})
	require.NoError(s.T(), err)

	dedupKey := fmt.Sprintf(constant.ConversionDedupKey, "01BX5ZZKBKACTAV9WEVGEMMVRZ")
	s.CacheMock.ExpectSetNX(dedupKey, true, constant.ConversionDedupTTL).SetVal(true)
	s.CacheMock.ExpectDel(dedupKey).SetVal(1)

	s.NoError(s.Event.ConversionHandler(context.Background(), msg))
	s.NoError(s.CacheMock.ExpectationsWereMet())
}

func (s *NotificationEventTestSuite) TestConversionHandlerDedupError() {
	msg, err := json.Marshal(model.ConversionEventMessage{TransactionId: "01BX5ZZKBKACTAV9WEVGEMMVRZ"})
	require.NoError(s.T(), err)

	dedupKey := fmt.Sprintf(constant.ConversionDedupKey, "01BX5ZZKBKACTAV9WEVGEMMVRZ")
	s.CacheMock.ExpectSetNX(dedupKey, true, constant.ConversionDedupTTL).SetErr(fmt.Errorf("redis down"))

	assert.Error(s.T(), s.Event.ConversionHandler(context.Background(), msg))
	s.Equal(int64(0), s.metacapiCalls.Load())
}
