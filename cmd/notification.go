package cmd

import (
	"context"
	"log"
	"log/slog"
	"time"

	"rifa-pix/common/constant"
	commonJetstream "rifa-pix/common/jetstream"
	"rifa-pix/inbound/event"
	metacapiOutbound "rifa-pix/outbound/metacapi"
	pushcutOutbound "rifa-pix/outbound/pushcut"

	"github.com/nats-io/nats.go/jetstream"
)

func runQueueNotificationCmd(ctx context.Context) {
	cfg := newCfg("env")

	cacheClient := newRedis(cfg)
	defer cacheClient.Close()

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	commonJetstream.CreateQueueStream(ctx, js)

	st, err := js.Stream(ctx, constant.QueueStreamName)
	if err != nil {
		log.Fatalln("failed to get stream", err)
	}

	notificationEvent := event.NotificationEvent{
		Pushcut:  pushcutOutbound.New(cfg),
		MetaCapi: metacapiOutbound.New(cfg),
		Cache:    cacheClient,
		Timeout:  cfg.GetDuration("queue.notification.timeout"),
	}

	cons, err := st.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       "consumer:notification",
		FilterSubject: constant.NotifyWildcard,
		MaxDeliver:    cfg.GetInt("queue.notification.max_deliver"),
		AckWait:       cfg.GetDuration("queue.notification.ack_wait"),
	})
	if err != nil {
		log.Fatalln("failed to create consumer", err)
	}

	iter, err := cons.Messages()
	if err != nil {
		panic(err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := iter.Next()
				if err != nil && err != jetstream.ErrMsgIteratorClosed {
					slog.ErrorContext(ctx, "Error fetching message", slog.Any(constant.LogFieldErr, err))
					continue
				}

				if msg == nil {
					continue
				}

				var eventErr error
				switch msg.Subject() {
				case constant.SubjectNotifyOrderCreated:
					eventErr = notificationEvent.OrderCreatedHandler(ctx, msg.Data())
				case constant.SubjectNotifyOrderPaid:
					eventErr = notificationEvent.OrderPaidHandler(ctx, msg.Data())
				case constant.SubjectNotifyConversion:
					eventErr = notificationEvent.ConversionHandler(ctx, msg.Data())
				}

				if eventErr != nil {
					msg.NakWithDelay(1 * time.Second)
					continue
				}

				if err := msg.Ack(); err != nil {
					slog.ErrorContext(ctx, "Error acknowledging message",
						slog.Any(constant.LogFieldErr, err),
						slog.Any(constant.LogFieldPayload, string(msg.Data())),
						slog.String("subject", msg.Subject()),
					)
					continue
				}
			}
		}
	}()

	slog.InfoContext(ctx, "notification queue consumer started")

	<-ctx.Done()

	iter.Stop()

	slog.InfoContext(ctx, "notification queue consumer stopped")
}
