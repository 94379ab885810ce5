package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"rifa-pix/common/constant"
	"rifa-pix/model"
	metacapiOutbound "rifa-pix/outbound/metacapi"
	pushcutOutbound "rifa-pix/outbound/pushcut"

	"github.com/redis/go-redis/v9"
)

// NotificationEvent fans payment lifecycle messages out to the operator
// alert channel and the ads conversion API. Delivery failures are logged
// and the message is acked anyway: these side channels are best effort and
// a dead alert endpoint must not pile up redeliveries.
type NotificationEvent struct {
	Pushcut  *pushcutOutbound.PushcutOutbound
	MetaCapi *metacapiOutbound.MetaCapiOutbound
	Cache    *redis.Client
	Timeout  time.Duration
}

func (in NotificationEvent) OrderCreatedHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.OrderCreatedEventMessage
	if err := json.Unmarshal(msg, &req); err != nil {
		slog.WarnContext(ctx, "order created event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	if err := in.Pushcut.SendOrderCreated(ctx, req); err != nil {
		slog.ErrorContext(ctx, "order created alert error",
			slog.Any(constant.LogFieldErr, err),
			slog.Any(constant.LogFieldPayload, string(msg)),
		)
	}

	return nil
}

func (in NotificationEvent) OrderPaidHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.OrderPaidEventMessage
	if err := json.Unmarshal(msg, &req); err != nil {
		slog.WarnContext(ctx, "order paid event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	if err := in.Pushcut.SendOrderPaid(ctx, req); err != nil {
		slog.ErrorContext(ctx, "order paid alert error",
			slog.Any(constant.LogFieldErr, err),
			slog.Any(constant.LogFieldPayload, string(msg)),
		)
	}

	return nil
}

// ConversionHandler sends the Purchase event at most once per transaction.
// The dedup key guards against webhook redelivery inflating ad attribution.
func (in NotificationEvent) ConversionHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.ConversionEventMessage
	if err := json.Unmarshal(msg, &req); err != nil {
		slog.WarnContext(ctx, "conversion event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	dedupKey := fmt.Sprintf(constant.ConversionDedupKey, req.TransactionId)
	first, err := in.Cache.SetNX(ctx, dedupKey, true, constant.ConversionDedupTTL).Result()
	if err != nil {
		slog.ErrorContext(ctx, "conversion dedup check error", slog.Any(constant.LogFieldErr, err))
		return err
	}

	if !first {
		slog.DebugContext(ctx, "conversion already sent", slog.String("transaction_id", req.TransactionId))
		return nil
	}

	if err := in.MetaCapi.SendPurchase(ctx, req); err != nil {
		slog.ErrorContext(ctx, "conversion send error",
			slog.Any(constant.LogFieldErr, err),
			slog.Any(constant.LogFieldPayload, string(msg)),
		)

		// Free the dedup slot so a redelivered message can retry.
		if delErr := in.Cache.Del(ctx, dedupKey).Err(); delErr != nil {
			slog.ErrorContext(ctx, "conversion dedup release error", slog.Any(constant.LogFieldErr, delErr))
		}
	}

	return nil
}
