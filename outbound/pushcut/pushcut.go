// Package pushcut delivers operator-facing push alerts. Strictly a side
// channel: callers log failures and move on.
package pushcut

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"rifa-pix/common"
	"rifa-pix/common/constant"
	"rifa-pix/model"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type PushcutOutbound struct {
	Client *http.Client

	orderCreatedUrl string
	orderPaidUrl    string
	brlFormatter    *message.Printer
}

func New(cfg *viper.Viper) *PushcutOutbound {
	return &PushcutOutbound{
		Client:          &http.Client{Timeout: cfg.GetDuration("pushcut.timeout")},
		orderCreatedUrl: cfg.GetString("pushcut.order_created_url"),
		orderPaidUrl:    cfg.GetString("pushcut.order_paid_url"),
		brlFormatter:    message.NewPrinter(language.BrazilianPortuguese),
	}
}

func (out *PushcutOutbound) SendOrderCreated(ctx context.Context, msg model.OrderCreatedEventMessage) error {
	return out.send(ctx, out.orderCreatedUrl, map[string]any{
		"type":    "order_created",
		"title":   "Novo pedido",
		"text":    out.brlFormatter.Sprintf("Pedido %s: %d números, R$%.2f", msg.OrderId, msg.Quantity, float64(msg.AmountCents)/100),
		"orderId": msg.OrderId,
		"amount":  float64(msg.AmountCents) / 100,
	})
}

func (out *PushcutOutbound) SendOrderPaid(ctx context.Context, msg model.OrderPaidEventMessage) error {
	return out.send(ctx, out.orderPaidUrl, map[string]any{
		"type":          "order_paid",
		"title":         "Pedido pago",
		"text":          out.brlFormatter.Sprintf("Pedido %s pago: R$%.2f", msg.OrderId, float64(msg.AmountCents)/100),
		"orderId":       msg.OrderId,
		"transactionId": msg.TransactionId,
		"amount":        float64(msg.AmountCents) / 100,
		"paidAt":        msg.PaidAt,
	})
}

func (out *PushcutOutbound) send(ctx context.Context, url string, payload map[string]any) error {
	if url == "" {
		slog.WarnContext(ctx, "pushcut url not configured, notification skipped")
		return nil
	}

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := out.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("pushcut status %d: %s", resp.StatusCode, respBody)
	}

	slog.DebugContext(ctx, "pushcut notification sent", traceIdAttr, slog.Any(constant.LogFieldResponse, resp.StatusCode))

	return nil
}
