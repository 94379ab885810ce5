// Package metacapi sends server-side Purchase events to the Meta Conversions
// API. PII fields are SHA-256 hashed per the platform's privacy contract.
package metacapi

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rifa-pix/common"
	"rifa-pix/common/constant"
	"rifa-pix/model"

	"github.com/spf13/viper"
)

type MetaCapiOutbound struct {
	Client *http.Client

	graphUrl      string
	pixelId       string
	accessToken   string
	testEventCode string
	siteUrl       string

	TimeNow func() time.Time
}

func New(cfg *viper.Viper) *MetaCapiOutbound {
	graphUrl := cfg.GetString("meta.graph_url")
	if graphUrl == "" {
		graphUrl = "https://graph.facebook.com/v21.0"
	}

	return &MetaCapiOutbound{
		Client:        &http.Client{Timeout: cfg.GetDuration("meta.timeout")},
		graphUrl:      strings.TrimRight(graphUrl, "/"),
		pixelId:       cfg.GetString("meta.pixel_id"),
		accessToken:   cfg.GetString("meta.capi_token"),
		testEventCode: cfg.GetString("meta.test_event_code"),
		siteUrl:       cfg.GetString("meta.site_url"),
		TimeNow:       time.Now,
	}
}

func (out *MetaCapiOutbound) SendPurchase(ctx context.Context, msg model.ConversionEventMessage) error {
	if out.pixelId == "" || out.accessToken == "" {
		slog.DebugContext(ctx, "meta capi not configured, purchase event skipped")
		return nil
	}

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	userData := map[string]any{}
	if msg.Email != "" {
		userData["em"] = []string{hashField(msg.Email)}
	}
	if msg.Phone != "" {
		userData["ph"] = []string{hashField(msg.Phone)}
	}
	if msg.Cpf != "" {
		userData["external_id"] = []string{hashField(msg.Cpf)}
	}
	if msg.ClientIp != "" {
		userData["client_ip_address"] = msg.ClientIp
	}
	if msg.UserAgent != "" {
		userData["client_user_agent"] = msg.UserAgent
	}

	value := float64(msg.AmountCents) / 100

	body := map[string]any{
		"data": []map[string]any{
			{
				"event_name":       "Purchase",
				"event_time":       out.TimeNow().Unix(),
				"action_source":    "website",
				"event_id":         msg.TransactionId,
				"event_source_url": fmt.Sprintf("%s/pagamento-confirmado?orderId=%s", out.siteUrl, msg.OrderId),
				"custom_data": map[string]any{
					"currency": "BRL",
					"value":    value,
					"order_id": msg.OrderId,
					"contents": []map[string]any{
						{
							"id":         msg.OrderId,
							"quantity":   msg.Quantity,
							"item_price": value,
						},
					},
					"content_type": "product",
				},
				"user_data": userData,
			},
		},
	}

	if out.testEventCode != "" {
		body["test_event_code"] = out.testEventCode
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/events?access_token=%s", out.graphUrl, out.pixelId, out.accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
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
		return fmt.Errorf("meta capi status %d: %s", resp.StatusCode, respBody)
	}

	slog.DebugContext(ctx, "meta capi purchase sent", traceIdAttr, slog.Any(constant.LogFieldResponse, string(respBody)))

	return nil
}

func hashField(value string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(value))))
	return hex.EncodeToString(sum[:])
}
