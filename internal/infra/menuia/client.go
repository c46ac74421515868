// Package menuia fala com o gateway de WhatsApp Menuia.
package menuia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
)

const (
	createMessagePath = "/api/create-message"
	developerPath     = "/api/developer"
	scheduleLayout    = "2006-01-02 15:04:05"
	maxBodyBytes      = 1 << 20
)

type Options struct {
	BaseURL      string
	AdminAuthKey string
	Sandbox      bool
	Location     *time.Location // fuso em que o gateway lê "agendamento"
	Timeout      time.Duration
}

type Client struct {
	baseURL      string
	adminAuthKey string
	sandbox      bool
	loc          *time.Location
	http         *http.Client
	breaker      *breaker
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Client{
		baseURL:      opts.BaseURL,
		adminAuthKey: opts.AdminAuthKey,
		sandbox:      opts.Sandbox,
		loc:          opts.Location,
		http:         &http.Client{Timeout: opts.Timeout},
		breaker:      newBreaker(5, 30*time.Second),
	}
}

// BreakerState expõe o estado do circuito para o health check.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// --------------------------------------------------
// Envio
// --------------------------------------------------

type createMessageRequest struct {
	AppKey      string `json:"appkey"`
	AuthKey     string `json:"authkey"`
	Sandbox     string `json:"sandbox,omitempty"`
	To          string `json:"to"`
	Message     string `json:"message"`
	Agendamento string `json:"agendamento,omitempty"`
}

func (c *Client) Send(ctx context.Context, cred notify.Credentials, phone, text string) error {
	return c.createMessage(ctx, createMessageRequest{
		AppKey:  cred.AppKey,
		AuthKey: cred.AuthKey,
		Sandbox: strconv.FormatBool(c.sandbox),
		To:      phone,
		Message: text,
	})
}

func (c *Client) ScheduleSend(ctx context.Context, cred notify.Credentials, phone, text string, whenUTC time.Time) error {
	return c.createMessage(ctx, createMessageRequest{
		AppKey:      cred.AppKey,
		AuthKey:     cred.AuthKey,
		To:          phone,
		Message:     text,
		Agendamento: whenUTC.In(c.loc).Format(scheduleLayout),
	})
}

func (c *Client) createMessage(ctx context.Context, req createMessageRequest) error {
	return c.breaker.do(func() error {
		r, err := c.post(ctx, createMessagePath, req)
		if err != nil {
			return err
		}
		if !r.ok() {
			return fmt.Errorf("menuia: status %d %q: %w", r.status, r.text, notify.ErrGatewayFailure)
		}
		return nil
	})
}

// --------------------------------------------------
// Dispositivos
// --------------------------------------------------

type developerRequest struct {
	AuthKey          string `json:"authkey"`
	Message          string `json:"message"`
	ConecteQR        string `json:"conecteQR,omitempty"`
	Webhook          string `json:"webhook,omitempty"`
	CheckDispositivo string `json:"checkDispositivo,omitempty"`
}

func (c *Client) PairDevice(ctx context.Context, deviceName, webhookURL string) (notify.DevicePairing, error) {
	if c.adminAuthKey == "" {
		return notify.DevicePairing{}, fmt.Errorf("menuia: admin auth key not configured: %w", notify.ErrGatewayFailure)
	}

	var out notify.DevicePairing
	err := c.breaker.do(func() error {
		r, err := c.post(ctx, developerPath, developerRequest{
			AuthKey:   c.adminAuthKey,
			Message:   deviceName,
			ConecteQR: "true",
			Webhook:   webhookURL,
		})
		if err != nil {
			return err
		}
		if !r.ok() {
			return fmt.Errorf("menuia: pairing status %d: %w", r.status, notify.ErrGatewayFailure)
		}

		out.QRCode = r.field("qr", "qrcode", "qrCode")
		out.DeviceID = r.field("deviceId", "device_id", "id")
		if out.QRCode == "" {
			return fmt.Errorf("menuia: empty qr code: %w", notify.ErrGatewayFailure)
		}
		return nil
	})
	return out, err
}

func (c *Client) DeviceConnected(ctx context.Context, deviceName string) (bool, error) {
	if c.adminAuthKey == "" {
		return false, fmt.Errorf("menuia: admin auth key not configured: %w", notify.ErrGatewayFailure)
	}

	var connected bool
	err := c.breaker.do(func() error {
		r, err := c.post(ctx, developerPath, developerRequest{
			AuthKey:          c.adminAuthKey,
			Message:          deviceName,
			CheckDispositivo: "true",
		})
		if err != nil {
			return err
		}
		connected = r.hasCode && r.status == 200
		return nil
	})
	return connected, err
}

// --------------------------------------------------
// HTTP
// --------------------------------------------------

func (c *Client) post(ctx context.Context, path string, payload any) (reply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return reply{}, fmt.Errorf("menuia: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return reply{}, fmt.Errorf("menuia: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return reply{}, fmt.Errorf("menuia: unreachable: %v: %w", err, notify.ErrGatewayFailure)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return reply{}, fmt.Errorf("menuia: read body: %v: %w", err, notify.ErrGatewayFailure)
	}

	log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("menuia response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return reply{}, fmt.Errorf("menuia: http %d: %w", resp.StatusCode, notify.ErrGatewayFailure)
	}

	return parseReply(raw), nil
}

// Compile-time check
var (
	_ notify.Gateway       = (*Client)(nil)
	_ notify.DeviceManager = (*Client)(nil)
)
