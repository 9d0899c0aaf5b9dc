// internal/adapters/whatsapp/client.go
package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ammerola/atelier-ops/internal/core/ports"
)

// Config holds WhatsApp Business Cloud API settings
type Config struct {
	Enabled       bool
	APIBaseURL    string
	PhoneNumberID string
	Token         string
	Timeout       time.Duration
}

// Client sends text messages through the WhatsApp Business Cloud API
type Client struct {
	http    *resty.Client
	enabled bool
	path    string
	logger  *slog.Logger
}

var _ ports.MessageSender = (*Client)(nil)

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// NewClient creates a WhatsApp client. A disabled client accepts every
// message and sends nothing.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.APIBaseURL, "/")).
			SetTimeout(timeout).
			SetAuthToken(cfg.Token).
			SetHeader("Content-Type", "application/json"),
		enabled: cfg.Enabled,
		path:    "/" + cfg.PhoneNumberID + "/messages",
		logger:  logger.With(slog.String("component", "whatsapp")),
	}
}

// SendText sends body to the phone number to (digits with country code)
func (c *Client) SendText(ctx context.Context, to string, body string) error {
	if !c.enabled {
		c.logger.DebugContext(ctx, "whatsapp disabled, message dropped", slog.String("to", to))
		return nil
	}

	msg := textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
	}
	msg.Text.Body = body

	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(msg).
		SetError(&apiErr).
		Post(c.path)
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	if resp.IsError() {
		reason := apiErr.Error.Message
		if reason == "" {
			reason = resp.Status()
		}
		return fmt.Errorf("whatsapp API rejected message (status %d): %s", resp.StatusCode(), reason)
	}

	c.logger.InfoContext(ctx, "whatsapp message sent", slog.String("to", to))
	return nil
}
