package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/glacialguard/alert-service/internal/config"
	"github.com/glacialguard/alert-service/internal/models"
)

const defaultGraphBaseURL = "https://graph.facebook.com/v18.0"

// CloudOption customises the Cloud API provider.
type CloudOption func(*CloudProvider)

// WithBaseURL overrides the graph API base URL. Useful for tests.
func WithBaseURL(baseURL string) CloudOption {
	return func(p *CloudProvider) {
		if strings.TrimSpace(baseURL) != "" {
			p.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// CloudProvider delivers WhatsApp messages through the Meta Cloud API.
type CloudProvider struct {
	logger        zerolog.Logger
	client        *resty.Client
	baseURL       string
	phoneNumberID string
}

type cloudRequest struct {
	MessagingProduct string    `json:"messaging_product"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Text             cloudText `json:"text"`
}

type cloudText struct {
	Body string `json:"body"`
}

type cloudResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type cloudError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// NewCloudProvider constructs a Meta Cloud API WhatsApp provider.
func NewCloudProvider(cfg config.WhatsAppConfig, timeout time.Duration, logger zerolog.Logger, opts ...CloudOption) (*CloudProvider, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, errors.New("whatsapp cloud provider: access token is required")
	}
	if strings.TrimSpace(cfg.PhoneNumberID) == "" {
		return nil, errors.New("whatsapp cloud provider: phone number id is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	client := resty.New().
		SetAuthToken(strings.TrimSpace(cfg.AccessToken)).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	p := &CloudProvider{
		logger:        logger,
		client:        client,
		baseURL:       defaultGraphBaseURL,
		phoneNumberID: strings.TrimSpace(cfg.PhoneNumberID),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Send delivers one WhatsApp text message via the Cloud API.
func (p *CloudProvider) Send(ctx context.Context, to, body string) (*Result, error) {
	if to == "" {
		return nil, errors.New("whatsapp cloud provider: recipient is required")
	}

	var (
		out  cloudResponse
		fail cloudError
	)
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(cloudRequest{
			MessagingProduct: "whatsapp",
			To:               to,
			Type:             "text",
			Text:             cloudText{Body: body},
		}).
		SetResult(&out).
		SetError(&fail).
		Post(fmt.Sprintf("%s/%s/messages", p.baseURL, p.phoneNumberID))
	if err != nil {
		return nil, fmt.Errorf("whatsapp cloud provider: post: %w", err)
	}

	if resp.IsError() {
		msg := strings.TrimSpace(fail.Error.Message)
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("whatsapp cloud provider: api error: %s", msg)
	}

	result := &Result{Status: models.StatusSent}
	if len(out.Messages) > 0 {
		result.MessageID = out.Messages[0].ID
	}

	p.logger.Debug().
		Str("channel", models.ChannelWhatsApp).
		Str("to", to).
		Str("provider_id", result.MessageID).
		Msg("whatsapp cloud message accepted")

	return result, nil
}
