package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
	"github.com/charmbracelet/log"
)

// APIMailer sends e-mail through a transactional e-mail HTTP API (POST /emails).
type APIMailer struct {
	api  *APIService
	from string
}

// NewAPIMailer creates a mailer posting to api as from.
func NewAPIMailer(api *APIService, from string) *APIMailer {
	return &APIMailer{api: api, from: from}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Send delivers msg. A non-2xx reply is returned as an [shared.UpstreamError].
func (m *APIMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return shared.Invalid("to", "recipient is required")
	}

	data, err := json.Marshal(emailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode e-mail: %w", err)
	}

	resp, err := m.api.Post(ctx, "/emails", data, nil)
	if err != nil {
		return fmt.Errorf("failed to send e-mail: %w", err)
	}
	if !resp.OK() {
		message := resp.ErrorMessage()
		if obj, ok := resp.JSONData.(map[string]any); ok && message == "" {
			message, _ = obj["message"].(string)
		}
		if message == "" {
			message = "e-mail delivery failed"
		}
		return &shared.UpstreamError{Status: resp.StatusCode, Message: message}
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them.
// It stands in for [APIMailer] when no mail API key is configured.
type LogMailer struct {
	logger *log.Logger
}

// NewLogMailer creates a mailer that logs each message.
func NewLogMailer(logger *log.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs msg.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("e-mail not sent (mail disabled)", "to", msg.To, "subject", msg.Subject)
	return nil
}

// NewMailer returns an [APIMailer] when cfg carries an API key, and a [LogMailer] otherwise.
func NewMailer(cfg shared.MailConfig, logger *log.Logger) Mailer {
	if cfg.APIKey == "" || cfg.BaseURL == "" {
		return NewLogMailer(logger)
	}
	return NewAPIMailer(NewAPIService(cfg.BaseURL, NewBearerClient(cfg.APIKey, 0)), cfg.From)
}
