package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// logSender is the mock delivery channel: it records the notification and
// succeeds. Used whenever no webhook URL is configured.
type logSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) NotificationSender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(_ context.Context, recipient, template string) error {
	if recipient == "" {
		return fmt.Errorf("recipient must not be empty")
	}
	if template == "" {
		return fmt.Errorf("template must not be empty")
	}

	s.logger.Info("📨 Mock notification sent",
		zap.String("recipient", recipient),
		zap.String("template", template),
	)
	return nil
}

// webhookSender POSTs notifications to a configured endpoint. This is the
// substitution point for a real notification provider.
type webhookSender struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewWebhookSender(url string, timeout time.Duration, logger *zap.Logger) NotificationSender {
	return &webhookSender{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (s *webhookSender) Send(ctx context.Context, recipient, template string) error {
	if recipient == "" {
		return fmt.Errorf("recipient must not be empty")
	}

	payload, err := json.Marshal(map[string]string{
		"recipient": recipient,
		"template":  template,
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}

	s.logger.Debug("Notification delivered",
		zap.String("recipient", recipient),
		zap.String("template", template),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}
