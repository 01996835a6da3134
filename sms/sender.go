// Package sms delivers one-time codes through an external gateway. Delivery
// is fire-and-forget from the caller's perspective, but errors are returned
// so the issuance path can fail open instead of silently dropping a code.
package sms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Sender hands a message to some delivery channel.
type Sender interface {
	Send(phone, message string) error
}

// GatewaySender posts to an HTTP SMS gateway with a bounded timeout.
type GatewaySender struct {
	URL    string
	Token  string
	Client *http.Client
	Log    *zap.Logger
}

func NewGatewaySender(url, token string, timeout time.Duration, log *zap.Logger) *GatewaySender {
	return &GatewaySender{
		URL:    url,
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Log:    log,
	}
}

func (s *GatewaySender) Send(phone, message string) error {
	body := map[string]interface{}{
		"phone":   phone,
		"message": message,
	}
	payload, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, s.URL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.Log.Warn("sms gateway rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("phone", phone))
		return fmt.Errorf("sms: gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// LogSender is the development fallback when no gateway is configured: the
// code lands in the log instead of a phone.
type LogSender struct {
	Log *zap.Logger
}

func (s *LogSender) Send(phone, message string) error {
	s.Log.Info("sms (log fallback)", zap.String("phone", phone), zap.String("message", message))
	return nil
}

// FromSettings picks the gateway sender when configured, the log sender
// otherwise.
func FromSettings(url, token string, timeout time.Duration, log *zap.Logger) Sender {
	if url == "" {
		return &LogSender{Log: log}
	}
	return NewGatewaySender(url, token, timeout, log)
}
