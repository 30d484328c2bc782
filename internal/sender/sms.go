// internal/sender/sms.go
package sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/candraczapansky/salon-notify/internal/config"
)

// HTTPSMSSender posts messages to an SMS gateway. When no provider URL is
// configured it only logs, so local runs never hit a carrier.
type HTTPSMSSender struct {
	cfg    config.SMSConfig
	client *http.Client
	log    zerolog.Logger
}

func NewHTTPSMSSender(cfg config.SMSConfig, log zerolog.Logger) *HTTPSMSSender {
	return &HTTPSMSSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

type smsRequest struct {
	To       string `json:"to"`
	From     string `json:"from"`
	Body     string `json:"body"`
	MediaURL string `json:"media_url,omitempty"`
}

func (s *HTTPSMSSender) Send(ctx context.Context, to, body, mediaURL string) (SMSResult, error) {
	if s.cfg.ProviderURL == "" {
		s.log.Info().Str("to", to).Msg("sms provider not configured, skipping real send")
		return SMSResult{Success: true, MessageID: "local-" + to}, nil
	}

	payload, err := json.Marshal(smsRequest{To: to, From: s.cfg.FromNumber, Body: body, MediaURL: mediaURL})
	if err != nil {
		return SMSResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ProviderURL, bytes.NewReader(payload))
	if err != nil {
		return SMSResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.AuthToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return SMSResult{}, fmt.Errorf("sms provider request failed: %w", err)
	}
	defer resp.Body.Close()

	var result SMSResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SMSResult{}, fmt.Errorf("invalid sms provider response: %w", err)
	}
	if resp.StatusCode >= 400 && result.Error == "" {
		result.Success = false
		result.Error = fmt.Sprintf("provider returned status %d", resp.StatusCode)
	}
	return result, nil
}

var _ SMSSender = (*HTTPSMSSender)(nil)
