package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/comptrack/backend/domain"
)

// TwilioConfig holds the provider credentials and source number. Values come
// from the environment via internal/config, never from code.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string // overridable for tests
	Timeout    time.Duration
}

type twilioGateway struct {
	cfg    TwilioConfig
	http   *http.Client
	logger *zap.Logger
}

// NewTwilioGateway creates a Gateway backed by the Twilio Messages REST API.
func NewTwilioGateway(cfg TwilioConfig, logger *zap.Logger) Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &twilioGateway{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		logger: logger,
	}
}

// twilioMessage is the subset of the Messages API response we care about.
type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
}

// twilioError is the provider's error body for rejected requests.
type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (g *twilioGateway) Send(ctx context.Context, message, destination string) (*Ack, error) {
	form := url.Values{}
	form.Set("Body", message)
	form.Set("From", g.cfg.FromNumber)
	form.Set("To", destination)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", g.cfg.BaseURL, g.cfg.AccountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeSendFailed, "building sms request", err)
	}
	req.SetBasicAuth(g.cfg.AccountSID, g.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeSendFailed, "sms transport failure", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeSendFailed, "reading sms response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var provider twilioError
		if err := json.Unmarshal(body, &provider); err == nil && provider.Message != "" {
			g.logger.Warn("sms rejected by provider",
				zap.Int("provider_code", provider.Code),
				zap.String("to", destination))
			return nil, domain.NewError(domain.ErrCodeSendFailed, provider.Message)
		}
		return nil, domain.NewError(domain.ErrCodeSendFailed,
			fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}

	var msg twilioMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, domain.WrapError(domain.ErrCodeSendFailed, "decoding sms response", err)
	}

	g.logger.Info("sms accepted",
		zap.String("message_sid", msg.SID),
		zap.String("status", msg.Status))

	return &Ack{SID: msg.SID, Status: msg.Status, To: msg.To}, nil
}
