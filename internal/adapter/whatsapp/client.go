package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"
)

// ErrRecipientRequired is returned when a message has no destination phone.
var ErrRecipientRequired = errors.New("recipient phone required")

// TooManyRequestsError represents rate limiting signal from the Cloud API.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, text string) error
}

// HTTPClient implements Sender via the WhatsApp Cloud API.
type HTTPClient struct {
	baseURL       *url.URL
	phoneNumberID string
	token         string
	httpClient    *http.Client
	logger        *slog.Logger
}

type textBody struct {
	Body string `json:"body"`
}

// request mirrors the Cloud API text message payload.
type request struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

// NewHTTPClient creates Cloud API client with default timeout.
func NewHTTPClient(baseURL, phoneNumberID, token string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse whatsapp url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("whatsapp url must be absolute")
	}
	if phoneNumberID == "" {
		return nil, fmt.Errorf("whatsapp phone number id must be provided")
	}
	return &HTTPClient{
		baseURL:       parsed,
		phoneNumberID: phoneNumberID,
		token:         token,
		logger:        logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Send posts a text message to phone.
func (c *HTTPClient) Send(ctx context.Context, phone, text string) error {
	if phone == "" {
		return ErrRecipientRequired
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, c.phoneNumberID, "messages")

	payload, err := json.Marshal(request{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "text",
		Text:             textBody{Body: text},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("whatsapp request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("whatsapp error: %s", resp.Status)
	}
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, phone, text string) error {
	if phone == "" {
		return ErrRecipientRequired
	}
	s.logger.Info("outbound message", slog.String("phone", phone), slog.String("text", text))
	return nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
