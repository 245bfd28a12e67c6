package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", "1", "t", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", "1", "t", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
	if _, err := NewHTTPClient("https://graph.example.com", "", "t", testLogger()); err == nil {
		t.Fatal("expected error for missing phone number id")
	}
}

func TestSendPostsTextMessage(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody request
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL+"/v19.0", "555", "secret", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if err := client.Send(context.Background(), "15550001", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v19.0/555/messages" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected authorization header: %s", gotAuth)
	}
	if gotBody.MessagingProduct != "whatsapp" || gotBody.Type != "text" {
		t.Fatalf("unexpected payload: %+v", gotBody)
	}
	if gotBody.To != "15550001" || gotBody.Text.Body != "hello" {
		t.Fatalf("unexpected recipient or text: %+v", gotBody)
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	client, err := NewHTTPClient("https://graph.example.com", "1", "t", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if err := client.Send(context.Background(), "", "hi"); !errors.Is(err, ErrRecipientRequired) {
		t.Fatalf("expected ErrRecipientRequired, got %v", err)
	}
}

func TestSendTooManyRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, "1", "t", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	err = client.Send(context.Background(), "1555", "hi")
	var tm TooManyRequestsError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TooManyRequestsError, got %v", err)
	}
	if tm.RetryAfter != 7*time.Second {
		t.Fatalf("unexpected retry after: %s", tm.RetryAfter)
	}
	if !strings.Contains(tm.Error(), "7s") {
		t.Fatalf("unexpected error text: %s", tm.Error())
	}
}

func TestSendUnexpectedStatusLogsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad recipient"}}`))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	client, err := NewHTTPClient(srv.URL, "1", "t", logger)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if err := client.Send(context.Background(), "1555", "hi"); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(buf.String(), "bad recipient") {
		t.Fatalf("expected response body in log, got %s", buf.String())
	}
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewHTTPClient(url, "1", "t", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if err := client.Send(context.Background(), "1555", "hi"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)))
	if err := sender.Send(context.Background(), "1555", "order received"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "order received") {
		t.Fatalf("expected text in log, got %s", buf.String())
	}
	if err := sender.Send(context.Background(), "", "x"); !errors.Is(err, ErrRecipientRequired) {
		t.Fatalf("expected ErrRecipientRequired, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != 5*time.Second {
		t.Fatalf("expected default 5s, got %s", got)
	}
	if got := parseRetryAfter("3"); got != 3*time.Second {
		t.Fatalf("expected 3s, got %s", got)
	}
	if got := parseRetryAfter("garbage"); got != 5*time.Second {
		t.Fatalf("expected fallback 5s, got %s", got)
	}
	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 || got > time.Minute {
		t.Fatalf("unexpected duration for date header: %s", got)
	}
}
