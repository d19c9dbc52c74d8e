package rest

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edgex-Tech/edgex-sdk-go/starkex"
)

const testPrivateKey = "04a266bc1e005725a278034bc4ab0f3075a7110a47d390b0b1b7841cabac0c4d"

func testSigner(t *testing.T) *starkex.Signer {
	t.Helper()
	s, err := starkex.NewSigner(testPrivateKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://pro.edgex.exchange", 12345, nil)

		if c.baseURL != "https://pro.edgex.exchange" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://pro.edgex.exchange")
		}
		if c.AccountID() != 12345 {
			t.Errorf("AccountID() = %d, want %d", c.AccountID(), 12345)
		}
		if c.AccountIDString() != "12345" {
			t.Errorf("AccountIDString() = %q, want %q", c.AccountIDString(), "12345")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want %d", c.maxRetries, 3)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with options", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		hc := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://pro.edgex.exchange", 1, nil,
			WithTimeout(15*time.Second),
			WithRetries(5, 500*time.Millisecond),
			WithLogger(logger),
		)
		if c.httpClient.Timeout != 15*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 15*time.Second)
		}
		if c.maxRetries != 5 || c.retryBackoff != 500*time.Millisecond {
			t.Errorf("retries = (%d, %v), want (5, 500ms)", c.maxRetries, c.retryBackoff)
		}
		if c.logger != logger {
			t.Error("logger not set correctly")
		}

		c = NewClient("https://pro.edgex.exchange", 1, nil, WithHTTPClient(hc))
		if c.httpClient != hc {
			t.Error("custom HTTP client not set")
		}
	})

	t.Run("random client IDs are unique", func(t *testing.T) {
		c := NewClient("https://pro.edgex.exchange", 1, nil)
		if c.RandomClientID() == c.RandomClientID() {
			t.Error("RandomClientID returned duplicates")
		}
	})
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "Not Found"}
	if err.Error() != "edgex api error 404: Not Found" {
		t.Errorf("Error() = %q", err.Error())
	}

	tests := []struct {
		code     int
		expected bool
	}{
		{500, true},
		{503, true},
		{429, true},
		{400, false},
		{401, false},
		{404, false},
	}
	for _, tt := range tests {
		err := &APIError{StatusCode: tt.code}
		if got := err.IsRetryable(); got != tt.expected {
			t.Errorf("IsRetryable() for status %d = %v, want %v", tt.code, got, tt.expected)
		}
	}
}

func TestAuthHeaders(t *testing.T) {
	t.Run("private path is signed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(HeaderTimestamp) == "" {
				t.Error("timestamp header missing")
			}
			sig := r.Header.Get(HeaderSignature)
			if len(sig) != 128 {
				t.Errorf("signature length = %d, want 128", len(sig))
			}
			w.Write([]byte(`{"code":"SUCCESS","data":{}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, 1, testSigner(t))
		if err := c.Get(context.Background(), "/api/v1/private/account/getAccountAsset", nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("public path is not signed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(HeaderSignature) != "" {
				t.Error("public request should not carry a signature")
			}
			w.Write([]byte(`{"code":"SUCCESS","data":{}}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, 1, testSigner(t))
		if err := c.Get(context.Background(), "/api/v1/public/meta/getServerTime", nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestGetRetries(t *testing.T) {
	t.Run("retries on 5xx then succeeds", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"code":"SUCCESS"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, 1, nil, WithRetries(3, 10*time.Millisecond))
		if err := c.Get(context.Background(), "/api/v1/public/meta/getMetaData", nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls.Load() != 3 {
			t.Errorf("calls = %d, want 3", calls.Load())
		}
	})

	t.Run("no retry on 4xx", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		c := NewClient(server.URL, 1, nil, WithRetries(3, 10*time.Millisecond))
		err := c.Get(context.Background(), "/api/v1/public/meta/getMetaData", nil, nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
	})

	t.Run("context cancellation stops retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		c := NewClient(server.URL, 1, nil, WithRetries(10, time.Second))
		if err := c.Get(ctx, "/api/v1/public/meta/getMetaData", nil, nil); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestBusinessError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"INVALID_CONTRACT_ID","data":null}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 1, nil)
	err := c.Get(context.Background(), "/api/v1/public/quote/getTicker", nil, nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	bizErr, ok := err.(*BusinessError)
	if !ok {
		t.Fatalf("expected *BusinessError, got %T", err)
	}
	if bizErr.Code != "INVALID_CONTRACT_ID" {
		t.Errorf("Code = %q, want %q", bizErr.Code, "INVALID_CONTRACT_ID")
	}
	if !strings.Contains(err.Error(), "INVALID_CONTRACT_ID") {
		t.Errorf("Error() = %q should contain the code", err.Error())
	}
}

func TestPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Write([]byte(`{"code":"SUCCESS","data":{"orderId":"123"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 1, testSigner(t))

	var resp struct {
		Data struct {
			OrderID string `json:"orderId"`
		} `json:"data"`
	}
	err := c.Post(context.Background(), "/api/v1/private/order/createOrder", map[string]any{
		"accountId": "1",
	}, &resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.OrderID != "123" {
		t.Errorf("OrderID = %q, want %q", resp.Data.OrderID, "123")
	}
}

func TestParamString(t *testing.T) {
	got := paramString(map[string]any{
		"size":       "0.01",
		"accountId":  "42",
		"reduceOnly": false,
		"orderIds":   []string{"a", "b"},
	})
	want := "accountId=42&orderIds=a,b&reduceOnly=false&size=0.01"
	if got != want {
		t.Errorf("paramString = %q, want %q", got, want)
	}
}

func TestQueryEncoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("contractId") != "10000001" {
			t.Errorf("contractId = %q", r.URL.Query().Get("contractId"))
		}
		w.Write([]byte(`{"code":"SUCCESS"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 1, nil)
	query := url.Values{}
	query.Set("contractId", "10000001")
	if err := c.Get(context.Background(), "/api/v1/public/quote/getTicker", query, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
