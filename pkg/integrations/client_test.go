package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
)

func TestNewClient(t *testing.T) {
	headers := map[string]string{"User-Agent": "test/1.0"}
	client := NewClient(headers, time.Second)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Fatal("NewClient() http client is nil")
	}
	if client.http.Timeout != time.Second {
		t.Errorf("timeout = %v, want %v", client.http.Timeout, time.Second)
	}
	if client.headers["User-Agent"] != "test/1.0" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewClientDefaultTimeout(t *testing.T) {
	client := NewClient(nil, 0)
	if client.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.http.Timeout, DefaultTimeout)
	}
	if client.headers != nil {
		t.Error("NewClient() should allow nil headers")
	}
}

func TestClientGetText(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		userAgent = r.Header.Get("User-Agent")
		w.Write([]byte("plain text response"))
	}))
	defer server.Close()

	client := NewClient(map[string]string{"User-Agent": "cargoquery-test"}, time.Second)
	client.http = server.Client()

	text, err := client.GetText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetText() error: %v", err)
	}
	if text != "plain text response" {
		t.Errorf("GetText() = %q, want %q", text, "plain text response")
	}
	if userAgent != "cargoquery-test" {
		t.Errorf("User-Agent = %q, want %q", userAgent, "cargoquery-test")
	}
}

func TestClientGetText404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(nil, time.Second)
	client.http = server.Client()

	_, err := client.GetText(context.Background(), server.URL)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetText() error = %v, want ErrNotFound", err)
	}
	if !errs.Is(err, errs.ErrCodeRequest) {
		t.Errorf("GetText() code = %v, want %v", errs.GetCode(err), errs.ErrCodeRequest)
	}
}

func TestClientGetText500(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(nil, time.Second)
	client.http = server.Client()

	_, err := client.GetText(context.Background(), server.URL)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("GetText() error = %v, want ErrNetwork", err)
	}
	if !errs.Is(err, errs.ErrCodeRequest) {
		t.Errorf("GetText() code = %v, want %v", errs.GetCode(err), errs.ErrCodeRequest)
	}
}

func TestClientGetTextConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(nil, time.Second)
	_, err := client.GetText(context.Background(), url)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("GetText() error = %v, want ErrNetwork", err)
	}
}

func TestClientGetTextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(nil, time.Second)
	client.http = server.Client()

	if _, err := client.GetText(ctx, server.URL); err == nil {
		t.Error("GetText() should fail with a canceled context")
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"https://index.crates.io", "se/rd/serde", "https://index.crates.io/se/rd/serde"},
		{"https://index.crates.io/", "se/rd/serde", "https://index.crates.io/se/rd/serde"},
		{"http://localhost:8080/index//", "/1/a", "http://localhost:8080/index/1/a"},
	}

	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
