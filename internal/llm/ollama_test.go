package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:11434", "llama3.2", "llama3.1:70b")

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}

	if client.baseURL != "http://localhost:11434" {
		t.Errorf("baseURL = %q, want %q", client.baseURL, "http://localhost:11434")
	}

	if client.model != "llama3.2" {
		t.Errorf("model = %q, want %q", client.model, "llama3.2")
	}

	if client.modelHeavy != "llama3.1:70b" {
		t.Errorf("modelHeavy = %q, want %q", client.modelHeavy, "llama3.1:70b")
	}

	if client.httpClient == nil {
		t.Error("httpClient should not be nil")
	}
}

func TestNewClientHeavyDefaultsToModel(t *testing.T) {
	client := NewClient("http://localhost:11434", "llama3.2", "")
	if client.modelHeavy != "llama3.2" {
		t.Errorf("modelHeavy = %q, want %q", client.modelHeavy, "llama3.2")
	}
}

// newTestClient points a client at handler with fast retries
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "light", "heavy")
	c.backoff = time.Millisecond
	return c
}

func TestGenerateText(t *testing.T) {
	var got GenerateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(GenerateResponse{Model: got.Model, Response: "hello", Done: true})
	})

	out, err := c.GenerateText(context.Background(), "say hello", true, &GenerateOption{Temperature: 0.1})
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("GenerateText() = %q, want %q", out, "hello")
	}
	if got.Model != "heavy" {
		t.Errorf("Model = %q, want %q", got.Model, "heavy")
	}
	if got.Stream {
		t.Error("Stream should be false")
	}
	if got.Options == nil || got.Options.Temperature != 0.1 {
		t.Errorf("Options = %+v, want temperature 0.1", got.Options)
	}
}

func TestGenerateTextRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(GenerateResponse{Response: "ok", Done: true})
	})

	out, err := c.GenerateText(context.Background(), "p", false, nil)
	if err != nil {
		t.Fatalf("GenerateText() error = %v", err)
	}
	if out != "ok" || calls.Load() != 3 {
		t.Errorf("GenerateText() = %q after %d calls, want ok after 3", out, calls.Load())
	}
}

func TestGenerateTextGivesUp(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.GenerateText(context.Background(), "p", false, nil)
	if err == nil || !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("GenerateText() error = %v, want retry exhaustion", err)
	}
	if calls.Load() != maxAttempts {
		t.Errorf("calls = %d, want %d", calls.Load(), maxAttempts)
	}
}

func TestGenerateTextStopsOnCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	c.backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GenerateText(ctx, "p", false, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("GenerateText() error = %v, want deadline exceeded", err)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"healthy", http.StatusOK, false},
		{"unhealthy", http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/tags" {
					t.Errorf("path = %q, want /api/tags", r.URL.Path)
				}
				w.WriteHeader(tt.status)
			})
			err := c.HealthCheck(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("HealthCheck() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
