package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestHTTPClientGenerateSendsChatRequest(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hola"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/v1/", "sk-test", "test-model", zap.NewNop())
	out, err := c.Generate(context.Background(), CompletionRequest{
		System:      "sistema",
		Prompt:      "usuario",
		Temperature: 0.3,
		MaxTokens:   50,
		Schema:      map[string]any{"type": "object"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != "hola" {
		t.Fatalf("expected hola, got %q", out)
	}
	if got.Model != "test-model" || got.MaxTokens != 50 || got.Temperature != 0.3 {
		t.Fatalf("unexpected request: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "usuario" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Fatalf("expected json_object response format, got %+v", got.ResponseFormat)
	}
}

func TestHTTPClientGenerateOmitsEmptySystem(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "k", "m", nil)
	if _, err := c.Generate(context.Background(), CompletionRequest{Prompt: "p"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Fatalf("expected single user message, got %+v", got.Messages)
	}
	if got.ResponseFormat != nil {
		t.Fatalf("expected no response format")
	}
}

func TestHTTPClientGenerateErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom"}}`, wantErr: "status=500"},
		{name: "api error", status: http.StatusOK, body: `{"error":{"message":"quota"}}`, wantErr: "quota"},
		{name: "empty choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: "empty response"},
		{name: "malformed body", status: http.StatusOK, body: `not json`, wantErr: "unmarshal response"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL, "k", "m", zap.NewNop())
			_, err := c.Generate(context.Background(), CompletionRequest{Prompt: "p"})
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestHTTPClientGenerateHonorsContextTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewHTTPClient(srv.URL, "k", "m", zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.Generate(ctx, CompletionRequest{Prompt: "p"}); err == nil {
		t.Fatalf("expected timeout error")
	}
}
