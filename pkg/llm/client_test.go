package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quillhq/quill/pkg/api"
)

// fakeBackend returns an httptest server that speaks just enough of the
// Chat Completions protocol for the client.
func fakeBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleteHappyPath(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string

	srv := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-1",
			"model": gotReq.Model,
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Hello back"}, "finish_reason": "stop"},
			},
		})
	})

	client := NewClient(srv.URL, "gsk_test", "test-model", time.Second)
	reply, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "Hello"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "Hello back" {
		t.Errorf("reply = %q", reply)
	}
	if gotAuth != "Bearer gsk_test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "test-model" || len(gotReq.Messages) != 1 {
		t.Errorf("request = %+v", gotReq)
	}
	if gotReq.Temperature != defaultTemperature || gotReq.MaxTokens != defaultMaxTokens {
		t.Errorf("sampling params = %v/%v", gotReq.Temperature, gotReq.MaxTokens)
	}
}

func TestCompleteWithoutKeyIsConfigurationError(t *testing.T) {
	client := NewClient("http://localhost:1", "", "m", time.Second)

	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Type != api.ErrorTypeConfiguration {
		t.Fatalf("err = %v, want configuration error", err)
	}
}

func TestCompleteMapsBackendStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, api.CodeUpstreamAuth},
		{"forbidden", http.StatusForbidden, ``, api.CodeUpstreamAuth},
		{"bad model", http.StatusNotFound, `{"error":{"message":"model not found"}}`, api.CodeUpstreamBadRequest},
		{"rate limited", http.StatusTooManyRequests, ``, api.CodeUpstreamBadRequest},
		{"server error", http.StatusInternalServerError, ``, api.CodeUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			client := NewClient(srv.URL, "gsk_test", "m", time.Second)
			_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

			var apiErr *api.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want APIError", err)
			}
			if apiErr.Type != api.ErrorTypeUpstream {
				t.Errorf("Type = %q, want upstream_error", apiErr.Type)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestCompleteBackendMessageSurfaced(t *testing.T) {
	srv := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API Key"}}`))
	})

	client := NewClient(srv.URL, "gsk_bad", "m", time.Second)
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid API Key" {
		t.Errorf("err = %v, want backend message surfaced", err)
	}
}

func TestCompleteNetworkErrorIsUnavailable(t *testing.T) {
	// Port 1 refuses connections.
	client := NewClient("http://127.0.0.1:1", "gsk_test", "m", time.Second)
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != api.CodeUpstreamUnavailable {
		t.Errorf("err = %v, want upstream_unavailable", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := fakeBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"x","choices":[]}`))
	})

	client := NewClient(srv.URL, "gsk_test", "m", time.Second)
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != api.CodeUpstreamUnavailable {
		t.Errorf("err = %v, want upstream_unavailable", err)
	}
}
