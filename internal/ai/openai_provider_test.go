package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOpenAIServer(t *testing.T, content string) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		requests = append(requests, body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  body["model"],
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150},
		})
	})
	mux.HandleFunc("GET /v1/models/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       r.PathValue("id"),
			"object":   "model",
			"owned_by": "groq",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &requests
}

func TestOpenAIProviderExtractKeywords(t *testing.T) {
	srv, requests := newTestOpenAIServer(t, `{"keywords": ["Go", "gRPC"], "skills": ["Go"]}`)

	cfg := testConfig()
	cfg.AI.BaseURL = srv.URL + "/v1"
	rec := &fakeRecorder{}
	p := NewOpenAIProvider(cfg, nil, discardLogger(), rec)

	got, err := p.ExtractKeywords(context.Background(), "Backend role using Go and gRPC")
	if err != nil {
		t.Fatalf("ExtractKeywords() error = %v", err)
	}
	if len(got.Keywords) != 2 || got.Keywords[1] != "gRPC" {
		t.Errorf("Keywords = %q", got.Keywords)
	}

	if len(*requests) != 1 {
		t.Fatalf("server saw %d requests, want 1", len(*requests))
	}
	req := (*requests)[0]
	if req["model"] != "test-model" {
		t.Errorf("model = %v, want test-model", req["model"])
	}
	format, _ := req["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", req["response_format"])
	}
	messages, _ := req["messages"].([]any)
	if len(messages) != 2 {
		t.Errorf("messages = %d, want system and user", len(messages))
	}

	if len(rec.ops) != 1 || rec.ops[0].usage == nil || rec.ops[0].usage.InputTokens != 120 {
		t.Errorf("recorded = %+v", rec.ops)
	}
}

func TestOpenAIProviderGetModelInfo(t *testing.T) {
	srv, _ := newTestOpenAIServer(t, `{}`)

	cfg := testConfig()
	cfg.AI.BaseURL = srv.URL + "/v1"
	p := NewOpenAIProvider(cfg, nil, discardLogger(), nil)

	info := p.GetModelInfo(context.Background())
	if !info.Available {
		t.Fatalf("model should be available, error: %s", info.Error)
	}
	if info.Name != "test-model" || info.Version != "groq" {
		t.Errorf("info = %+v", info)
	}
}

func TestOpenAIProviderUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.AI.BaseURL = srv.URL + "/v1"
	p := NewOpenAIProvider(cfg, nil, discardLogger(), nil)

	if _, err := p.GenerateCoverLetter(context.Background(), "r", "j", "professional"); err == nil {
		t.Fatal("expected an error for a 401 reply")
	}
	if info := p.GetModelInfo(context.Background()); info.Available || info.Error == "" {
		t.Errorf("info = %+v, want unavailable with error", info)
	}
}
