package executor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaExecutorExecute(t *testing.T) {
	var gotReq ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("request path = %q, want /api/chat", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Model:   gotReq.Model,
			Message: ollamaChatMessage{Role: "assistant", Content: "pong"},
		})
	}))
	defer server.Close()

	exec := NewOllamaExecutor()
	exec.BaseURL = server.URL

	config := map[string]any{
		"model":         "llama3",
		"system_prompt": "You are terse.",
		"options":       map[string]any{"temperature": 0.2},
	}

	out, err := exec.Execute(context.Background(), "ping", config)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "pong" {
		t.Errorf("output = %v, want pong", out)
	}

	if gotReq.Model != "llama3" {
		t.Errorf("request model = %q, want llama3", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 {
		t.Fatalf("message count = %d, want 2", len(gotReq.Messages))
	}
	if gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Content != "ping" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
	if gotReq.Stream {
		t.Error("request should be non-streaming")
	}
}

func TestOllamaExecutorMissingModel(t *testing.T) {
	exec := NewOllamaExecutor()

	_, err := exec.Execute(context.Background(), "ping", map[string]any{})
	if err == nil {
		t.Fatal("Execute() without model should return error")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error type = %T, want *ExecutionError", err)
	}
	if execErr.Executor != "ollama" {
		t.Errorf("Executor = %q, want ollama", execErr.Executor)
	}
}

func TestOllamaExecutorBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	exec := NewOllamaExecutor()
	exec.BaseURL = server.URL

	_, err := exec.Execute(context.Background(), "ping", map[string]any{"model": "nope"})
	if err == nil {
		t.Fatal("Execute() against failing backend should return error")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error type = %T, want *ExecutionError", err)
	}
}

func TestOllamaExecutorContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	exec := NewOllamaExecutor()
	exec.BaseURL = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := exec.Execute(ctx, "ping", map[string]any{"model": "llama3"}); err == nil {
		t.Error("Execute() with cancelled context should return error")
	}
}
