package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaExecutor runs inputs through a local Ollama instance via its REST
// API (/api/chat, non-streaming).
//
// Recognized config keys: model (string, required), system_prompt (string),
// options (mapping passed through to Ollama, e.g. temperature, num_predict).
type OllamaExecutor struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewOllamaExecutor returns an executor pointing at the default Ollama
// address. Per-run timeouts come from the caller's context; the client
// timeout is a backstop for runs issued without one.
func NewOllamaExecutor() *OllamaExecutor {
	return &OllamaExecutor{
		BaseURL: defaultOllamaBaseURL,
		HTTPClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// ollamaChatRequest is the JSON body sent to /api/chat.
type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  map[string]any      `json:"options,omitempty"`
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ollamaChatResponse is the JSON body returned by /api/chat (non-streaming).
type ollamaChatResponse struct {
	Model   string            `json:"model"`
	Message ollamaChatMessage `json:"message"`
}

// Execute implements Executor. The input must be textual; the output is the
// assistant message content as a string.
func (e *OllamaExecutor) Execute(ctx context.Context, input any, config map[string]any) (any, error) {
	prompt, err := promptFrom(input)
	if err != nil {
		return nil, NewExecutionError("ollama", "invalid input", err)
	}

	model, err := stringValue(config, "model", "")
	if err != nil {
		return nil, NewExecutionError("ollama", "invalid config", err)
	}
	if model == "" {
		return nil, NewExecutionError("ollama", "config key \"model\" is required", nil)
	}
	system, err := stringValue(config, "system_prompt", "")
	if err != nil {
		return nil, NewExecutionError("ollama", "invalid config", err)
	}
	options, err := mapValue(config, "options")
	if err != nil {
		return nil, NewExecutionError("ollama", "invalid config", err)
	}

	msgs := make([]ollamaChatMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, ollamaChatMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, ollamaChatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(ollamaChatRequest{
		Model:    model,
		Messages: msgs,
		Stream:   false,
		Options:  options,
	})
	if err != nil {
		return nil, NewExecutionError("ollama", "marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, NewExecutionError("ollama", "create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, NewExecutionError("ollama", "request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewExecutionError("ollama", "read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewExecutionError("ollama",
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, NewExecutionError("ollama", "decode response", err)
	}

	return chatResp.Message.Content, nil
}
