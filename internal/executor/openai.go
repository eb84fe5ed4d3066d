package executor

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIExecutor runs inputs through the OpenAI chat completion API.
//
// Recognized config keys: model (string), system_prompt (string),
// temperature (number), top_p (number), max_tokens (integer). Unknown keys
// are ignored so executor configs can carry metric-only parameters.
type OpenAIExecutor struct {
	client *openai.Client
}

// NewOpenAIExecutor creates an executor backed by the given API key.
func NewOpenAIExecutor(apiKey string) *OpenAIExecutor {
	return &OpenAIExecutor{client: openai.NewClient(apiKey)}
}

// NewOpenAIExecutorFromEnv creates an executor from the OPENAI_API_KEY
// environment variable.
func NewOpenAIExecutorFromEnv() (*OpenAIExecutor, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return NewOpenAIExecutor(apiKey), nil
}

// NewOpenAIExecutorWithConfig creates an executor with a custom client
// configuration (base URL, org, HTTP client). Used for proxies and tests.
func NewOpenAIExecutorWithConfig(cfg openai.ClientConfig) *OpenAIExecutor {
	return &OpenAIExecutor{client: openai.NewClientWithConfig(cfg)}
}

// Execute implements Executor. The input must be textual; the output is the
// assistant message content as a string.
func (e *OpenAIExecutor) Execute(ctx context.Context, input any, config map[string]any) (any, error) {
	prompt, err := promptFrom(input)
	if err != nil {
		return nil, NewExecutionError("openai", "invalid input", err)
	}

	req, err := e.buildRequest(prompt, config)
	if err != nil {
		return nil, NewExecutionError("openai", "invalid config", err)
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, NewExecutionError("openai", "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, NewExecutionError("openai", "no choices returned", nil)
	}

	return resp.Choices[0].Message.Content, nil
}

func (e *OpenAIExecutor) buildRequest(prompt string, config map[string]any) (openai.ChatCompletionRequest, error) {
	var req openai.ChatCompletionRequest

	model, err := stringValue(config, "model", defaultOpenAIModel)
	if err != nil {
		return req, err
	}
	system, err := stringValue(config, "system_prompt", "")
	if err != nil {
		return req, err
	}
	temperature, err := floatValue(config, "temperature", 0)
	if err != nil {
		return req, err
	}
	topP, err := floatValue(config, "top_p", 0)
	if err != nil {
		return req, err
	}
	maxTokens, err := intValue(config, "max_tokens", 0)
	if err != nil {
		return req, err
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	req = openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(temperature),
		TopP:        float32(topP),
		MaxTokens:   maxTokens,
	}
	return req, nil
}
