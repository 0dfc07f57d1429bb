package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ai-sidebar-be/internal/constant"
	"ai-sidebar-be/pkg/llm"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "mistral"
)

// Strategy selects how the prompt is sent to the local server.
type Strategy string

const (
	// StrategyNormal sends the raw prompt to the generate endpoint.
	StrategyNormal Strategy = "normal"
	// StrategySmart wraps the prompt in a chat exchange with the sidebar
	// system preamble.
	StrategySmart Strategy = "smart"
)

type OllamaClient struct {
	baseURL  string
	model    string
	strategy Strategy
	client   *http.Client
}

var _ llm.Client = &OllamaClient{}

func NewOllamaClient(baseURL, model string, strategy Strategy) *OllamaClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if strategy == "" {
		strategy = StrategyNormal
	}
	return &OllamaClient{
		baseURL:  baseURL,
		model:    model,
		strategy: strategy,
		client:   &http.Client{},
	}
}

// --- Wire structs (Ollama generate/chat APIs) ---

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// Answer resolves the prompt against the local server. Non-2xx responses
// carry their body back as a formatted string; no retry is attempted here.
func (o *OllamaClient) Answer(ctx context.Context, prompt string) string {
	var (
		text string
		err  error
	)
	switch o.strategy {
	case StrategySmart:
		text, err = o.chat(ctx, prompt)
	default:
		text, err = o.generate(ctx, prompt)
	}
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return text
}

func (o *OllamaClient) generate(ctx context.Context, prompt string) (string, error) {
	payload := ollamaGenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
	}

	body, status, err := o.post(ctx, "/api/generate", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", statusError(status, body)
	}

	var res ollamaGenerateResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	return res.Response, nil
}

func (o *OllamaClient) chat(ctx context.Context, prompt string) (string, error) {
	payload := ollamaChatRequest{
		Model: o.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: constant.SidebarSystemPromptV1},
			{Role: "user", Content: prompt},
		},
		Stream: false,
	}

	body, status, err := o.post(ctx, "/api/chat", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", statusError(status, body)
	}

	var res ollamaChatResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	return res.Message.Content, nil
}

func (o *OllamaClient) post(ctx context.Context, path string, payload interface{}) ([]byte, int, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+path, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	return bodyBytes, resp.StatusCode, nil
}

func statusError(status int, body []byte) error {
	return fmt.Errorf("%d %s - %s", status, http.StatusText(status), string(body))
}
