package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// OpenAIClient talks to the OpenAI chat completions API. Structured calls
// request JSON mode so the model is contractually bound to emit one object.
type OpenAIClient struct {
	Endpoint string
	APIKey   string
	Model    string
	// JSONMode asks for response_format json_object on every call.
	JSONMode bool
	client   *http.Client
}

// NewOpenAIClient builds a client for the given key and default model.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		Endpoint: "https://api.openai.com",
		APIKey:   apiKey,
		Model:    model,
		client:   newHTTPClient(),
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message      openAIMessage `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
}

// Complete implements Completer.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string, options *Options) (string, error) {
	messages := make([]openAIMessage, 0, 2)
	if system != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: system})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: user})

	payload := openAIRequest{
		Model:    c.model(options),
		Messages: messages,
	}
	if options != nil {
		if options.Temperature != 0 {
			t := options.Temperature
			payload.Temperature = &t
		}
		if options.MaxTokens != 0 {
			payload.MaxTokens = options.MaxTokens
		}
	}
	if c.JSONMode {
		payload.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", decodeError("openai", resp)
	}
	var decoded openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("openai response contained no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

type openAIModelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ListModels implements ModelLister, filtered to chat models.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"/v1/models", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, decodeError("openai", resp)
	}
	var decoded openAIModelList
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode openai model list: %w", err)
	}
	var models []string
	for _, m := range decoded.Data {
		if strings.HasPrefix(m.ID, "gpt") {
			models = append(models, m.ID)
		}
	}
	sort.Strings(models)
	return models, nil
}

func (c *OpenAIClient) model(options *Options) string {
	if options != nil && options.Model != "" {
		return options.Model
	}
	return c.Model
}
