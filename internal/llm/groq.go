package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const groqAPI = "https://api.groq.com/openai/v1/chat/completions"

// Groq calls the Groq chat completions API (OpenAI-compatible).
type Groq struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGroq creates a new Groq API client.
func NewGroq(apiKey, model string) *Groq {
	return &Groq{
		apiKey:  apiKey,
		model:   model,
		baseURL: groqAPI,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Complete sends a prompt to the Groq API.
func (g *Groq) Complete(ctx context.Context, prompt, system string) (*Response, error) {
	messages := []map[string]string{}
	if system != "" {
		messages = append(messages, map[string]string{"role": "system", "content": system})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt})

	reqBody := map[string]any{
		"model":       g.model,
		"messages":    messages,
		"max_tokens":  512,
		"temperature": 0.7,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("groq api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("groq api status %d: %s", resp.StatusCode, respBody)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	text := ""
	if len(result.Choices) > 0 {
		text = result.Choices[0].Message.Content
	}

	return &Response{
		Content:    text,
		Provider:   "groq",
		TokensUsed: result.Usage.TotalTokens,
	}, nil
}
