package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// anthropicClient speaks the Anthropic Messages API.
type anthropicClient struct {
	baseURL    string
	httpClient *http.Client
}

func (c *anthropicClient) complete(ctx context.Context, apiKey string, req completion) (string, error) {
	body, err := encodeRequest(anthropicRequest{
		Model:     req.model,
		MaxTokens: req.maxTokens,
		System:    req.system,
		Messages:  []anthropicMessage{{Role: "user", Content: req.user}},
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", backendError("failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", backendError("anthropic request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError("anthropic", resp)
	}

	var decoded anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", malformed("failed to decode anthropic response: %v", err)
	}
	if decoded.Error != nil {
		return "", backendError("anthropic error: %s", decoded.Error.Message)
	}

	var text strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", malformed("anthropic response contained no text")
	}
	return text.String(), nil
}
