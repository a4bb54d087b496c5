package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// groqTemperature matches the sampling used for every chat-completion call.
const groqTemperature = 0.3

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// groqClient speaks the OpenAI-compatible chat completions API.
type groqClient struct {
	baseURL    string
	httpClient *http.Client
}

func (c *groqClient) complete(ctx context.Context, apiKey string, req completion) (string, error) {
	body, err := encodeRequest(chatRequest{
		Model: req.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.system},
			{Role: "user", Content: req.user},
		},
		MaxTokens:   req.maxTokens,
		Temperature: groqTemperature,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", backendError("failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", backendError("groq request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError("groq", resp)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", malformed("failed to decode groq response: %v", err)
	}
	if decoded.Error != nil {
		return "", backendError("groq error: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return "", malformed("groq response contained no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}
