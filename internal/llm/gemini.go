package llm

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// geminiSeparator joins system and user text; Gemini receives one prompt.
const geminiSeparator = "\n\n---\n\n"

// geminiClient calls Gemini through the genai SDK. A client is built per
// call because the API key can differ between sessions.
type geminiClient struct {
	baseURL    string
	httpClient *http.Client
}

func (c *geminiClient) complete(ctx context.Context, apiKey string, req completion) (string, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", backendError("failed to create gemini client: %v", err)
	}

	prompt := req.system + geminiSeparator + req.user
	resp, err := client.Models.GenerateContent(ctx, req.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.maxTokens),
	})
	if err != nil {
		return "", backendError("gemini request failed: %v", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", malformed("gemini response contained no text")
	}
	return text, nil
}
