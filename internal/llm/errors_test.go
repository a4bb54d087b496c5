package llm

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRequest(t *testing.T) {
	body, err := encodeRequest(chatRequest{Model: "m", MaxTokens: 10})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"model":"m"`)

	_, err = encodeRequest(map[string]interface{}{"bad": make(chan int)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackend)
	assert.Contains(t, err.Error(), "failed to marshal request")
}

func TestStatusError(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Body:       io.NopCloser(strings.NewReader(strings.Repeat("x", maxErrorBody*2))),
	}

	err := statusError("groq", resp)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackend)
	assert.Contains(t, err.Error(), "groq returned status 429")
	assert.Less(t, len(err.Error()), maxErrorBody+100)
}
