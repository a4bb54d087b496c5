package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Failure taxonomy. Every error returned by this package wraps exactly one
// of these.
var (
	// ErrCredentialMissing means no credential resolved for the engine.
	ErrCredentialMissing = errors.New("credential missing")
	// ErrBackend covers transport, authentication, quota and server failures.
	ErrBackend = errors.New("backend error")
	// ErrMalformedResponse means the provider answered but the body was unusable.
	ErrMalformedResponse = errors.New("malformed response")
)

// maxErrorBody bounds how much of an error body is echoed into messages.
const maxErrorBody = 512

func backendError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBackend, fmt.Sprintf(format, args...))
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// encodeRequest marshals a provider request body.
func encodeRequest(v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, backendError("failed to marshal request: %v", err)
	}
	return body, nil
}

// statusError turns a non-2xx response into a backend error.
func statusError(provider string, resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return backendError("%s returned status %d (failed to read body: %v)", provider, resp.StatusCode, err)
	}
	return backendError("%s returned status %d: %s", provider, resp.StatusCode, string(body))
}
