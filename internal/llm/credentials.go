package llm

import (
	"os"
	"strings"
)

// Resolver finds the credential for a key: session overrides first, then
// the process environment.
type Resolver struct {
	lookupEnv func(string) (string, bool)
}

// NewResolver creates a resolver backed by os.LookupEnv.
func NewResolver() *Resolver {
	return &Resolver{lookupEnv: os.LookupEnv}
}

// Resolve returns the credential for key, if any.
func (r *Resolver) Resolve(key string, overrides map[string]string) (string, bool) {
	if v := strings.TrimSpace(overrides[key]); v != "" {
		return v, true
	}
	if v, ok := r.lookupEnv(key); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v, true
		}
	}
	return "", false
}
