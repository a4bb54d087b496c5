package models

// Provider identifies a hosted model backend family
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderGroq      Provider = "groq"
	ProviderGoogle    Provider = "google"
)

// Valid reports whether p is one of the supported providers
func (p Provider) Valid() bool {
	switch p {
	case ProviderAnthropic, ProviderGroq, ProviderGoogle:
		return true
	}
	return false
}

// EngineDescriptor names one concrete provider model and the credential it needs
type EngineDescriptor struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Provider      Provider `json:"provider" yaml:"provider"`
	ModelID       string   `json:"model_id" yaml:"model_id"`
	CredentialKey string   `json:"credential_key" yaml:"credential_key"`
	Tier          string   `json:"tier,omitempty" yaml:"tier,omitempty"`
}

// SameEngine reports whether two descriptors address the same provider model
func (e EngineDescriptor) SameEngine(other EngineDescriptor) bool {
	return e.Provider == other.Provider && e.ModelID == other.ModelID
}

// EngineInfo is the public view of an engine with its credential status
type EngineInfo struct {
	EngineDescriptor
	Configured bool `json:"configured"`
}
