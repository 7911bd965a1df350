package domain

import "fmt"

// Provider identifies the completion-service routing shape.
type Provider string

const (
	// ProviderOpenAI is the direct-endpoint shape: fixed URL, bearer
	// credential, explicit model selector in the payload.
	ProviderOpenAI Provider = "openai"

	// ProviderAzure is the deployment-routed shape: endpoint, deployment
	// name and api-version baked into the URL, credential in an api-key
	// header, no model in the payload.
	ProviderAzure Provider = "azure"
)

// ValidProviders enumerates the recognized provider kinds.
var ValidProviders = []Provider{ProviderOpenAI, ProviderAzure}

// CompletionConfig is the connection profile for the completion service.
// Assembled once per request from persisted configuration and environment
// overrides; never mutated during a request.
type CompletionConfig struct {
	Provider   Provider `yaml:"provider"`
	APIKey     string   `yaml:"api_key"`
	Model      string   `yaml:"model,omitempty"`
	Endpoint   string   `yaml:"endpoint,omitempty"`
	Deployment string   `yaml:"deployment,omitempty"`
	APIVersion string   `yaml:"api_version,omitempty"`
}

// Configured reports whether the profile carries enough to attempt a
// request at all. Callers treat false as ErrConfigurationMissing.
func (c CompletionConfig) Configured() bool {
	return c.APIKey != ""
}

// Validate checks the profile for a known provider and the fields that
// provider's routing shape requires.
func (c CompletionConfig) Validate() error {
	if !c.Configured() {
		return ErrConfigurationMissing
	}

	switch c.Provider {
	case ProviderOpenAI, "":
		// Model and endpoint both have defaults.
	case ProviderAzure:
		if c.Endpoint == "" {
			return fmt.Errorf("azure provider requires an endpoint")
		}
		if c.Deployment == "" {
			return fmt.Errorf("azure provider requires a deployment name")
		}
	default:
		return fmt.Errorf("unknown provider %q (valid: openai, azure)", c.Provider)
	}

	return nil
}

// Merge overlays non-empty override fields on top of c. Used to apply
// environment-supplied values over persisted configuration.
func (c CompletionConfig) Merge(override CompletionConfig) CompletionConfig {
	out := c
	if override.Provider != "" {
		out.Provider = override.Provider
	}
	if override.APIKey != "" {
		out.APIKey = override.APIKey
	}
	if override.Model != "" {
		out.Model = override.Model
	}
	if override.Endpoint != "" {
		out.Endpoint = override.Endpoint
	}
	if override.Deployment != "" {
		out.Deployment = override.Deployment
	}
	if override.APIVersion != "" {
		out.APIVersion = override.APIVersion
	}
	return out
}
