package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	ProviderHTTP = "http"
	ProviderSDK  = "sdk"
)

// NewClient elige el proveedor configurado. Sin apiKey devuelve (nil, nil): el llamador trabaja en modo local.
func NewClient(provider, baseURL, apiKey, model string, logger *zap.Logger) (LLMClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, nil
	}
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderHTTP:
		return NewHTTPClient(baseURL, apiKey, model, logger), nil
	case ProviderSDK:
		return NewSDKClient(baseURL, apiKey, model, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

// SupportsSchema indica si el proveedor entiende salida json_schema estricta.
func SupportsSchema(provider string) bool {
	return strings.EqualFold(strings.TrimSpace(provider), ProviderSDK)
}
