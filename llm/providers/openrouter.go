// Package providers implements LLM provider adapters.
package providers

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/robin-app/ideation/llm"
)

// OpenRouterProvider implements the OpenRouter API (OpenAI-compatible wire
// format with bearer auth and optional attribution headers).
type OpenRouterProvider struct {
	OllamaProvider // Embed for shared request/response format
}

func init() {
	llm.RegisterProvider(&OpenRouterProvider{})
}

// Name returns the provider identifier.
func (o *OpenRouterProvider) Name() string {
	return "openrouter"
}

// Ready fails when no API key is configured so callers can surface the
// missing credential before attempting a network call.
func (o *OpenRouterProvider) Ready() error {
	if apiKey := os.Getenv("OPENROUTER_API_KEY"); apiKey == "" {
		return fmt.Errorf("OpenRouter API key is required")
	}
	return nil
}

// BuildURL constructs the OpenRouter chat completions endpoint.
func (o *OpenRouterProvider) BuildURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}

	return baseURL + "/chat/completions"
}

// SetHeaders adds OpenRouter authentication and attribution headers.
func (o *OpenRouterProvider) SetHeaders(req *http.Request) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	if siteURL := os.Getenv("OPENROUTER_SITE_URL"); siteURL != "" {
		req.Header.Set("HTTP-Referer", siteURL)
	}
	if siteName := os.Getenv("OPENROUTER_SITE_NAME"); siteName != "" {
		req.Header.Set("X-Title", siteName)
	}
}
