package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
	openrouterx "github.com/tanpawarit/smartshop-assistant/pkg/openrouter"
)

const (
	DriverEino = "eino"
	DriverSDK  = "sdk"
)

type Config struct {
	BaseURL            string        `split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `split_words:"true" required:"true"`
	Model              string        `split_words:"true" required:"true"`
	MaxCompletionToken int           `split_words:"true" default:"2000"`
	Temperature        float32       `split_words:"true" default:"0.3"`
	Timeout            time.Duration `split_words:"true" default:"30s"`
	MaxRetries         int           `split_words:"true" default:"2"`
	ExcludeReasoning   bool          `split_words:"true"`
	SiteURL            string        `split_words:"true"`
	SiteName           string        `split_words:"true"`

	// Driver selects the client the chat model is built on: "eino" uses the
	// eino-ext OpenAI model, "sdk" talks to openai-go directly.
	Driver string `split_words:"true" default:"eino"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: temperature must be within [0, 2], got %v", contractx.ErrValidation, c.Temperature)
	}
	switch c.driver() {
	case DriverEino, DriverSDK:
	default:
		return fmt.Errorf("%w: unknown llm driver %q", contractx.ErrValidation, c.Driver)
	}
	return nil
}

func (c Config) driver() string {
	d := strings.ToLower(strings.TrimSpace(c.Driver))
	if d == "" {
		return DriverEino
	}
	return d
}

func (c Config) OpenRouter() openrouterx.Config {
	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              strings.TrimSpace(c.Model),
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        c.Temperature,
		Timeout:            c.Timeout,
		MaxRetries:         c.MaxRetries,
		ExcludeReasoning:   c.ExcludeReasoning,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
