package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/smartshop-assistant/agent/contract"
)

//go:embed template/system.txt
var systemRaw string

// PromptSet holds loaded prompt content.
type PromptSet struct {
	System string
}

// LoadPromptSet returns the embedded prompts, trimmed.
func LoadPromptSet() PromptSet {
	return PromptSet{
		System: strings.TrimSpace(systemRaw),
	}
}

// SystemPrompt returns override when it is set, the embedded prompt otherwise.
func SystemPrompt(override string) (string, error) {
	if p := strings.TrimSpace(override); p != "" {
		return p, nil
	}
	p := LoadPromptSet().System
	if p == "" {
		return "", fmt.Errorf("%w: system", contractx.ErrPromptMissing)
	}
	return p, nil
}
