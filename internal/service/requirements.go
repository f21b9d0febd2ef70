package service

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed requirements.yaml
var defaultRequirements []byte

// LanguageRequirements maps a lowercase language name to the static
// requirement strings every generated task for that language must carry.
type LanguageRequirements map[string][]string

// LoadLanguageRequirements parses a YAML requirement table.
func LoadLanguageRequirements(data []byte) (LanguageRequirements, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse language requirements: %w", err)
	}
	out := make(LanguageRequirements, len(raw))
	for lang, reqs := range raw {
		out[strings.ToLower(lang)] = reqs
	}
	return out, nil
}

// DefaultLanguageRequirements returns the embedded table.
func DefaultLanguageRequirements() LanguageRequirements {
	reqs, err := LoadLanguageRequirements(defaultRequirements)
	if err != nil {
		panic(err)
	}
	return reqs
}

// For returns the requirements for languages in order. Unknown languages
// contribute nothing.
func (r LanguageRequirements) For(languages []string) []string {
	var out []string
	for _, l := range languages {
		out = append(out, r[strings.ToLower(l)]...)
	}
	return out
}
