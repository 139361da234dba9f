// Package lexicon holds the keyword tables that drive feature extraction.
// The defaults are embedded; deployments may override them with a YAML file.
package lexicon

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultYAML []byte

// Topic is a named keyword list. Topic order is preserved from the source file.
type Topic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type Lexicon struct {
	FirstPerson         []string `yaml:"first_person"`
	Positive            []string `yaml:"positive"`
	Negative            []string `yaml:"negative"`
	Swear               []string `yaml:"swear"`
	Game                []string `yaml:"game"`
	Emoticons           []string `yaml:"emoticons"`
	EmoticonPlaceholder string   `yaml:"emoticon_placeholder"`
	Topics              []Topic  `yaml:"topics"`
}

// Default returns the embedded tables. It panics if the embedded file is
// invalid, which can only happen at build time.
func Default() *Lexicon {
	lx, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded lexicon: %v", err))
	}
	return lx
}

// Load reads an override file. An empty path yields the defaults.
func Load(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML lexicon data.
func Parse(data []byte) (*Lexicon, error) {
	var lx Lexicon
	if err := yaml.Unmarshal(data, &lx); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	if err := lx.Validate(); err != nil {
		return nil, err
	}
	return &lx, nil
}

// Validate rejects tables that would make extraction meaningless.
func (lx *Lexicon) Validate() error {
	if len(lx.Emoticons) == 0 {
		return errors.New("lexicon: emoticons must not be empty")
	}
	seen := make(map[string]bool, len(lx.Topics))
	for _, name := range lx.TopicNames() {
		if name == "" {
			return errors.New("lexicon: topic without name")
		}
		if seen[name] {
			return fmt.Errorf("lexicon: duplicate topic %q", name)
		}
		seen[name] = true
	}
	lists := map[string][]string{
		"first_person": lx.FirstPerson,
		"positive":     lx.Positive,
		"negative":     lx.Negative,
		"swear":        lx.Swear,
		"game":         lx.Game,
		"emoticons":    lx.Emoticons,
	}
	for name, words := range lists {
		for _, w := range words {
			if w == "" {
				return fmt.Errorf("lexicon: empty keyword in %s", name)
			}
		}
	}
	for _, t := range lx.Topics {
		for _, w := range t.Keywords {
			if w == "" {
				return fmt.Errorf("lexicon: empty keyword in topic %s", t.Name)
			}
		}
	}
	return nil
}

// TopicNames returns topic names in table order.
func (lx *Lexicon) TopicNames() []string {
	names := make([]string, len(lx.Topics))
	for i, t := range lx.Topics {
		names[i] = t.Name
	}
	return names
}

// ContainsAny reports whether text contains any of the patterns as a substring.
func ContainsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

