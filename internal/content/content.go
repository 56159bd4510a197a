// Package content provides the user-facing copy of the wizard: section
// prompts, inspiring quotes and fixed messages.
package content

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/ashureev/ikigai/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultYAML []byte

// Section describes one question step of the wizard.
type Section struct {
	Key         domain.Field `yaml:"key" json:"key"`
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description" json:"description"`
}

// Content is the full catalogue of wizard copy.
type Content struct {
	Title             string    `yaml:"title" json:"title"`
	Tagline           string    `yaml:"tagline" json:"tagline"`
	Welcome           string    `yaml:"welcome" json:"welcome"`
	StartLabel        string    `yaml:"start_label" json:"start_label"`
	Placeholder       string    `yaml:"placeholder" json:"placeholder"`
	BackLabel         string    `yaml:"back_label" json:"back_label"`
	NextLabel         string    `yaml:"next_label" json:"next_label"`
	DiscoverLabel     string    `yaml:"discover_label" json:"discover_label"`
	ResultTitle       string    `yaml:"result_title" json:"result_title"`
	CopyLabel         string    `yaml:"copy_label" json:"copy_label"`
	CopiedLabel       string    `yaml:"copied_label" json:"copied_label"`
	ValidationMessage string    `yaml:"validation_message" json:"validation_message"`
	FailureMessage    string    `yaml:"failure_message" json:"failure_message"`
	PrivacyNote       string    `yaml:"privacy_note" json:"privacy_note"`
	Sections          []Section `yaml:"sections" json:"sections"`
	Quotes            []string  `yaml:"quotes" json:"quotes"`
}

var (
	defaultOnce    sync.Once
	defaultContent *Content
	defaultErr     error
)

// Default returns the embedded catalogue. It panics if the embedded file is
// invalid, which can only happen with a broken build.
func Default() *Content {
	defaultOnce.Do(func() {
		defaultContent, defaultErr = Parse(defaultYAML)
	})
	if defaultErr != nil {
		panic("content: invalid embedded catalogue: " + defaultErr.Error())
	}
	return defaultContent
}

// Parse decodes and validates a YAML catalogue.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that there is one section per answer field, in wizard
// order, and at least one quote.
func (c *Content) Validate() error {
	if len(c.Sections) != len(domain.Fields) {
		return fmt.Errorf("content: expected %d sections, got %d", len(domain.Fields), len(c.Sections))
	}
	for i, f := range domain.Fields {
		if c.Sections[i].Key != f {
			return fmt.Errorf("content: section %d must be %q, got %q", i, f, c.Sections[i].Key)
		}
	}
	if len(c.Quotes) == 0 {
		return fmt.Errorf("content: at least one quote is required")
	}
	if c.ValidationMessage == "" || c.FailureMessage == "" {
		return fmt.Errorf("content: validation and failure messages are required")
	}
	return nil
}

// Section returns the section for a 1-based question number.
func (c *Content) Section(question int) (Section, bool) {
	if question < 1 || question > len(c.Sections) {
		return Section{}, false
	}
	return c.Sections[question-1], true
}
