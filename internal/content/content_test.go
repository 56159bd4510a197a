package content

import (
	"strings"
	"testing"

	"github.com/ashureev/ikigai/internal/domain"
)

func TestDefaultCatalogue(t *testing.T) {
	c := Default()

	if len(c.Quotes) != 6 {
		t.Errorf("Expected 6 quotes, got %d", len(c.Quotes))
	}
	s, ok := c.Section(4)
	if !ok || s.Key != domain.FieldProfession {
		t.Errorf("Expected question 4 to be profession, got %+v", s)
	}
	if _, ok := c.Section(5); ok {
		t.Error("Expected no section for question 5")
	}
}

func TestParseRejectsSectionOrder(t *testing.T) {
	yaml := `
validation_message: v
failure_message: f
quotes: [q]
sections:
  - key: vocation
  - key: passion
  - key: mission
  - key: profession
`
	_, err := Parse([]byte(yaml))
	if err == nil || !strings.Contains(err.Error(), "section 0") {
		t.Fatalf("Expected section order error, got %v", err)
	}
}

func TestParseRequiresQuotes(t *testing.T) {
	yaml := `
validation_message: v
failure_message: f
sections:
  - key: passion
  - key: vocation
  - key: mission
  - key: profession
`
	if _, err := Parse([]byte(yaml)); err == nil {
		t.Fatal("Expected missing quotes error")
	}
}
