package prompt

import (
	"strings"
	"testing"

	"github.com/ashureev/ikigai/internal/domain"
)

func TestBuildEmbedsAnswersVerbatim(t *testing.T) {
	rec := domain.AnswerRecord{
		Passion:    "reading <b>books</b>",
		Vocation:   "writing",
		Mission:    "helping others",
		Profession: "teaching",
	}
	p := Build(rec)

	for _, want := range []string{"<p>reading <b>books</b></p>", "<p>writing</p>", "<p>helping others</p>", "<p>teaching</p>"} {
		if !strings.Contains(p.User, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}

	passion := strings.Index(p.User, "Mi Pasión")
	profession := strings.Index(p.User, "Mi Profesión")
	if passion < 0 || profession < passion {
		t.Errorf("Expected sections in wizard order, got passion=%d profession=%d", passion, profession)
	}
}

func TestBuildSystemInstructionForbidsMarkdown(t *testing.T) {
	p := Build(domain.AnswerRecord{})
	if !strings.Contains(p.System, "No uses markdown") {
		t.Errorf("Unexpected system instruction: %q", p.System)
	}
	if !strings.Contains(p.User, "Tu Ikigai Potencial") {
		t.Error("Expected closing section name in prompt")
	}
}
