package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ashureev/ikigai/internal/wizard"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch {
	case m.state.Step == wizard.StepWelcome:
		body = m.viewWelcome()
	case m.state.Step.IsQuestion():
		body = m.viewQuestion()
	default:
		body = m.viewResult()
	}

	return m.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(m.content.Title),
		m.styles.Tagline.Render(m.content.Tagline),
		body,
		m.styles.Footer.Width(max(m.width-4, 20)).Render(m.content.PrivacyNote),
	))
}

func (m Model) viewWelcome() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Body.Width(max(m.width-4, 20)).Render(m.content.Welcome),
		"",
		m.hint("enter", m.content.StartLabel)+"   "+m.hint("q", "salir"),
	)
}

func (m Model) viewQuestion() string {
	n := int(m.state.Step)
	section, _ := m.content.Section(n)

	var sb strings.Builder
	sb.WriteString(m.progress(n))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Section.Render(section.Title))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Width(max(m.width-4, 20)).Render(section.Description))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")
	if m.state.Err != "" {
		sb.WriteString(m.styles.Error.Render(m.state.Err))
	}
	sb.WriteString("\n")

	var hints []string
	if m.state.Step > wizard.FirstQuestion {
		hints = append(hints, m.hint("esc", m.content.BackLabel))
	}
	nextLabel := m.content.NextLabel
	if m.state.Step == wizard.LastQuestion {
		nextLabel = m.content.DiscoverLabel
	}
	hints = append(hints, m.hint("enter", nextLabel), m.hint("alt+enter", "nueva línea"))
	sb.WriteString(strings.Join(hints, "   "))
	return sb.String()
}

// progress renders "Paso n de 4" with a bar of filled steps.
func (m Model) progress(n int) string {
	total := int(wizard.LastQuestion - wizard.FirstQuestion + 1)
	bar := strings.Repeat("●", n) + strings.Repeat("○", total-n)
	return m.styles.Progress.Render(bar) + " " + m.styles.Step.Render(fmt.Sprintf("Paso %d de %d", n, total))
}

func (m Model) viewResult() string {
	var parts []string

	if m.state.Loading && m.state.Summary == "" {
		parts = append(parts, m.spinner.View()+" "+m.styles.Muted.Render("Generando tu resumen..."))
		if len(m.content.Quotes) > 0 {
			quote := m.content.Quotes[m.state.QuoteIndex%len(m.content.Quotes)]
			parts = append(parts, "", m.styles.Quote.Width(max(m.width-8, 20)).Render(quote))
		}
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	if m.state.CanCopy() {
		parts = append(parts, m.styles.Section.Render(m.content.ResultTitle), "")
	}
	if m.state.Summary != "" {
		parts = append(parts, m.styles.Summary.Render(m.viewport.View()))
	}
	if m.state.Loading {
		parts = append(parts, m.spinner.View())
	}
	if m.state.Err != "" {
		parts = append(parts, "", m.styles.Error.Render(m.state.Err))
	}

	if !m.state.Loading {
		var hints []string
		if m.state.CanCopy() {
			if m.state.Copied {
				hints = append(hints, m.styles.Success.Render(m.content.CopiedLabel))
			} else {
				hints = append(hints, m.hint("c", m.content.CopyLabel))
			}
			hints = append(hints, m.hint("↑/↓", "desplazar"))
		}
		hints = append(hints, m.hint("q", "salir"))
		parts = append(parts, "", strings.Join(hints, "   "))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) hint(k, label string) string {
	return m.styles.Key.Render("["+k+"]") + " " + m.styles.Muted.Render(label)
}
