// Package tui is the terminal presentation of the Ikigai wizard.
package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/ashureev/ikigai/internal/content"
	"github.com/ashureev/ikigai/internal/domain"
	"github.com/ashureev/ikigai/internal/htmltext"
	"github.com/ashureev/ikigai/internal/rotator"
	"github.com/ashureev/ikigai/internal/store"
	"github.com/ashureev/ikigai/internal/stream"
	"github.com/ashureev/ikigai/internal/wizard"
)

const answerCharLimit = 4000

// Options configures a Model.
type Options struct {
	Content  *content.Content
	Consumer stream.Consumer
	// Store may be nil, in which case answers are not persisted.
	Store         store.KV
	QuoteInterval time.Duration
	// MarkdownStyle names the glamour style for the finished summary:
	// "auto", a standard style such as "dark" or "notty", or a JSON style
	// path. Empty keeps plain text.
	MarkdownStyle string
}

// Model drives the wizard state machine from terminal input.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	state    wizard.State
	content  *content.Content
	consumer stream.Consumer
	persist  *persister

	input    textarea.Model
	spinner  spinner.Model
	viewport viewport.Model
	styles   Styles

	markdownStyle string
	renderer      *glamour.TermRenderer
	rendererWidth int

	gen           *generation
	quotes        *quotes
	quoteInterval time.Duration
	editSeq       int
	copySeq       int

	width, height int
	quitting      bool
}

// New builds the model, restoring saved answers from opts.Store.
func New(ctx context.Context, opts Options) Model {
	c := opts.Content
	if c == nil {
		c = content.Default()
	}
	ctx, cancel := context.WithCancel(ctx)

	var answers domain.AnswerRecord
	if opts.Store != nil {
		answers = store.LoadAnswers(ctx, opts.Store)
	}

	ta := textarea.New()
	ta.Placeholder = c.Placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = answerCharLimit
	ta.SetHeight(5)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	styles := DefaultStyles()
	sp.Style = styles.Spinner

	interval := opts.QuoteInterval
	if interval <= 0 {
		interval = rotator.DefaultInterval
	}

	return Model{
		ctx:    ctx,
		cancel: cancel,
		state: wizard.New(answers, len(c.Quotes), wizard.Messages{
			Validation: c.ValidationMessage,
			Failure:    c.FailureMessage,
		}),
		content:       c,
		consumer:      opts.Consumer,
		persist:       &persister{kv: opts.Store},
		input:         ta,
		spinner:       sp,
		viewport:      viewport.New(80, 12),
		styles:        styles,
		quoteInterval: interval,
		markdownStyle: opts.MarkdownStyle,
		width:         80,
		height:        24,
	}
}

// State exposes the wizard state.
func (m Model) State() wizard.State { return m.state }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case chunkMsg:
		if m.gen == nil {
			return m, nil
		}
		m = m.apply(wizard.ChunkReceived{Text: msg.text})
		m.refreshSummary()
		return m, m.gen.pull()

	case streamDoneMsg:
		m = m.finishGeneration()
		m = m.apply(wizard.GenerationDone{})
		m.refreshSummary()
		return m, nil

	case streamErrMsg:
		slog.Error("Summary stream failed", "error", msg.err)
		m = m.finishGeneration()
		m = m.apply(wizard.GenerationFailed{Err: msg.err})
		m.refreshSummary()
		return m, nil

	case quoteTickMsg:
		m = m.apply(wizard.QuoteTick{})
		if m.quotes != nil {
			return m, m.quotes.wait()
		}
		return m, nil

	case copyResetMsg:
		if msg.seq == m.copySeq {
			m = m.apply(wizard.CopyReset{})
		}
		return m, nil

	case persistedMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state.Step.IsQuestion() {
		return m.updateInput(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch {
	case m.state.Step == wizard.StepWelcome:
		switch msg.String() {
		case "enter", " ":
			m = m.apply(wizard.Start{})
			cmd := m.syncInput()
			return m, cmd
		case "q", "esc":
			return m.quit()
		}
		return m, nil

	case m.state.Step.IsQuestion():
		switch msg.String() {
		case "enter", "tab":
			return m.next()
		case "esc", "shift+tab":
			m = m.apply(wizard.Back{})
			cmd := m.syncInput()
			return m, cmd
		}
		return m.updateInput(msg)

	default:
		switch msg.String() {
		case "c", "y":
			return m.copySummary()
		case "q", "esc":
			if !m.state.Loading {
				return m.quit()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if after := m.input.Value(); after != before {
		field, _ := m.state.Step.Field()
		var effect wizard.Effect
		m.state, effect = wizard.Apply(m.state, wizard.Edit{Field: field, Value: after})
		if effect == wizard.EffectPersist {
			m.editSeq++
			return m, tea.Batch(cmd, m.persist.save(m.ctx, m.editSeq, m.state.Answers))
		}
	}
	return m, cmd
}

func (m Model) next() (tea.Model, tea.Cmd) {
	var effect wizard.Effect
	m.state, effect = wizard.Apply(m.state, wizard.Next{})
	if effect != wizard.EffectGenerate {
		cmd := m.syncInput()
		return m, cmd
	}

	m.input.Blur()
	m.refreshSummary()
	m.gen = startGeneration(m.consumer.Stream(m.ctx, m.state.Answers))
	cmds := []tea.Cmd{m.gen.pull(), m.spinner.Tick}
	if m.state.QuoteCount > 1 {
		m.quotes = startQuotes(m.ctx, m.state.QuoteCount, m.quoteInterval)
		cmds = append(cmds, m.quotes.wait())
	}
	return m, tea.Batch(cmds...)
}

// finishGeneration releases the stream and stops the quote rotation.
func (m Model) finishGeneration() Model {
	if m.gen != nil {
		m.gen.stop()
		m.gen = nil
	}
	if m.quotes != nil {
		m.quotes.stop()
		m.quotes = nil
	}
	return m
}

func (m Model) copySummary() (tea.Model, tea.Cmd) {
	if !m.state.CanCopy() {
		return m, nil
	}
	if err := clipboardWriteAll(htmltext.PlainText(m.state.Summary)); err != nil {
		slog.Warn("Failed to copy summary", "error", err)
		return m, nil
	}
	m = m.apply(wizard.Copied{})
	m.copySeq++
	return m, copyResetAfter(m.copySeq)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	// Cancelling unblocks a pending read; the stream goroutine is left
	// to the process exit because next and stop must not run concurrently.
	if m.quotes != nil {
		m.quotes.stop()
		m.quotes = nil
	}
	m.cancel()
	return m, tea.Quit
}

func (m Model) apply(ev wizard.Event) Model {
	m.state, _ = wizard.Apply(m.state, ev)
	return m
}

// syncInput loads the current question's saved answer into the editor.
func (m *Model) syncInput() tea.Cmd {
	field, ok := m.state.Step.Field()
	if !ok {
		m.input.Blur()
		return nil
	}
	m.input.SetValue(m.state.Answers.Get(field))
	return m.input.Focus()
}

func (m *Model) setSize(width, height int) {
	m.width, m.height = width, height
	inner := width - 6
	if inner < 20 {
		inner = 20
	}
	m.input.SetWidth(inner)
	m.viewport.Width = inner
	vh := height - 12
	if vh < 5 {
		vh = 5
	}
	m.viewport.Height = vh
	m.refreshSummary()
}

func (m *Model) refreshSummary() {
	if !m.state.Loading && m.state.Summary != "" {
		if out, ok := m.renderMarkdown(); ok {
			m.viewport.SetContent(out)
			return
		}
	}
	text := htmltext.PlainText(m.state.Summary)
	m.viewport.SetContent(m.styles.Body.Width(m.viewport.Width).Render(text))
	if m.state.Loading {
		m.viewport.GotoBottom()
	}
}

// renderMarkdown styles the finished summary with glamour. The renderer is
// rebuilt when the viewport width changes.
func (m *Model) renderMarkdown() (string, bool) {
	if m.markdownStyle == "" {
		return "", false
	}
	if m.renderer == nil || m.rendererWidth != m.viewport.Width {
		style := glamour.WithStylePath(m.markdownStyle)
		if m.markdownStyle == "auto" {
			style = glamour.WithAutoStyle()
		}
		r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(m.viewport.Width))
		if err != nil {
			slog.Warn("markdown renderer unavailable", "style", m.markdownStyle, "error", err)
			m.markdownStyle = ""
			return "", false
		}
		m.renderer, m.rendererWidth = r, m.viewport.Width
	}

	out, err := m.renderer.Render(htmltext.Markdown(m.state.Summary))
	if err != nil {
		slog.Warn("markdown render failed", "error", err)
		return "", false
	}
	return strings.TrimRight(out, "\n"), true
}
