// Package wizard implements the reflection wizard as a pure state machine.
//
// All transitions go through Apply, which takes the current State and an
// Event and returns the next State together with the side effect the caller
// must run (persisting the answers or starting a generation). Apply never
// mutates its input.
package wizard

import (
	"github.com/ashureev/ikigai/internal/domain"
)

// Step is the current position in the wizard.
type Step int

const (
	StepWelcome Step = iota
	StepPassion
	StepVocation
	StepMission
	StepProfession
	StepResult
)

// FirstQuestion and LastQuestion bound the question steps.
const (
	FirstQuestion = StepPassion
	LastQuestion  = StepProfession
)

// IsQuestion returns true for the four question steps.
func (s Step) IsQuestion() bool {
	return s >= FirstQuestion && s <= LastQuestion
}

// Field returns the answer field asked at this step.
func (s Step) Field() (domain.Field, bool) {
	if !s.IsQuestion() {
		return "", false
	}
	return domain.Fields[int(s)-int(FirstQuestion)], true
}

// Messages holds the fixed user-facing error texts.
type Messages struct {
	Validation string
	Failure    string
}

// State is the complete wizard state.
type State struct {
	Step       Step
	Answers    domain.AnswerRecord
	Summary    string
	Loading    bool
	Err        string
	Copied     bool
	QuoteIndex int
	QuoteCount int
	Messages   Messages
}

// New creates the initial state with previously saved answers.
func New(answers domain.AnswerRecord, quoteCount int, msgs Messages) State {
	return State{
		Step:       StepWelcome,
		Answers:    answers,
		QuoteCount: quoteCount,
		Messages:   msgs,
	}
}

// Effect is a side effect requested by a transition.
type Effect int

const (
	EffectNone Effect = iota
	// EffectPersist asks the caller to save State.Answers.
	EffectPersist
	// EffectGenerate asks the caller to start streaming a summary for State.Answers.
	EffectGenerate
)

// Event is an input to the state machine.
type Event interface {
	isEvent()
}

type (
	// Start leaves the welcome step.
	Start struct{}
	// Edit replaces the text of one answer.
	Edit struct {
		Field domain.Field
		Value string
	}
	// Next moves forward after validating the current answer.
	Next struct{}
	// Back moves to the previous question.
	Back struct{}
	// ChunkReceived appends streamed summary text.
	ChunkReceived struct{ Text string }
	// GenerationDone marks the end of the stream.
	GenerationDone struct{}
	// GenerationFailed marks a transport failure.
	GenerationFailed struct{ Err error }
	// QuoteTick advances the rotating quote.
	QuoteTick struct{}
	// Copied marks a successful clipboard copy.
	Copied struct{}
	// CopyReset clears the copied indicator.
	CopyReset struct{}
)

func (Start) isEvent()            {}
func (Edit) isEvent()             {}
func (Next) isEvent()             {}
func (Back) isEvent()             {}
func (ChunkReceived) isEvent()    {}
func (GenerationDone) isEvent()   {}
func (GenerationFailed) isEvent() {}
func (QuoteTick) isEvent()        {}
func (Copied) isEvent()           {}
func (CopyReset) isEvent()        {}

// Apply returns the state that follows s after ev.
func Apply(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case Start:
		if s.Step != StepWelcome {
			return s, EffectNone
		}
		s.Err = ""
		s.Step = FirstQuestion
		return s, EffectNone

	case Edit:
		if !s.Step.IsQuestion() {
			return s, EffectNone
		}
		s.Answers = s.Answers.With(ev.Field, ev.Value)
		return s, EffectPersist

	case Next:
		return next(s)

	case Back:
		if !s.Step.IsQuestion() {
			return s, EffectNone
		}
		s.Err = ""
		if s.Step > FirstQuestion {
			s.Step--
		}
		return s, EffectNone

	case ChunkReceived:
		if s.Step != StepResult || !s.Loading {
			return s, EffectNone
		}
		s.Summary += ev.Text
		return s, EffectNone

	case GenerationDone:
		s.Loading = false
		return s, EffectNone

	case GenerationFailed:
		s.Loading = false
		s.Err = s.Messages.Failure
		return s, EffectNone

	case QuoteTick:
		if !s.Loading || s.QuoteCount == 0 {
			return s, EffectNone
		}
		s.QuoteIndex = (s.QuoteIndex + 1) % s.QuoteCount
		return s, EffectNone

	case Copied:
		s.Copied = true
		return s, EffectNone

	case CopyReset:
		s.Copied = false
		return s, EffectNone
	}
	return s, EffectNone
}

func next(s State) (State, Effect) {
	if !s.Step.IsQuestion() {
		return s, EffectNone
	}
	s.Err = ""

	field, _ := s.Step.Field()
	if !s.Answers.IsAnswered(field) {
		s.Err = s.Messages.Validation
		return s, EffectNone
	}

	if s.Step < LastQuestion {
		s.Step++
		return s, EffectNone
	}

	s.Step = StepResult
	s.Loading = true
	s.Summary = ""
	s.Err = ""
	return s, EffectGenerate
}

// CanCopy reports whether the finished summary may be copied.
func (s State) CanCopy() bool {
	return !s.Loading && s.Summary != ""
}
