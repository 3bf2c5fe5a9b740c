package types

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/juju/errors"
)

type MockKind uint8

const (
	MockNumber MockKind = iota + 1
	MockChoice
	MockConfirm
)

func (k MockKind) String() string {
	switch k {
	case MockNumber:
		return "number"
	case MockChoice:
		return "choice"
	case MockConfirm:
		return "confirm"
	}
	return fmt.Sprintf("MockKind(%d)", uint8(k))
}

// MockStep is one scripted answer.
type MockStep struct {
	Kind   MockKind
	Number int
	Choice Choice
	Yes    bool
	Err    error
}

func MockNum(n int) MockStep        { return MockStep{Kind: MockNumber, Number: n} }
func MockNumErr(err error) MockStep { return MockStep{Kind: MockNumber, Err: err} }
func MockPick(index int) MockStep {
	return MockStep{Kind: MockChoice, Choice: ChoiceProductIndex(index)}
}
func MockBalance() MockStep {
	return MockStep{Kind: MockChoice, Choice: Choice{Kind: ChoiceCheckBalance}}
}
func MockExit() MockStep                  { return MockStep{Kind: MockChoice, Choice: Choice{Kind: ChoiceExit}} }
func MockConfirmAnswer(yes bool) MockStep { return MockStep{Kind: MockConfirm, Yes: yes} }

type MockNote struct {
	Title    string
	Message  string
	Severity Severity
}

func (n MockNote) String() string { return fmt.Sprintf("%s[%s] %s", n.Severity, n.Title, n.Message) }

// MockPresenter replays scripted answers and records everything shown to user.
// Script exhaustion returns io.EOF.
type MockPresenter struct {
	mu      sync.Mutex
	script  []MockStep
	Prompts []string
	Notes   []MockNote
}

var _ Presenter = &MockPresenter{} // compile-time interface test

func NewMockPresenter(script ...MockStep) *MockPresenter {
	return &MockPresenter{script: script}
}

func (self *MockPresenter) Remaining() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return len(self.script)
}

func (self *MockPresenter) next(kind MockKind, prompt string) (MockStep, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.Prompts = append(self.Prompts, prompt)
	if len(self.script) == 0 {
		return MockStep{}, io.EOF
	}
	step := self.script[0]
	self.script = self.script[1:]
	if step.Kind != kind {
		return step, errors.Errorf("mock presenter expected=%s actual=%s prompt='%s'", step.Kind, kind, prompt)
	}
	return step, nil
}

func (self *MockPresenter) RequestNumber(ctx context.Context, prompt string) (int, error) {
	step, err := self.next(MockNumber, prompt)
	if err != nil {
		return 0, err
	}
	return step.Number, step.Err
}

func (self *MockPresenter) RequestChoice(ctx context.Context, prompt string, options []string) (Choice, error) {
	step, err := self.next(MockChoice, prompt)
	if err != nil {
		return Choice{}, err
	}
	return step.Choice, step.Err
}

func (self *MockPresenter) Confirm(ctx context.Context, prompt string) (bool, error) {
	step, err := self.next(MockConfirm, prompt)
	if err != nil {
		return false, err
	}
	return step.Yes, step.Err
}

func (self *MockPresenter) Notify(ctx context.Context, title, message string, severity Severity) {
	self.mu.Lock()
	self.Notes = append(self.Notes, MockNote{Title: title, Message: message, Severity: severity})
	self.mu.Unlock()
}

// Titles returns notification titles in order, handy for assertions.
func (self *MockPresenter) Titles() []string {
	self.mu.Lock()
	defer self.mu.Unlock()
	ts := make([]string, len(self.Notes))
	for i, n := range self.Notes {
		ts[i] = n.Title
	}
	return ts
}

func (self *MockPresenter) Transcript() string {
	self.mu.Lock()
	defer self.mu.Unlock()
	ss := make([]string, len(self.Notes))
	for i, n := range self.Notes {
		ss[i] = n.String()
	}
	return strings.Join(ss, "\n")
}
