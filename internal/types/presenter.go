package types

import (
	"context"
	"fmt"

	"github.com/juju/errors"
)

var (
	ErrCancelled    = errors.New("cancelled by user")
	ErrInvalidInput = errors.New("invalid input")
)

type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	}
	return fmt.Sprintf("Severity(%d)", uint8(s))
}

type ChoiceKind uint8

const (
	ChoiceInvalid ChoiceKind = iota
	ChoiceProduct
	ChoiceCheckBalance
	ChoiceExit
)

// Choice is result of product selection.
// Index is meaningful only with Kind=ChoiceProduct.
type Choice struct {
	Kind  ChoiceKind
	Index int
}

func ChoiceProductIndex(i int) Choice { return Choice{Kind: ChoiceProduct, Index: i} }

func (c Choice) String() string {
	switch c.Kind {
	case ChoiceProduct:
		return fmt.Sprintf("product(%d)", c.Index)
	case ChoiceCheckBalance:
		return "check-balance"
	case ChoiceExit:
		return "exit"
	}
	return "invalid"
}

// Prompter methods block until user responds.
// Returned error is ErrCancelled when user dismissed the prompt,
// ErrInvalidInput when answer could not be understood,
// anything else is presentation failure (e.g. io.EOF).
type Prompter interface {
	RequestNumber(ctx context.Context, prompt string) (int, error)
	// options are product names, presenter adds exit and check balance actions itself
	RequestChoice(ctx context.Context, prompt string, options []string) (Choice, error)
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, title, message string, severity Severity)
}

type Presenter interface {
	Prompter
	Notifier
}
