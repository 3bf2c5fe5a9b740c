// Package console presents juice machine on a terminal or a line oriented pipe.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/temoto/juicebox/internal/types"
	"github.com/temoto/juicebox/log2"
)

const (
	OptionExit    = "Exit"
	OptionBalance = "Check Balance"
)

type Console struct {
	log *log2.Log
	out io.Writer

	// terminal mode, nil in pipe mode
	ttyIn  *os.File
	ttyOut *os.File

	lines *bufio.Reader
}

var _ types.Presenter = &Console{} // compile-time interface test

// New chooses terminal mode when both in and out are terminals, otherwise reads one line per request.
func New(log *log2.Log, in io.Reader, out io.Writer) *Console {
	self := &Console{log: log, out: out}
	fin, okin := in.(*os.File)
	fout, okout := out.(*os.File)
	if okin && okout && isTerminal(fin) && isTerminal(fout) {
		self.ttyIn, self.ttyOut = fin, fout
	} else {
		self.lines = bufio.NewReader(in)
	}
	log.Debugf("console terminal=%t", self.Terminal())
	return self
}

func NewStdio(log *log2.Log) *Console { return New(log, os.Stdin, os.Stdout) }

func (self *Console) Terminal() bool { return self.ttyIn != nil }

func (self *Console) RequestNumber(ctx context.Context, text string) (int, error) {
	var line string
	if self.Terminal() {
		fmt.Fprintln(self.out, text)
		suggests := numberSuggestions(text)
		line = prompt.Input("> ", func(d prompt.Document) []prompt.Suggest {
			return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
		}, prompt.OptionPrefixTextColor(prompt.Yellow))
	} else {
		var err error
		if line, err = self.readLine(ctx, text); err != nil {
			return 0, err
		}
	}
	return parseNumber(line)
}

func (self *Console) RequestChoice(ctx context.Context, text string, options []string) (types.Choice, error) {
	items := make([]string, 0, len(options)+2)
	items = append(items, options...)
	items = append(items, OptionExit, OptionBalance)

	if self.Terminal() {
		sel := promptui.Select{
			Label:  text,
			Items:  items,
			Size:   len(items),
			Stdin:  self.ttyIn,
			Stdout: self.ttyOut,
		}
		idx, _, err := sel.Run()
		if err != nil {
			return types.Choice{}, promptError(err)
		}
		return choiceFromIndex(idx, len(options)), nil
	}

	var b strings.Builder
	b.WriteString(text)
	for i, item := range items {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, item)
	}
	line, err := self.readLine(ctx, b.String())
	if err != nil {
		return types.Choice{}, err
	}
	return parseChoice(line, options)
}

func (self *Console) Confirm(ctx context.Context, text string) (bool, error) {
	if self.Terminal() {
		p := promptui.Prompt{
			Label:     text,
			IsConfirm: true,
			Stdin:     self.ttyIn,
			Stdout:    self.ttyOut,
		}
		if _, err := p.Run(); err != nil {
			if errors.Cause(err) == promptui.ErrAbort {
				return false, nil
			}
			return false, promptError(err)
		}
		return true, nil
	}

	line, err := self.readLine(ctx, text+" [y/N]")
	if err != nil {
		if errors.Cause(err) == types.ErrCancelled {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, errors.Annotatef(types.ErrInvalidInput, "confirm answer='%s'", line)
}

func (self *Console) Notify(ctx context.Context, title, message string, severity types.Severity) {
	prefix := ""
	switch severity {
	case types.SeverityWarning:
		prefix = "warning: "
	case types.SeverityError:
		prefix = "error: "
	}
	fmt.Fprintf(self.out, "%s[%s] %s\n", prefix, title, message)
}

// readLine prints text and returns trimmed next line.
// Empty line is ErrCancelled, end of input is io.EOF.
func (self *Console) readLine(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(self.out, "%s\n> ", text)
	line, err := self.lines.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		fmt.Fprintln(self.out)
		if err == io.EOF {
			return "", io.EOF
		}
		return "", errors.Annotate(err, "console read")
	}
	line = strings.TrimSpace(line)
	self.log.Debugf("console input='%s'", line)
	if line == "" {
		return "", types.ErrCancelled
	}
	return line, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func promptError(err error) error {
	switch errors.Cause(err) {
	case promptui.ErrInterrupt, promptui.ErrEOF:
		return types.ErrCancelled
	}
	return errors.Annotate(err, "console prompt")
}

func parseNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, types.ErrCancelled
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errors.Annotatef(types.ErrInvalidInput, "number='%s'", s)
	}
	return int(n), nil
}

// choiceFromIndex maps zero based position in products+Exit+Balance list.
func choiceFromIndex(idx, products int) types.Choice {
	switch idx {
	case products:
		return types.Choice{Kind: types.ChoiceExit}
	case products + 1:
		return types.Choice{Kind: types.ChoiceCheckBalance}
	}
	return types.ChoiceProductIndex(idx)
}

// parseChoice accepts option number (1 based) or option name.
// Unknown numbers are passed as product index, caller validates range.
func parseChoice(line string, options []string) (types.Choice, error) {
	if n, err := strconv.Atoi(line); err == nil {
		return choiceFromIndex(n-1, len(options)), nil
	}
	switch {
	case strings.EqualFold(line, OptionExit):
		return types.Choice{Kind: types.ChoiceExit}, nil
	case strings.EqualFold(line, OptionBalance), strings.EqualFold(line, "balance"):
		return types.Choice{Kind: types.ChoiceCheckBalance}, nil
	}
	for i, o := range options {
		if strings.EqualFold(line, o) {
			return types.ChoiceProductIndex(i), nil
		}
	}
	return types.Choice{}, errors.Annotatef(types.ErrInvalidInput, "choice='%s'", line)
}

var reNumber = regexp.MustCompile(`\d+`)

// numberSuggestions offers numbers mentioned in prompt text, e.g. amount still due.
func numberSuggestions(text string) []prompt.Suggest {
	found := reNumber.FindAllString(text, -1)
	ss := make([]prompt.Suggest, 0, len(found))
	for _, s := range found {
		ss = append(ss, prompt.Suggest{Text: s})
	}
	return ss
}
