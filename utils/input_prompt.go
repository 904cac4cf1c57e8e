package utils

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ocscaffold/ocscaffold/constants/lipgloss"
	"github.com/pterm/pterm"
)

// TextPrompt asks for a free-form value.
type TextPrompt struct {
	Key         string
	Message     string
	Placeholder string
	Default     string
}

// SelectPrompt asks to pick one of Options.
type SelectPrompt struct {
	Key     string
	Message string
	Options []string
}

// ConfirmPrompt asks a yes/no question. Confirm and Reject label the two answers.
type ConfirmPrompt struct {
	Key     string
	Message string
	Confirm string
	Reject  string
}

// Prompter collects answers from the user. ok is false when the prompt was
// dismissed; callers stop asking as soon as that happens.
type Prompter interface {
	Text(ctx context.Context, p TextPrompt) (value string, ok bool, err error)
	Select(ctx context.Context, p SelectPrompt) (value string, ok bool, err error)
	Confirm(ctx context.Context, p ConfirmPrompt) (value bool, ok bool, err error)
}

// PtermPrompter asks on the terminal with pterm's interactive printers.
type PtermPrompter struct{}

func NewPtermPrompter() *PtermPrompter {
	return &PtermPrompter{}
}

func (p *PtermPrompter) Text(ctx context.Context, prompt TextPrompt) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	message := prompt.Message
	if prompt.Placeholder != "" {
		message = fmt.Sprintf("%s (%s)", message, prompt.Placeholder)
	}
	if prompt.Default != "" {
		message = fmt.Sprintf("%s [%s]", message, prompt.Default)
	}

	interrupted := false
	value, err := pterm.DefaultInteractiveTextInput.
		WithOnInterruptFunc(func() { interrupted = true }).
		Show(message)
	if interrupted {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read input: %w", err)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		value = prompt.Default
	}
	return value, true, nil
}

func (p *PtermPrompter) Select(ctx context.Context, prompt SelectPrompt) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	interrupted := false
	value, err := pterm.DefaultInteractiveSelect.
		WithOptions(prompt.Options).
		WithOnInterruptFunc(func() { interrupted = true }).
		Show(prompt.Message)
	if interrupted {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read selection: %w", err)
	}
	return value, true, nil
}

func (p *PtermPrompter) Confirm(ctx context.Context, prompt ConfirmPrompt) (bool, bool, error) {
	if err := ctx.Err(); err != nil {
		return false, false, err
	}

	printer := pterm.DefaultInteractiveConfirm
	if prompt.Confirm != "" {
		printer = *printer.WithConfirmText(prompt.Confirm)
	}
	if prompt.Reject != "" {
		printer = *printer.WithRejectText(prompt.Reject)
	}

	interrupted := false
	value, err := printer.
		WithOnInterruptFunc(func() { interrupted = true }).
		Show(prompt.Message)
	if interrupted {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	return value, true, nil
}

// PresetPrompter answers from a fixed set of values keyed by prompt key, such as
// values passed on the command line. Anything not preset is asked through Fallback;
// with no Fallback a missing answer counts as dismissed.
type PresetPrompter struct {
	Answers  map[string]string
	Fallback Prompter
}

func (p *PresetPrompter) lookup(key string) (string, bool) {
	if p.Answers == nil {
		return "", false
	}
	value, ok := p.Answers[key]
	return value, ok
}

func (p *PresetPrompter) Text(ctx context.Context, prompt TextPrompt) (string, bool, error) {
	if value, ok := p.lookup(prompt.Key); ok {
		return value, true, nil
	}
	if p.Fallback == nil {
		return "", false, nil
	}
	return p.Fallback.Text(ctx, prompt)
}

func (p *PresetPrompter) Select(ctx context.Context, prompt SelectPrompt) (string, bool, error) {
	if value, ok := p.lookup(prompt.Key); ok {
		for _, option := range prompt.Options {
			if strings.EqualFold(option, value) {
				return option, true, nil
			}
		}
		return "", false, fmt.Errorf("invalid value %q for %s, expected one of: %s", value, prompt.Key, strings.Join(prompt.Options, ", "))
	}
	if p.Fallback == nil {
		return "", false, nil
	}
	return p.Fallback.Select(ctx, prompt)
}

func (p *PresetPrompter) Confirm(ctx context.Context, prompt ConfirmPrompt) (bool, bool, error) {
	if value, ok := p.lookup(prompt.Key); ok {
		switch strings.ToLower(value) {
		case "y", "yes", "true", "1", strings.ToLower(prompt.Confirm):
			return true, true, nil
		default:
			return false, true, nil
		}
	}
	if p.Fallback == nil {
		return false, false, nil
	}
	return p.Fallback.Confirm(ctx, prompt)
}

// LineReader reads lines for the chat loop from one goroutine per session. A line
// is only read when asked for, so nothing is consumed once the chat is done, and a
// line that arrives after a cancelled wait is handed to the next ReadLine.
// It is not safe for concurrent use.
type LineReader struct {
	reader   *bufio.Reader
	requests chan struct{}
	results  chan lineResult
	done     chan struct{}
	once     sync.Once
	pending  bool
	err      error
}

type lineResult struct {
	line string
	err  error
}

func NewLineReader(r io.Reader) *LineReader {
	reader, ok := r.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(r)
	}
	lr := &LineReader{
		reader:   reader,
		requests: make(chan struct{}, 1),
		results:  make(chan lineResult),
		done:     make(chan struct{}),
	}
	go lr.run()
	return lr
}

func (lr *LineReader) run() {
	for {
		select {
		case <-lr.done:
			return
		case <-lr.requests:
		}

		line, err := lr.reader.ReadString('\n')
		select {
		case lr.results <- lineResult{line: line, err: err}:
		case <-lr.done:
			return
		}
		if err != nil {
			return
		}
	}
}

// ReadLine returns the next trimmed line. The last line is returned even without a
// trailing newline; after it every call returns io.EOF.
func (lr *LineReader) ReadLine(ctx context.Context) (string, error) {
	if lr.err != nil {
		return "", lr.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if !lr.pending {
		lr.requests <- struct{}{}
		lr.pending = true
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-lr.results:
		lr.pending = false
		if result.err != nil {
			if errors.Is(result.err, io.EOF) {
				lr.err = io.EOF
			} else {
				lr.err = fmt.Errorf("error reading input: %w", result.err)
			}
			if result.line != "" {
				return strings.TrimSpace(result.line), nil
			}
			return "", lr.err
		}
		return strings.TrimSpace(result.line), nil
	}
}

// Close stops the reader goroutine. A read already blocked on the input ends when
// that read returns.
func (lr *LineReader) Close() {
	lr.once.Do(func() { close(lr.done) })
}

// InputPromptWithContext prints the chat prompt and reads one line with context cancellation support
func InputPromptWithContext(ctx context.Context, lines *LineReader) (string, error) {
	fmt.Print(lipgloss.BlueSky.Render("> "))

	userInput, err := lines.ReadLine(ctx)
	if err != nil && ctx.Err() != nil {
		fmt.Println() // newline for a clean exit
	}
	return userInput, err
}
