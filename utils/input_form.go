package utils

import (
	"context"
	"strings"

	"github.com/ocscaffold/ocscaffold/app_errors"
)

// Form chains prompts. The first dismissed prompt, empty required answer or error
// stops the chain; later steps become no-ops and Values reports why.
type Form struct {
	ctx      context.Context
	prompter Prompter
	values   map[string]string
	err      error
}

func NewForm(ctx context.Context, prompter Prompter) *Form {
	return &Form{ctx: ctx, prompter: prompter, values: map[string]string{}}
}

// Required asks for a value that must not be empty.
func (f *Form) Required(p TextPrompt) *Form {
	return f.text(p, true)
}

// Optional asks for a value that may be empty. Dismissing the prompt still aborts.
func (f *Form) Optional(p TextPrompt) *Form {
	return f.text(p, false)
}

func (f *Form) text(p TextPrompt, required bool) *Form {
	if f.err != nil {
		return f
	}
	value, ok, err := f.prompter.Text(f.ctx, p)
	if err != nil {
		f.err = err
		return f
	}
	if !ok || (required && strings.TrimSpace(value) == "") {
		f.err = app_errors.ErrUserCancelled
		return f
	}
	f.values[p.Key] = value
	return f
}

// Choose asks to pick one option.
func (f *Form) Choose(p SelectPrompt) *Form {
	if f.err != nil {
		return f
	}
	value, ok, err := f.prompter.Select(f.ctx, p)
	if err != nil {
		f.err = err
		return f
	}
	if !ok || value == "" {
		f.err = app_errors.ErrUserCancelled
		return f
	}
	f.values[p.Key] = value
	return f
}

func (f *Form) Values() (map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.values, nil
}
