// Package prompt provides user interaction primitives using charmbracelet/huh.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrCanceled is returned when the user cancels a prompt.
var ErrCanceled = errors.New("canceled by user")

// Prompter abstracts user interaction for testability.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/prompter.go . Prompter
type Prompter interface {
	// Print outputs text to the user.
	Print(message string)

	// Confirm prompts for yes/no confirmation.
	Confirm(title, description string) (bool, error)

	// Secret prompts for secret input (no echo).
	Secret(prompt string) (string, error)
}

// HuhPrompter implements Prompter using charmbracelet/huh forms.
type HuhPrompter struct{}

// New creates a new HuhPrompter for interactive terminal prompts.
func New() *HuhPrompter {
	return &HuhPrompter{}
}

// Print outputs text to the user.
func (p *HuhPrompter) Print(message string) {
	fmt.Println(message)
}

// Confirm prompts for yes/no confirmation.
func (p *HuhPrompter) Confirm(title, description string) (bool, error) {
	var confirmed bool

	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, wrapAbort("confirm prompt", err)
	}

	return confirmed, nil
}

// Secret prompts for secret input with masked display.
func (p *HuhPrompter) Secret(prompt string) (string, error) {
	var value string

	err := huh.NewInput().
		Title(prompt).
		EchoMode(huh.EchoModePassword).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("value required")
			}
			return nil
		}).
		Value(&value).
		Run()
	if err != nil {
		return "", wrapAbort("secret prompt", err)
	}

	return strings.TrimSpace(value), nil
}

func wrapAbort(op string, err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCanceled
	}
	return fmt.Errorf("%s: %w", op, err)
}
