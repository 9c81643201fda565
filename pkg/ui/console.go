package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// ReadSelection prompts the user to select from a list of options using huh.
// labels, when non-nil, gives the display text for each option.
func ReadSelection(options []string, labels map[string]string, title string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options provided")
	}

	var selected string

	huhOptions := make([]huh.Option[string], len(options))
	for i, opt := range options {
		label := opt
		if l, ok := labels[opt]; ok {
			label = l
		}
		huhOptions[i] = huh.NewOption(label, opt)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(huhOptions...).
				Value(&selected),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}
	return selected, nil
}

// ReadInput prompts for a single line. Secret input is masked.
func ReadInput(title, placeholder string, secret bool) (string, error) {
	var value string
	input := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)
	if secret {
		input = input.EchoMode(huh.EchoModePassword)
	}

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", err
	}
	return value, nil
}

// Confirm asks a yes/no question.
func Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Value(&ok),
	)).Run()
	return ok, err
}
