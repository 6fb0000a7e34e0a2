package ui

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// PromptYesNo prompts the user for a yes/no answer.
// In non-interactive mode the default is returned without prompting.
func (u *UI) PromptYesNo(prompt string, defaultYes bool) (bool, error) {
	if u.nonInteractive {
		return defaultYes, nil
	}

	var result bool
	p := &survey.Confirm{
		Message: prompt,
		Default: defaultYes,
	}

	err := survey.AskOne(p, &result)
	return result, err
}

// PromptInput prompts the user for text input.
// In non-interactive mode the default is returned without prompting.
func (u *UI) PromptInput(prompt, defaultValue string) (string, error) {
	if u.nonInteractive {
		return defaultValue, nil
	}

	var result string
	p := &survey.Input{
		Message: prompt,
		Default: defaultValue,
	}

	err := survey.AskOne(p, &result)
	return result, err
}

// PromptSelect prompts the user to select from a list
func (u *UI) PromptSelect(prompt string, options []string) (int, error) {
	if u.nonInteractive {
		return -1, fmt.Errorf("cannot prompt %q in non-interactive mode", prompt)
	}

	var selected string
	p := &survey.Select{
		Message: prompt,
		Options: options,
	}

	if err := survey.AskOne(p, &selected); err != nil {
		return -1, err
	}

	// Find the index of the selected option
	for i, opt := range options {
		if opt == selected {
			return i, nil
		}
	}

	return -1, fmt.Errorf("selected option not found")
}

// PromptMultiSelect prompts the user to select multiple items from a list.
// In non-interactive mode every item is selected.
func (u *UI) PromptMultiSelect(prompt string, options []string) ([]int, error) {
	if u.nonInteractive {
		indices := make([]int, len(options))
		for i := range options {
			indices[i] = i
		}
		return indices, nil
	}

	var selected []string
	p := &survey.MultiSelect{
		Message: prompt,
		Options: options,
		Default: options,
	}

	if err := survey.AskOne(p, &selected); err != nil {
		return nil, err
	}

	selectedMap := make(map[string]bool, len(selected))
	for _, sel := range selected {
		selectedMap[sel] = true
	}

	var indices []int
	for i, opt := range options {
		if selectedMap[opt] {
			indices = append(indices, i)
		}
	}

	return indices, nil
}
