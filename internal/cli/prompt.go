// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// A prompter asks a person questions.
type prompter interface {
	Select(message string, options []string) (string, error)
	Input(message string) (string, error)
	Confirm(message string) (bool, error)
}

// surveyPrompter asks questions on the terminal.
type surveyPrompter struct{}

func (surveyPrompter) Select(message string, options []string) (string, error) {
	var answer string
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	err := survey.AskOne(prompt, &answer)
	return answer, err
}

func (surveyPrompter) Input(message string) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
	}
	err := survey.AskOne(prompt, &answer, survey.WithValidator(func(val interface{}) error {
		if str, ok := val.(string); !ok || strings.TrimSpace(str) == "" {
			return fmt.Errorf("please enter some text")
		}
		return nil
	}))
	return strings.TrimSpace(answer), err
}

func (surveyPrompter) Confirm(message string) (bool, error) {
	var answer bool
	prompt := &survey.Confirm{
		Message: message,
		Default: true,
	}
	err := survey.AskOne(prompt, &answer)
	return answer, err
}
