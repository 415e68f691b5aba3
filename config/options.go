// Generation options for a single conversational run.
//
// Validated at construction so that an invalid model name, temperature,
// or answer length fails before any agent or tool is built, never mid-run.

package config

import (
	"fmt"
	"math"
)

// Answer length keys and their token budgets.
const (
	AnswerShort  = "short"
	AnswerMedium = "medium"
	AnswerLong   = "long"
)

var answerLengthTokens = map[string]uint32{
	AnswerShort:  256,
	AnswerMedium: 512,
	AnswerLong:   1024,
}

// OpenAI chat models accepted for the per-run model choice. Other
// providers keep the model they were configured with.
var allowedModels = map[string]bool{
	"gpt-3.5-turbo-16k": true,
	"gpt-4":             true,
}

// Options holds the validated generation options for one run.
type Options struct {
	Model        string
	Temperature  float64
	AnswerLength string
}

// NewOptions validates and normalizes generation options.
// Temperature is rounded to 2 decimals; range [0.0, 2.0].
func NewOptions(model string, temperature float64, answerLength string) (Options, error) {
	if !allowedModels[model] {
		return Options{}, fmt.Errorf("invalid model %q: must be gpt-3.5-turbo-16k or gpt-4", model)
	}

	if temperature < 0.0 || temperature > 2.0 {
		return Options{}, fmt.Errorf("invalid temperature %v: must be in [0.0, 2.0]", temperature)
	}
	temperature = math.Round(temperature*100) / 100

	if _, ok := answerLengthTokens[answerLength]; !ok {
		return Options{}, fmt.Errorf("invalid answer length %q: must be short, medium or long", answerLength)
	}

	return Options{
		Model:        model,
		Temperature:  temperature,
		AnswerLength: answerLength,
	}, nil
}

// DefaultOptions returns the options used when the caller supplies none.
func DefaultOptions() Options {
	return Options{
		Model:        "gpt-3.5-turbo-16k",
		Temperature:  0.4,
		AnswerLength: AnswerMedium,
	}
}

// MaxTokens returns the token budget implied by the answer length.
func (o Options) MaxTokens() uint32 {
	return answerLengthTokens[o.AnswerLength]
}
