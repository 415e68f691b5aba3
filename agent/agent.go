// ReAct (Reason + Act) loop implementation.
//
// All agent execution goes through this module.
//
// Information Hiding:
// - Loop internals and step accounting hidden
// - Prompt accumulation across iterations hidden
// - Tool execution coordination hidden

package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/tools"
)

// fallbackAnswer is returned when the step budget runs out without a
// final answer.
const fallbackAnswer = "I was not able to find a complete answer to your question. Try rephrasing it, or narrow it down to specific documents."

// Agent executes questions using the ReAct pattern over a toolbox.
type Agent struct {
	config Config
	client *llm.Client
	logger *slog.Logger
}

// New creates a new agent with the given configuration and provider.
func New(config Config, provider llm.Provider) *Agent {
	return &Agent{
		config: config,
		client: llm.NewClient(provider),
		logger: slog.Default().With("agent", config.Name),
	}
}

// WithLogger overrides the default logger.
func (a *Agent) WithLogger(logger *slog.Logger) *Agent {
	a.logger = logger.With("agent", a.config.Name)
	return a
}

// Name returns the agent's name.
func (a *Agent) Name() string {
	return a.config.Name
}

// Run executes the loop for one question. The params carry retrieval
// settings that are pruned per tool before each invocation.
//
// Run returns an error only for configuration or transport failures.
// A model that never reaches a final answer yields the fallback answer
// with Exhausted set, not an error.
func (a *Agent) Run(ctx context.Context, question string, params tools.RunParams) (Result, error) {
	if err := a.config.Validate(); err != nil {
		return Result{}, err
	}

	messages := []llm.ChatMessage{
		llm.SystemMessage(a.config.systemPrompt()),
		llm.UserMessage("Question: " + question),
	}

	opts := a.stopOptions()
	var transcript strings.Builder
	maxSteps := a.config.maxSteps()

	for step := 1; step <= maxSteps; step++ {
		output, err := a.client.ChatWithOptions(ctx, messages, opts)
		if err != nil {
			return Result{}, fmt.Errorf("agent step %d: %w", step, err)
		}

		action := ParseAction(output)
		switch action.Kind {
		case ActionFinal:
			a.logger.Debug("final answer", "steps", step)
			transcript.WriteString(renderFinal(action))
			return Result{
				Answer:     action.Answer,
				Transcript: transcript.String(),
				Steps:      step,
			}, nil

		case ActionTool:
			observation := a.observe(ctx, action, params)
			s := Step{
				Thought:     action.Thought,
				Tool:        action.Tool,
				Input:       action.Input,
				Observation: observation,
			}
			transcript.WriteString(s.Render())
			messages = append(messages,
				llm.AssistantMessage(output),
				llm.UserMessage(markerObservation+" "+observation),
			)

		default:
			// Feed the format error back; models usually recover.
			a.logger.Debug("unparseable output", "step", step)
			correction := "Your last output did not follow the format. Continue with a Thought and either a Tool or a Final Answer."
			s := Step{Thought: action.Thought, Observation: correction}
			transcript.WriteString(s.Render())
			messages = append(messages,
				llm.AssistantMessage(output),
				llm.UserMessage(correction),
			)
		}
	}

	a.logger.Warn("step budget exhausted", "max_steps", maxSteps)
	return Result{
		Answer:     fallbackAnswer,
		Transcript: transcript.String(),
		Steps:      maxSteps,
		Exhausted:  true,
	}, nil
}

// observe runs the requested tool and turns any failure into an
// observation the model can react to.
func (a *Agent) observe(ctx context.Context, action Action, params tools.RunParams) string {
	output, err := a.config.Toolbox.Run(ctx, action.Tool, action.Input, params)
	if err != nil {
		a.logger.Debug("tool failed", "tool", action.Tool, "error", err)
		return fmt.Sprintf("The tool failed: %v. Pick one of the available tools and try again.", err)
	}
	return output
}

// stopOptions clones the configured call options and installs the
// observation stop word so the model never hallucinates tool results.
func (a *Agent) stopOptions() *llm.CallOptions {
	var opts llm.CallOptions
	if a.config.CallOptions != nil {
		opts = *a.config.CallOptions
	}
	opts.Stop = []string{markerObservation}
	return &opts
}

func renderFinal(action Action) string {
	var b strings.Builder
	if action.Thought != "" {
		fmt.Fprintf(&b, "Thought: %s\n", action.Thought)
	}
	fmt.Fprintf(&b, "Final Answer: %s\n", action.Answer)
	return b.String()
}
