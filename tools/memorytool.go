// Conversation memory as a tool: lets the agent consult earlier turns.

package tools

import (
	"context"
	"fmt"

	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/memory"
)

const memoryTemplate = `Answer the question using only the conversation transcript below. If the transcript does not contain the answer, say so.

Transcript:
%s

Question: %s
Answer:`

// NewMemoryTool answers questions about what was said earlier in the
// conversation. The history snapshot is taken when the tool is built.
// Not part of the default variant toolboxes; those rely on the compacted
// digest in the system prompt instead.
func NewMemoryTool(client *llm.Client, history memory.History, callOpts *llm.CallOptions) Tool {
	return Func{
		Meta: Metadata{
			Name:        "memory_tool",
			Description: "Useful for questions about what was said earlier in this conversation. Input should be the question.",
		},
		Fn: func(ctx context.Context, input string, _ RunParams) (string, error) {
			transcript := memory.Render(history, memory.RenderOptions{
				IncludeCurrent: false,
				Order:          memory.Ascending,
			})
			if transcript == "" {
				return "There is no earlier conversation to consult.", nil
			}

			prompt := fmt.Sprintf(memoryTemplate, transcript, input)
			answer, err := client.ChatWithOptions(ctx, []llm.ChatMessage{llm.UserMessage(prompt)}, callOpts)
			if err != nil {
				return "", err
			}
			return answer, nil
		},
	}
}
