// Package summarize provides windowed divide-and-conquer reduction of
// ordered passage sequences into one synthesized text.
//
// Information Hiding:
// - Window slicing and overlap arithmetic hidden in the Reducer
// - Depth-dependent prompt selection hidden from callers
// - Grouping rules hidden in the Router
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/qwizzhq/qwizz/docstore"
	"github.com/qwizzhq/qwizz/llm"
)

// DefaultWindowSize is the number of passages merged per window.
const DefaultWindowSize = 12

// Prompts holds the reduction templates. First is applied at depth 0,
// Recursive at every deeper level. Each template takes the merged text
// as its single %s argument.
type Prompts struct {
	First     string
	Recursive string
}

// SummaryPrompts reduces passages into a running summary.
var SummaryPrompts = Prompts{
	First: `Summarize the following interview passages. Keep concrete statements and attributions; drop filler.

%s

Summary:`,
	Recursive: `The following are partial summaries of one document. Combine them into a single coherent summary without repeating points.

%s

Combined summary:`,
}

// KeyPointPrompts reduces passages into a key-point list.
var KeyPointPrompts = Prompts{
	First: `Extract the key points from the following interview passages as a concise bullet list.

%s

Key points:`,
	Recursive: `Condense the following key points into a shorter list, merging duplicates.

%s

Condensed key points:`,
}

// Reducer reduces an ordered passage sequence to one text under a
// window budget. Passages must already be ordered by split index;
// ordering is a precondition, not re-established per recursion level.
type Reducer struct {
	client     *llm.Client
	prompts    Prompts
	windowSize int
	opts       *llm.CallOptions
}

// NewReducer creates a reducer with the default window size.
func NewReducer(client *llm.Client, prompts Prompts) *Reducer {
	return &Reducer{
		client:     client,
		prompts:    prompts,
		windowSize: DefaultWindowSize,
	}
}

// WithWindowSize overrides the window size. Values below 2 are ignored:
// a window of 1 would produce as many summaries as inputs and never shrink.
func (r *Reducer) WithWindowSize(n int) *Reducer {
	if n >= 2 {
		r.windowSize = n
	}
	return r
}

// WithCallOptions sets per-call generation overrides for every reduction call.
func (r *Reducer) WithCallOptions(opts *llm.CallOptions) *Reducer {
	r.opts = opts
	return r
}

// Reduce collapses the passages into one text. An empty input yields an
// empty output without a model call.
func (r *Reducer) Reduce(ctx context.Context, passages []docstore.Passage) (string, error) {
	if len(passages) == 0 {
		return "", nil
	}
	return r.reduce(ctx, passages, 0)
}

func (r *Reducer) reduce(ctx context.Context, passages []docstore.Passage, depth int) (string, error) {
	template := r.prompts.First
	if depth > 0 {
		template = r.prompts.Recursive
	}

	// Full merge: no windowing when everything fits in one window.
	if r.windowSize >= len(passages) {
		results, err := r.client.ChatBatch(ctx, []string{mergeContents(passages)}, template, r.opts)
		if err != nil {
			return "", fmt.Errorf("reducing %d passages at depth %d: %w", len(passages), depth, err)
		}
		return strings.TrimSpace(results[0]), nil
	}

	// Slide overlapping windows across the ordered passages.
	step := r.windowSize / 2
	if step < 1 || step >= len(passages) {
		step = 1
	}

	var windows []string
	for start := 0; start < len(passages); start += step {
		end := start + r.windowSize
		if end > len(passages) {
			end = len(passages)
		}
		windows = append(windows, mergeContents(passages[start:end]))
		if end == len(passages) {
			break
		}
	}

	summaries, err := r.client.ChatBatch(ctx, windows, template, r.opts)
	if err != nil {
		return "", fmt.Errorf("reducing %d windows at depth %d: %w", len(windows), depth, err)
	}

	if len(summaries) == 1 {
		return strings.TrimSpace(summaries[0]), nil
	}

	// Each level produces strictly fewer texts than it consumed, so the
	// recursion terminates once a level fits in one window.
	next := make([]docstore.Passage, len(summaries))
	for i, s := range summaries {
		next[i] = docstore.Passage{SplitID: i, Content: s}
	}
	return r.reduce(ctx, next, depth+1)
}

// mergeContents concatenates passage contents with a separator.
func mergeContents(passages []docstore.Passage) string {
	parts := make([]string, len(passages))
	for i, p := range passages {
		parts[i] = p.Content
	}
	return strings.Join(parts, "\n\n")
}
