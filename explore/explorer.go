// Package explore generates per-document artifacts: a summary, a word
// cloud and a QnA page.
//
// Information Hiding:
// - Artifact generation order hidden
// - Failure handling and status bookkeeping hidden
package explore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qwizzhq/qwizz/config"
	"github.com/qwizzhq/qwizz/docstore"
	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/storage"
	"github.com/qwizzhq/qwizz/summarize"
	"github.com/qwizzhq/qwizz/tools"
)

const qnaAnswerTemplate = `Answer the question using only the passage below. Be concise.

Passage:
%s

Question: %s
Answer:`

// ArtifactStore persists generated artifacts and their statuses.
type ArtifactStore interface {
	SaveDocPage(ctx context.Context, docID, summary, wordCloudPath string, status storage.Status) error
	AppendQnA(ctx context.Context, docID string, pair storage.QnAPair) error
	SetQnAStatus(ctx context.Context, docID string, status storage.Status) error
}

// Explorer generates exploration artifacts for uploaded documents.
type Explorer struct {
	deps      tools.Deps
	store     ArtifactStore
	reducer   *summarize.Reducer
	wordCloud *WordCloudRenderer
	questions QuestionGenerator
	opts      config.Options
	logger    *slog.Logger
}

// NewExplorer creates an explorer over the shared dependencies.
func NewExplorer(deps tools.Deps, store ArtifactStore, wordCloud *WordCloudRenderer, questions QuestionGenerator, opts config.Options) *Explorer {
	return &Explorer{
		deps:      deps,
		store:     store,
		reducer:   summarize.NewReducer(deps.Client, summarize.SummaryPrompts).WithCallOptions(tools.CallOptionsFor(opts)),
		wordCloud: wordCloud,
		questions: questions,
		opts:      opts,
		logger:    slog.Default().With("component", "explore"),
	}
}

// CreateDocPage generates the summary and word cloud for one document.
//
// The two artifacts share fate: the explore page renders them together,
// so a failure in either marks both as failed rather than showing a
// half-built page.
func (e *Explorer) CreateDocPage(ctx context.Context, docID string) error {
	passages, err := e.passages(ctx, docID)
	if err != nil {
		return e.failDocPage(ctx, docID, err)
	}

	summary, err := e.reducer.Reduce(ctx, passages)
	if err != nil {
		return e.failDocPage(ctx, docID, fmt.Errorf("summarizing document: %w", err))
	}

	path, err := e.wordCloud.Render(ctx, docID, joinContents(passages))
	if err != nil {
		return e.failDocPage(ctx, docID, fmt.Errorf("rendering word cloud: %w", err))
	}

	if err := e.store.SaveDocPage(ctx, docID, summary, path, storage.StatusCompleted); err != nil {
		return fmt.Errorf("saving doc page: %w", err)
	}
	return nil
}

// CreateQuestionPage generates questions per passage and answers each
// one restricted to the passage it came from. Every finished pair is
// persisted as it is produced, so a failure midway keeps the pairs
// generated so far under an error status instead of rolling back.
func (e *Explorer) CreateQuestionPage(ctx context.Context, docID string) error {
	passages, err := e.passages(ctx, docID)
	if err != nil {
		return e.failQnA(ctx, docID, err)
	}

	callOpts := tools.CallOptionsFor(e.opts)
	for _, passage := range passages {
		questions, err := e.questions.Generate(ctx, passage.Content)
		if err != nil {
			return e.failQnA(ctx, docID, fmt.Errorf("generating questions for split %d: %w", passage.SplitID, err))
		}

		for _, question := range questions {
			if strings.TrimSpace(question) == "" {
				continue
			}
			prompt := fmt.Sprintf(qnaAnswerTemplate, passage.Content, question)
			answer, usage, err := e.deps.Client.ChatWithUsage(ctx, []llm.ChatMessage{llm.UserMessage(prompt)}, callOpts)
			if err != nil {
				return e.failQnA(ctx, docID, fmt.Errorf("answering %q: %w", question, err))
			}
			if usage != nil {
				e.logger.Debug("qna answer generated",
					"doc_id", docID, "split_id", passage.SplitID, "total_tokens", usage.TotalTokens)
			}

			pair := storage.QnAPair{SplitID: passage.SplitID, Question: question, Answer: strings.TrimSpace(answer)}
			if err := e.store.AppendQnA(ctx, docID, pair); err != nil {
				return e.failQnA(ctx, docID, fmt.Errorf("persisting pair: %w", err))
			}
		}
	}

	if err := e.store.SetQnAStatus(ctx, docID, storage.StatusCompleted); err != nil {
		return fmt.Errorf("saving qna status: %w", err)
	}
	return nil
}

func (e *Explorer) passages(ctx context.Context, docID string) ([]docstore.Passage, error) {
	passages, err := e.deps.Store.GetAll(ctx, docstore.Filter{DocIDs: []string{docID}})
	if err != nil {
		return nil, fmt.Errorf("loading passages: %w", err)
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("document %q has no passages", docID)
	}
	return passages, nil
}

func (e *Explorer) failDocPage(ctx context.Context, docID string, cause error) error {
	e.logger.Error("doc page generation failed", "doc_id", docID, "error", cause)
	if err := e.store.SaveDocPage(ctx, docID, "", "", storage.StatusError); err != nil {
		e.logger.Error("could not record doc page failure", "doc_id", docID, "error", err)
	}
	return cause
}

func (e *Explorer) failQnA(ctx context.Context, docID string, cause error) error {
	e.logger.Error("qna generation failed", "doc_id", docID, "error", cause)
	if err := e.store.SetQnAStatus(ctx, docID, storage.StatusError); err != nil {
		e.logger.Error("could not record qna failure", "doc_id", docID, "error", err)
	}
	return cause
}

func joinContents(passages []docstore.Passage) string {
	var parts []string
	for _, p := range passages {
		parts = append(parts, p.Content)
	}
	return strings.Join(parts, "\n\n")
}
