// Command execution for CLI commands.
//
// Information Hiding:
// - Dependency wiring hidden behind Runtime
// - Provider and store selection hidden
// - Output formatting hidden

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/qwizzhq/qwizz/config"
	"github.com/qwizzhq/qwizz/docstore"
	"github.com/qwizzhq/qwizz/explore"
	"github.com/qwizzhq/qwizz/ingest"
	"github.com/qwizzhq/qwizz/llm"
	"github.com/qwizzhq/qwizz/orchestration"
	"github.com/qwizzhq/qwizz/storage"
	"github.com/qwizzhq/qwizz/tools"
)

// Options holds CLI execution options.
type Options struct {
	Provider     string
	Model        string
	Temperature  float64
	AnswerLength string
	Verbose      bool
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	defaults := config.DefaultOptions()
	return Options{
		Provider:     "openai",
		Model:        defaults.Model,
		Temperature:  defaults.Temperature,
		AnswerLength: defaults.AnswerLength,
	}
}

// Runtime wires every service the commands need.
type Runtime struct {
	settings config.Settings
	provider llm.Provider
	deps     tools.Deps
	db       *storage.SqliteStorage
	pg       *docstore.PgxStore
	ingester *ingest.Handler
	service  *orchestration.Service
	explorer *explore.Explorer
}

// NewRuntime builds the runtime from environment configuration.
func NewRuntime(ctx context.Context, opts Options) (*Runtime, error) {
	providerName := opts.Provider
	if providerName == "" {
		providerName = "openai"
	}
	settings, err := config.New(providerName)
	if err != nil {
		return nil, err
	}

	// The --model flag names an OpenAI chat model; other providers keep
	// their own configured model.
	if settings.LLM.Provider == "openai" && opts.Model != "" {
		settings.LLM.Model = opts.Model
	}

	provider, err := buildProvider(settings)
	if err != nil {
		return nil, err
	}

	// Embeddings always go through OpenAI, whichever chat provider is
	// configured.
	embedKeys, err := config.APIKeysFor("openai")
	if err != nil {
		return nil, fmt.Errorf("embeddings need an OpenAI key: %w", err)
	}
	embedder := docstore.NewOpenAIEmbedder(embedKeys[0])

	var passages docstore.Store
	var pg *docstore.PgxStore
	if settings.Storage.PostgresURL != "" {
		pg, err = docstore.OpenPgx(ctx, settings.Storage.PostgresURL, docstore.AdaEmbeddingDims)
		if err != nil {
			return nil, fmt.Errorf("opening passage store: %w", err)
		}
		passages = pg
	} else {
		passages = docstore.NewMemStore()
	}

	db, err := storage.OpenSqlite(settings.Storage.SQLitePath)
	if err != nil {
		if pg != nil {
			pg.Close()
		}
		return nil, err
	}

	deps := tools.Deps{
		Client:   llm.NewClient(provider),
		Embedder: embedder,
		Store:    passages,
	}

	wordCloud := explore.NewWordCloudRenderer(settings.Explore.WordCloudURL, settings.Explore.WordCloudOutDir)
	var questions explore.QuestionGenerator
	if settings.Explore.UseRemoteQGen {
		questions = explore.NewRemoteGenerator(settings.Explore.QuestionGenURL, settings.Explore.QuestionGenKey)
	} else {
		questions = explore.NewPromptGenerator(deps.Client, nil)
	}

	return &Runtime{
		settings: settings,
		provider: provider,
		deps:     deps,
		db:       db,
		pg:       pg,
		ingester: ingest.NewHandler(embedder, passages),
		service:  orchestration.NewService(deps, provider, db).WithAgentConfig(settings.Agent),
		explorer: explore.NewExplorer(deps, db, wordCloud, questions, config.DefaultOptions()),
	}, nil
}

// Close releases database connections.
func (r *Runtime) Close() {
	r.db.Close()
	if r.pg != nil {
		r.pg.Close()
	}
}

func buildProvider(settings config.Settings) (llm.Provider, error) {
	providerType, err := llm.ParseProviderType(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	keys, err := config.APIKeysFor(settings.LLM.Provider)
	if err != nil {
		return nil, err
	}

	chooser := func(keys []string) llm.KeyChooser { return llm.NewRoundRobinKeys(keys...) }
	if settings.LLM.KeySelection == "random" {
		chooser = func(keys []string) llm.KeyChooser {
			return llm.NewRandomKeys(time.Now().UnixNano(), keys...)
		}
	}

	return llm.NewProviderBuilder(providerType).
		Model(settings.LLM.Model).
		MaxTokens(settings.LLM.MaxTokens).
		Temperature(float32(settings.LLM.Temperature)).
		KeySelection(chooser).
		APIKeys(keys)
}

// Ask answers one question in the given chat.
func Ask(ctx context.Context, chatID, question string, docIDs []string, opts Options) error {
	runtime, err := NewRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer runtime.Close()

	genOpts, err := config.NewOptions(opts.Model, opts.Temperature, opts.AnswerLength)
	if err != nil {
		return err
	}

	reply, err := runtime.service.Answer(ctx, chatID, question, docIDs, genOpts)
	if err != nil {
		return err
	}

	if opts.Verbose {
		fmt.Printf("Intent: %s\n\n%s\n", reply.Intent, reply.Transcript)
	}
	fmt.Printf("%s\n", reply.Answer)
	if len(reply.ReferencedDocIDs) > 0 {
		fmt.Printf("\nReferences: %s\n", strings.Join(reply.ReferencedDocIDs, ", "))
	}
	return nil
}

// Ingest uploads a document from a file path.
func Ingest(ctx context.Context, path string, opts Options) error {
	runtime, err := NewRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer runtime.Close()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	docID := uuid.NewString()
	if err := runtime.db.CreateDocument(ctx, docID, filepath.Base(path)); err != nil {
		return err
	}

	n, err := runtime.ingester.AddDocument(ctx, docID, string(content))
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %s as %s (%d passages)\n", filepath.Base(path), docID, n)
	return nil
}

// Explore generates the summary, word cloud and QnA pages for a document.
func Explore(ctx context.Context, docID string, opts Options) error {
	runtime, err := NewRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer runtime.Close()

	if err := runtime.explorer.CreateDocPage(ctx, docID); err != nil {
		return err
	}
	if err := runtime.explorer.CreateQuestionPage(ctx, docID); err != nil {
		return err
	}

	doc, err := runtime.db.GetDocument(ctx, docID)
	if err != nil {
		return err
	}
	fmt.Printf("Summary:\n%s\n\nWord cloud: %s\n", doc.Summary, doc.WordCloudPath)

	pairs, err := runtime.db.GetQnA(ctx, docID)
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		fmt.Printf("\nQ: %s\nA: %s\n", pair.Question, pair.Answer)
	}
	return nil
}

// Delete removes a document and its passages.
func Delete(ctx context.Context, docID string, opts Options) error {
	runtime, err := NewRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer runtime.Close()

	if err := runtime.ingester.DeleteDocument(ctx, docID); err != nil {
		return err
	}
	if err := runtime.db.DeleteDocument(ctx, docID); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", docID)
	return nil
}

// ListDocuments prints the stored documents and their artifact statuses.
func ListDocuments(ctx context.Context, opts Options) error {
	runtime, err := NewRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer runtime.Close()

	docs, err := runtime.db.ListDocuments(ctx)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No documents ingested yet.")
		return nil
	}
	for _, doc := range docs {
		fmt.Printf("%s  %s  explore=%s  qna=%s\n", doc.ID, doc.Name, doc.SummaryStatus, doc.QnAStatus)
	}
	return nil
}
