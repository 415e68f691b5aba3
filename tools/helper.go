// Assistant-variant tools: app help, question recommendation, explanations.

package tools

import (
	"context"

	"github.com/qwizzhq/qwizz/config"
)

const helperTemplate = `You are the in-app assistant for a qualitative research tool. Users upload interview transcripts, explore them and ask questions about their content. Answer the user's question about how to use the application. Be brief and concrete.

Question: %s
Answer:`

const recommendTemplate = `Given the following passages from uploaded interview documents, suggest up to three research questions the researcher could ask next. Each question must be answerable from the documents. Return one question per line.

Passages:
%s

Focus: %s
Questions:`

const explainerTemplate = `Explain the following term or concept in plain language for a qualitative researcher. If it is a research methods term, mention how it is used in practice.

Term: %s
Explanation:`

// NewHelperTool answers questions about using the application itself.
func NewHelperTool(deps Deps, opts config.Options) Tool {
	callOpts := CallOptionsFor(opts)
	return Func{
		Meta: Metadata{
			Name:        "helper_tool",
			Description: "Useful for questions about how to use the application. Input should be the user's question.",
		},
		Fn: func(ctx context.Context, input string, _ RunParams) (string, error) {
			return GenerateOnly(ctx, deps.Client, helperTemplate, input, callOpts)
		},
	}
}

// NewRecommendQuestionTool suggests follow-up research questions grounded
// in the selected documents.
func NewRecommendQuestionTool(deps Deps, opts config.Options) Tool {
	pipeline := NewSearchPipeline(deps, recommendTemplate, CallOptionsFor(opts))

	return Func{
		Meta: Metadata{
			Name:        "recommend_question_tool",
			Description: "Useful for suggesting research questions the documents can answer. Input should describe the topic of interest.",
			Caps:        Capabilities{Retriever: true, FilterRetriever: true},
		},
		Fn: pipeline.Run,
	}
}

// NewExplainerTool explains terms and concepts without consulting the
// documents.
func NewExplainerTool(deps Deps, opts config.Options) Tool {
	callOpts := CallOptionsFor(opts)
	return Func{
		Meta: Metadata{
			Name:        "explainer_tool",
			Description: "Useful for explaining a term or concept the user does not understand. Input should be the term.",
		},
		Fn: func(ctx context.Context, input string, _ RunParams) (string, error) {
			return GenerateOnly(ctx, deps.Client, explainerTemplate, input, callOpts)
		},
	}
}
