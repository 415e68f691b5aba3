// Package main provides the qwizz CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/qwizzhq/qwizz/cli"
)

var (
	// Global flags
	provider     string
	model        string
	temperature  float64
	answerLength string
	verbose      bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	defaults := cli.DefaultOptions()

	rootCmd := &cobra.Command{
		Use:   "qwizz",
		Short: "Conversational assistant for qualitative research documents",
		Long: `A CLI for exploring and questioning qualitative research documents.

Upload interview transcripts, generate summaries, word clouds and QnA
pages, then ask questions that are answered from the documents with
source references.`,
	}

	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", defaults.Provider, "LLM provider (openai, anthropic, deepseek, gemini)")
	rootCmd.PersistentFlags().StringVar(&model, "model", defaults.Model, "Chat model (gpt-3.5-turbo-16k or gpt-4)")
	rootCmd.PersistentFlags().Float64Var(&temperature, "temperature", defaults.Temperature, "Generation temperature in [0.0, 2.0]")
	rootCmd.PersistentFlags().StringVar(&answerLength, "length", defaults.AnswerLength, "Answer length (short, medium, long)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show intent and reasoning transcript")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(exploreCmd())
	rootCmd.AddCommand(docsCmd())
	rootCmd.AddCommand(deleteCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() cli.Options {
	return cli.Options{
		Provider:     provider,
		Model:        model,
		Temperature:  temperature,
		AnswerLength: answerLength,
		Verbose:      verbose,
	}
}

func askCmd() *cobra.Command {
	var chatID string
	var docIDs []string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about the uploaded documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Ask(context.Background(), chatID, args[0], docIDs, options())
		},
	}

	cmd.Flags().StringVar(&chatID, "chat", "default", "Chat identifier, keeps conversation history")
	cmd.Flags().StringArrayVar(&docIDs, "doc", nil, "Restrict to a document id (repeatable)")

	return cmd
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [file]",
		Short: "Upload a document file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Ingest(context.Background(), args[0], options())
		},
	}
}

func exploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [doc-id]",
		Short: "Generate summary, word cloud and QnA pages for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Explore(context.Background(), args[0], options())
		},
	}
}

func docsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "List uploaded documents and their artifact statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListDocuments(context.Background(), options())
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [doc-id]",
		Short: "Delete a document and its passages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Delete(context.Background(), args[0], options())
		},
	}
}
