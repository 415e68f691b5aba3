// Package config provides application settings loaded from environment variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Provider-specific configuration lookup

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Settings holds all application configuration.
type Settings struct {
	LLM     LLMConfig
	Agent   AgentConfig
	Storage StorageConfig
	Explore ExploreConfig
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	Provider     string
	Model        string
	MaxTokens    uint32
	Temperature  float64
	KeySelection string // "roundrobin" or "random"
}

// AgentConfig holds agent execution configuration.
type AgentConfig struct {
	MaxSteps    int
	MaxRetries  int
	HistoryLast int
	TopK        int
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	SQLitePath  string
	PostgresURL string // empty means the in-memory passage store is used
}

// ExploreConfig holds document exploration configuration.
type ExploreConfig struct {
	WordCloudURL    string
	QuestionGenURL  string
	QuestionGenKey  string
	UseRemoteQGen   bool
	WordCloudOutDir string
}

// providerInfo holds configuration for a specific LLM provider.
type providerInfo struct {
	modelEnv     string
	defaultModel string
	apiKeyEnv    string
}

// Supported providers and their configuration.
var providers = map[string]providerInfo{
	"openai":    {"OPENAI_MODEL", "gpt-3.5-turbo-16k", "OPENAI_API_KEY"},
	"anthropic": {"ANTHROPIC_MODEL", "claude-sonnet-4-20250514", "ANTHROPIC_API_KEY"},
	"deepseek":  {"DEEPSEEK_MODEL", "deepseek-chat", "DEEPSEEK_API_KEY"},
	"gemini":    {"GEMINI_MODEL", "gemini-2.0-flash", "GEMINI_API_KEY"},
}

// Provider aliases map to canonical names.
var providerAliases = map[string]string{
	"claude": "anthropic",
	"google": "gemini",
	"gpt":    "openai",
}

// New creates settings for the specified provider, loading values from environment variables.
// Returns an error if the provider is unknown or environment variables contain invalid values.
func New(provider string) (Settings, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return Settings{}, err
	}

	maxTokens, err := getEnvUint32("LLM_MAX_TOKENS", 512)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat64("LLM_TEMPERATURE", 0.4)
	if err != nil {
		return Settings{}, err
	}

	keySelection := strings.ToLower(os.Getenv("LLM_KEY_SELECTION"))
	if keySelection == "" {
		keySelection = "roundrobin"
	}
	if keySelection != "roundrobin" && keySelection != "random" {
		return Settings{}, fmt.Errorf("invalid value for LLM_KEY_SELECTION: %q (want roundrobin or random)", keySelection)
	}

	maxSteps, err := getEnvInt("AGENT_MAX_STEPS", 8)
	if err != nil {
		return Settings{}, err
	}

	maxRetries, err := getEnvInt("AGENT_MAX_RETRIES", 2)
	if err != nil {
		return Settings{}, err
	}

	historyLast, err := getEnvInt("CHAT_HISTORY_LAST", 10)
	if err != nil {
		return Settings{}, err
	}

	topK, err := getEnvInt("RETRIEVAL_TOP_K", 5)
	if err != nil {
		return Settings{}, err
	}

	// Get model from environment or use default
	model := os.Getenv(info.modelEnv)
	if model == "" {
		model = info.defaultModel
	}

	sqlitePath := os.Getenv("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = ".qwizz/qwizz.db"
	}

	wordCloudURL := os.Getenv("WORDCLOUD_URL")
	if wordCloudURL == "" {
		wordCloudURL = "https://quickchart.io/wordcloud"
	}

	wordCloudOutDir := os.Getenv("WORDCLOUD_OUT_DIR")
	if wordCloudOutDir == "" {
		wordCloudOutDir = ".qwizz/wordclouds"
	}

	return Settings{
		LLM: LLMConfig{
			Provider:     provider,
			Model:        model,
			MaxTokens:    maxTokens,
			Temperature:  temperature,
			KeySelection: keySelection,
		},
		Agent: AgentConfig{
			MaxSteps:    maxSteps,
			MaxRetries:  maxRetries,
			HistoryLast: historyLast,
			TopK:        topK,
		},
		Storage: StorageConfig{
			SQLitePath:  sqlitePath,
			PostgresURL: os.Getenv("DATABASE_URL"),
		},
		Explore: ExploreConfig{
			WordCloudURL:    wordCloudURL,
			QuestionGenURL:  os.Getenv("QUESTION_GEN_URL"),
			QuestionGenKey:  os.Getenv("QUESTION_GEN_TOKEN"),
			UseRemoteQGen:   os.Getenv("QUESTION_GEN_URL") != "",
			WordCloudOutDir: wordCloudOutDir,
		},
	}, nil
}

// MustNew creates settings for the specified provider.
// Panics if the provider is unknown or environment variables are invalid.
// Use this only when configuration errors should be fatal.
func MustNew(provider string) Settings {
	settings, err := New(provider)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// normalizeProvider converts provider aliases to canonical names.
func normalizeProvider(provider string) string {
	provider = strings.ToLower(provider)
	if canonical, ok := providerAliases[provider]; ok {
		return canonical
	}
	return provider
}

// getProviderInfo returns configuration for a provider.
func getProviderInfo(provider string) (providerInfo, error) {
	info, ok := providers[provider]
	if !ok {
		return providerInfo{}, fmt.Errorf("unknown provider: %q", provider)
	}
	return info, nil
}

// APIKeysFor returns the API keys for a provider from environment variables.
// The variable may hold several comma-separated keys.
func APIKeysFor(provider string) ([]string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return nil, err
	}

	raw := os.Getenv(info.apiKeyEnv)
	if raw == "" {
		return nil, fmt.Errorf("%s environment variable not set", info.apiKeyEnv)
	}

	var keys []string
	for _, part := range strings.Split(raw, ",") {
		if k := strings.TrimSpace(part); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%s contains no usable keys", info.apiKeyEnv)
	}
	return keys, nil
}

// ModelFor returns the model for a provider, checking environment first.
func ModelFor(provider string) (string, error) {
	provider = normalizeProvider(provider)

	info, err := getProviderInfo(provider)
	if err != nil {
		return "", err
	}

	if val := os.Getenv(info.modelEnv); val != "" {
		return val, nil
	}
	return info.defaultModel, nil
}

// SupportedProviders returns the list of supported provider names.
func SupportedProviders() []string {
	result := make([]string, 0, len(providers))
	for name := range providers {
		result = append(result, name)
	}
	return result
}

// Environment variable helpers with proper error handling

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvUint32(key string, defaultVal uint32) (uint32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return uint32(i), nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}
