package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	// LLM configuration
	LLMProvider    string `json:"llm_provider"` // "openai" or "deepseek"
	Model          string `json:"model"`
	BackendURL     string `json:"backend_url"`
	MaxTokens      int    `json:"max_tokens"`
	OpenAIAPIKey   string `json:"openai_api_key"`
	DeepSeekAPIKey string `json:"deepseek_api_key"`

	// Seconds per model gateway call; expiry follows the same soft-failure
	// path as a failed call.
	GatewayTimeout int `json:"gateway_timeout"`

	// Run the four analysis stages concurrently with a join barrier
	// before research synthesis.
	ParallelAnalysts bool `json:"parallel_analysts"`

	Debug        bool `json:"debug"`
	CacheEnabled bool `json:"cache_enabled"`

	// Eino visual debug server
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`

	// Data collector API keys
	CoinGeckoAPIKey   string `json:"coingecko_api_key"`
	CryptoPanicAPIKey string `json:"cryptopanic_api_key"`
	RedditUserAgent   string `json:"reddit_user_agent"`

	// Run history database; empty disables persistence.
	HistoryDBPath string `json:"history_db_path"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir:   currentDir,
		ResultsDir:   filepath.Join(currentDir, "results"),
		DataDir:      filepath.Join(currentDir, "data"),
		DataCacheDir: filepath.Join(currentDir, "data", "cache"),

		LLMProvider:    "openai",
		Model:          "gpt-4o-mini",
		BackendURL:     "",
		MaxTokens:      8192,
		GatewayTimeout: 120,

		ParallelAnalysts: false,
		Debug:            false,
		CacheEnabled:     true,

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,

		RedditUserAgent: "coinsage/1.0",
		HistoryDBPath:   filepath.Join(currentDir, "data", "history.db"),
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = strings.ToLower(val)
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.Model = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("LLM_MAX_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxTokens = v
		}
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("GATEWAY_TIMEOUT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.GatewayTimeout = v
		}
	}

	if val := os.Getenv("PARALLEL_ANALYSTS"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.ParallelAnalysts = enabled
		}
	}
	if val := os.Getenv("COINSAGE_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}

	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}

	if val := os.Getenv("COINGECKO_API_KEY"); val != "" {
		c.CoinGeckoAPIKey = val
	}
	if val := os.Getenv("CRYPTOPANIC_API_KEY"); val != "" {
		c.CryptoPanicAPIKey = val
	}
	if val := os.Getenv("REDDIT_USER_AGENT"); val != "" {
		c.RedditUserAgent = val
	}
	if val := os.Getenv("HISTORY_DB_PATH"); val != "" {
		c.HistoryDBPath = val
	}
}

// Validate checks that the configuration can support a pipeline run.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "deepseek":
		if c.DeepSeekAPIKey == "" {
			return fmt.Errorf("DEEPSEEK_API_KEY is required for the deepseek provider")
		}
	default:
		return fmt.Errorf("unknown LLM provider %q", c.LLMProvider)
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ResultsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
