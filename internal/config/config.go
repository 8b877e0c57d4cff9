package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"vnsentiment/internal/textproc"
)

type Config struct {
	ScorerProvider  string `yaml:"scorer_provider"`
	ModelServerURL  string `yaml:"model_server_url"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	AnthropicModel  string `yaml:"anthropic_model"`

	DBPath        string `yaml:"db_path"`
	ListenAddr    string `yaml:"listen_addr"`
	PageSize      int    `yaml:"page_size"`
	SlangDictPath string `yaml:"slang_dict_path"`
	LexiconPath   string `yaml:"lexicon_path"`

	RetentionDays         int    `yaml:"retention_days"`
	RetentionSchedule     string `yaml:"retention_schedule"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.ScorerProvider, "SCORER_PROVIDER")
	envOverride(&cfg.ModelServerURL, "MODEL_SERVER_URL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.AnthropicModel, "ANTHROPIC_MODEL")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverrideInt(&cfg.PageSize, "PAGE_SIZE")
	envOverride(&cfg.SlangDictPath, "SLANG_DICT_PATH")
	envOverride(&cfg.LexiconPath, "LEXICON_PATH")
	envOverrideInt(&cfg.RetentionDays, "RETENTION_DAYS")
	envOverride(&cfg.RetentionSchedule, "RETENTION_SCHEDULE")
	envOverrideInt(&cfg.RequestTimeoutSeconds, "REQUEST_TIMEOUT_SECONDS")

	// Defaults
	if cfg.ScorerProvider == "" {
		cfg.ScorerProvider = "model_server"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./sentiment_data.db"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 50
	}
	if cfg.RetentionSchedule == "" {
		cfg.RetentionSchedule = "0 3 * * *"
	}
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = 30
	}

	// Validate required fields
	switch cfg.ScorerProvider {
	case "model_server":
		if cfg.ModelServerURL == "" {
			log.Fatalf("model_server_url is required when scorer_provider=model_server")
		}
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Fatalf("anthropic_api_key is required when scorer_provider=anthropic")
		}
	default:
		log.Fatalf("scorer_provider must be 'model_server' or 'anthropic', got '%s'", cfg.ScorerProvider)
	}

	if cfg.PageSize < 1 {
		log.Fatalf("invalid page_size '%d': must be >= 1", cfg.PageSize)
	}
	if cfg.RequestTimeoutSeconds < 1 {
		log.Fatalf("invalid request_timeout_seconds '%d': must be >= 1", cfg.RequestTimeoutSeconds)
	}
	if cfg.RetentionDays < 0 {
		log.Fatalf("invalid retention_days '%d': must be >= 0", cfg.RetentionDays)
	}
	if cfg.SlangDictPath != "" {
		if _, err := textproc.LoadSlangDict(cfg.SlangDictPath); err != nil {
			log.Fatalf("invalid slang_dict_path '%s': %v", cfg.SlangDictPath, err)
		}
	}
	if cfg.LexiconPath != "" {
		if _, err := textproc.NewLexiconSegmenter(cfg.LexiconPath); err != nil {
			log.Fatalf("invalid lexicon_path '%s': %v", cfg.LexiconPath, err)
		}
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
