// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//Source site
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	Source    string `yaml:"source"`

	//Run shape
	Pages   int `yaml:"pages"`
	PauseMs int `yaml:"pause_ms"`

	//Feature toggles
	EnableEmailExtraction bool `yaml:"enable_email_extraction"`
	EnablePersistence     bool `yaml:"enable_persistence"`
	EnableBrowserFallback bool `yaml:"enable_browser_fallback"`
	DumpHTML              bool `yaml:"dump_html"`

	//Normalization defaults
	TargetRegion string `yaml:"target_region"`
	CountryCode  string `yaml:"country_code"`

	//Paths
	SchemaPath string `yaml:"schema_path"`
	CachePath  string `yaml:"cache_path"`
	DumpDir    string `yaml:"dump_dir"`

	//Secrets come from env only, never from yaml
	GroqAPIKey     string `yaml:"-"`
	DatabaseURL    string `yaml:"-"`
	TelegramToken  string `yaml:"-"`
	TelegramChatID int64  `yaml:"-"`
}

// Load reads configs/config.yaml (path overridable via CONFIG_PATH), layers
// env vars on top and fills defaults. A missing yaml file is fine; a broken
// one, or an impossible combination, is not.
func Load() (*Config, error) {
	_ = godotenv.Load()

	//Email extraction defaults to on, like the rest of the pipeline expects.
	//Yaml or env can still switch it off.
	cfg := &Config{EnableEmailExtraction: true}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "configs/config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	//Override with env vars
	if v := os.Getenv("SAUDI_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SAUDI_PAGES: %w", err)
		}
		cfg.Pages = n
	}
	if v := os.Getenv("PAUSE_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PAUSE_MS: %w", err)
		}
		cfg.PauseMs = n
	}
	if v := os.Getenv("USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("ENABLE_EMAIL_EXTRACTION"); v != "" {
		cfg.EnableEmailExtraction = v != "0"
	}
	if v := os.Getenv("ENABLE_PERSISTENCE"); v != "" {
		cfg.EnablePersistence = v != "0"
	}
	if v := os.Getenv("DUMP_HTML"); v != "" {
		cfg.DumpHTML = v != "0"
	}
	if v := os.Getenv("JOB_SCHEMA_PATH"); v != "" {
		cfg.SchemaPath = v
	}
	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	cfg.applyDefaults()

	//Validate required fields
	if cfg.Pages < 1 {
		return nil, fmt.Errorf("pages must be >= 1, got %d", cfg.Pages)
	}
	if cfg.EnablePersistence && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("persistence enabled but DATABASE_URL is not set")
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.saudijobs.in"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_5) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"
	}
	if cfg.Source == "" {
		cfg.Source = "saudijobs.in"
	}
	if cfg.Pages == 0 {
		cfg.Pages = 1
	}
	if cfg.PauseMs == 0 {
		cfg.PauseMs = 350
	}
	if cfg.TargetRegion == "" {
		cfg.TargetRegion = "Saudi Arabia"
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = "SA"
	}
	if cfg.SchemaPath == "" {
		cfg.SchemaPath = "configs/target-schema.json"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}
	if cfg.DumpDir == "" {
		cfg.DumpDir = "runs/html"
	}
}
