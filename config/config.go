// Package config loads uiloc.toml and applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/frizinak/uiloc/locale"
)

const (
	FileName = "uiloc.toml"

	EnvDataDir = "UILOC_DATA_DIR"
	EnvModel   = "OPENAI_MODEL"
	EnvAPIKey  = "OPENAI_API_KEY"
)

type Data struct {
	Dir            string   `toml:"dir"`
	Pattern        string   `toml:"pattern"`
	Exclude        []string `toml:"exclude"`
	PendingDir     string   `toml:"pending_dir"`
	PendingPattern string   `toml:"pending_pattern"`
	FirstLanguage  string   `toml:"first_language"`
	Snapshot       string   `toml:"snapshot"`
	Watch          bool     `toml:"watch"`
}

type LLM struct {
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	APIKeyEnv   string  `toml:"api_key_env"`
	Temperature float64 `toml:"temperature"`
	Timeout     string  `toml:"timeout"`
	CacheSize   int     `toml:"cache_size"`
}

func (l LLM) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(l.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

const (
	ProviderAuto    = "auto"
	ProviderLLM     = "llm"
	ProviderLexicon = "lexicon"
	ProviderNone    = "none"
)

type Synonyms struct {
	Provider string `toml:"provider"`
	Lexicon  string `toml:"lexicon"`
	MaxTerms int    `toml:"max_terms"`
}

type Width struct {
	Font string  `toml:"font"`
	Size float64 `toml:"size"`
}

type History struct {
	Path     string `toml:"path"`
	Disabled bool   `toml:"disabled"`
}

type Web struct {
	Addr     string `toml:"addr"`
	CacheDir string `toml:"cache_dir"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Config struct {
	Data     Data     `toml:"data"`
	LLM      LLM      `toml:"llm"`
	Synonyms Synonyms `toml:"synonyms"`
	Width    Width    `toml:"width"`
	History  History  `toml:"history"`
	Web      Web      `toml:"web"`
	Log      Log      `toml:"log"`
}

func userDir() string {
	if d, err := os.UserConfigDir(); err == nil {
		return filepath.Join(d, "uiloc")
	}
	return ".uiloc"
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string { return filepath.Join(userDir(), FileName) }

func Default() Config {
	dir := userDir()
	return Config{
		Data: Data{
			Pattern:       locale.DefaultPattern,
			Exclude:       locale.DefaultExclude,
			FirstLanguage: locale.DefaultFirst,
		},
		LLM: LLM{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			APIKeyEnv:   EnvAPIKey,
			Temperature: 0.3,
			Timeout:     "60s",
			CacheSize:   256,
		},
		Synonyms: Synonyms{Provider: ProviderAuto, MaxTerms: 8},
		Width:    Width{Size: 14},
		History:  History{Path: filepath.Join(dir, "history.db")},
		Web:      Web{Addr: "127.0.0.1:8080", CacheDir: filepath.Join(dir, "cache")},
		Log:      Log{Level: "info", Format: "console"},
	}
}

// Load reads path on top of Default. A missing file is not an error.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvDataDir); v != "" {
		c.Data.Dir = v
	}
	if v := getenv(EnvModel); v != "" {
		c.LLM.Model = v
	}
	if c.LLM.APIKey == "" && c.LLM.APIKeyEnv != "" {
		c.LLM.APIKey = getenv(c.LLM.APIKeyEnv)
	}
}

func (c Config) Validate() error {
	switch c.Synonyms.Provider {
	case ProviderAuto, ProviderLLM, ProviderLexicon, ProviderNone:
	default:
		return fmt.Errorf("config: unknown synonym provider %q", c.Synonyms.Provider)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// SynonymProvider resolves ProviderAuto to llm when an API key is
// available and to lexicon otherwise.
func (c Config) SynonymProvider() string {
	if c.Synonyms.Provider != ProviderAuto {
		return c.Synonyms.Provider
	}
	if c.LLM.APIKey != "" {
		return ProviderLLM
	}
	return ProviderLexicon
}

// Loader builds a locale.Loader from the data section.
func (c Config) Loader(log zerolog.Logger) *locale.Loader {
	l := locale.NewLoader(c.Data.Dir)
	if c.Data.Pattern != "" {
		l.Pattern = c.Data.Pattern
	}
	if c.Data.Exclude != nil {
		l.Exclude = c.Data.Exclude
	}
	if c.Data.FirstLanguage != "" {
		l.First = locale.Canonical(c.Data.FirstLanguage)
	}
	l.PendingDir = c.Data.PendingDir
	l.PendingPattern = c.Data.PendingPattern
	l.Log = log
	return l
}

// Save writes cfg to path atomically. The API key is never written when it
// came from the environment.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if cfg.LLM.APIKeyEnv != "" && cfg.LLM.APIKey == os.Getenv(cfg.LLM.APIKeyEnv) {
		cfg.LLM.APIKey = ""
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.LLM.APIKey != "" {
		n := len(c.LLM.APIKey)
		if n > 4 {
			n = 4
		}
		c.LLM.APIKey = strings.Repeat("*", 8) + c.LLM.APIKey[len(c.LLM.APIKey)-n:]
	}
	return c
}
