// Package config loads GradePath configuration from defaults, an optional
// YAML file and GRADEPATH_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/abhisek/gradepath/internal/api"
	"github.com/abhisek/gradepath/internal/llm"
	"github.com/abhisek/gradepath/internal/logging"
	"github.com/abhisek/gradepath/internal/mailer"
	"github.com/abhisek/gradepath/internal/predict"
)

// Config is the complete application configuration.
type Config struct {
	Log       logging.Config `koanf:"log"`
	Store     StoreConfig    `koanf:"store"`
	Predictor predict.Config `koanf:"predictor"`
	LLM       llm.Config     `koanf:"llm"`
	Server    api.Config     `koanf:"server"`
	Mail      mailer.Config  `koanf:"mail"`
}

type StoreConfig struct {
	// Path of the SQLite LLM ledger. Empty means the XDG data directory.
	Path string `koanf:"path"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Log:       logging.DefaultConfig(),
		Predictor: predict.DefaultConfig(),
		LLM:       llm.DefaultConfig(),
		Server:    api.DefaultConfig(),
		Mail:      mailer.DefaultConfig(),
	}
}

const (
	EnvPrefix = "GRADEPATH_"

	// PathEnvVar overrides the config file search.
	PathEnvVar = EnvPrefix + "CONFIG"
)

// Load builds the configuration. path is an explicit config file (from
// --config) and must exist when set; otherwise the default locations are
// searched and a missing file is fine.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LLM = discoverLLM(cfg.LLM)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks every section. The LLM section is only required when the
// llm predictor is selected.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Predictor.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Predictor.Kind == predict.KindLLM {
		if err := c.LLM.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("predictor.kind is llm: %w", err))
		}
	}
	if err := c.Server.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Mail.From != "" && c.Mail.Region == "" {
		errs = append(errs, errors.New("mail.region is required when mail.from is set"))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// standardKeys are the vendor API key variables honoured when the matching
// llm.*.api_key is unset.
var standardKeys = map[string]string{
	llm.ProviderAnthropic:  "ANTHROPIC_API_KEY",
	llm.ProviderOpenAI:     "OPENAI_API_KEY",
	llm.ProviderGemini:     "GEMINI_API_KEY",
	llm.ProviderOpenRouter: "OPENROUTER_API_KEY",
}

func discoverLLM(c llm.Config) llm.Config {
	if c.Provider == "" {
		c, _ = c.Discover()
		return c
	}
	v := os.Getenv(standardKeys[c.Provider])
	if v == "" {
		return c
	}
	switch c.Provider {
	case llm.ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			c.Anthropic.APIKey = v
		}
	case llm.ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			c.OpenAI.APIKey = v
		}
	case llm.ProviderGemini:
		if c.Gemini.APIKey == "" {
			c.Gemini.APIKey = v
		}
	case llm.ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			c.OpenRouter.APIKey = v
		}
	}
	return c
}

// findConfigFile returns the first existing default config file, or "".
func findConfigFile() string {
	for _, p := range searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func searchPaths() []string {
	var paths []string
	if p := os.Getenv(PathEnvVar); p != "" {
		paths = append(paths, p)
	}
	paths = append(paths, "gradepath.yaml", "gradepath.yml")

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		paths = append(paths, filepath.Join(configHome, "gradepath", "config.yaml"))
	}
	return paths
}

// envAliases maps flat variable names (after the prefix, lowercased) to
// config keys. Anything else uses "__" as the section separator, e.g.
// GRADEPATH_LLM__RETRY__MAX_ATTEMPTS -> llm.retry.max_attempts.
var envAliases = map[string]string{
	"log_level":    "log.level",
	"log_format":   "log.format",
	"log_file":     "log.file",
	"db":           "store.path",
	"predictor":    "predictor.kind",
	"model_path":   "predictor.model_path",
	"llm_provider": "llm.provider",
	"llm_timeout":  "llm.timeout",
	"addr":         "server.addr",
	"cors_origins": "server.cors_origins",
	"rate_limit":   "server.rate_limit",
	"mail_region":  "mail.region",
	"mail_from":    "mail.from",
	"mail_name":    "mail.from_name",
}

func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if mapped, ok := envAliases[key]; ok {
		return mapped
	}
	return strings.ReplaceAll(key, "__", ".")
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated environment values for slice
// keys. YAML lists are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}
