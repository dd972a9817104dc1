package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// MailboxConfig holds the IMAP connection settings.
type MailboxConfig struct {
	// Host is the IMAP server hostname.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the IMAP server port.
	Port string `mapstructure:"port" yaml:"port"`

	// Username is the account to authenticate as.
	Username string `mapstructure:"username" yaml:"username"`

	// TLS selects implicit TLS; when false, STARTTLS is used.
	TLS bool `mapstructure:"tls" yaml:"tls"`

	// Folder is the mailbox folder to read incoming messages from.
	Folder string `mapstructure:"folder" yaml:"folder"`

	// DraftsFolder is where generated replies are saved as drafts.
	DraftsFolder string `mapstructure:"drafts_folder" yaml:"drafts_folder"`
}

// LLMConfig holds settings for the text-generation backend.
type LLMConfig struct {
	Model     string `mapstructure:"model" yaml:"model"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// Config is the top-level application configuration.
type Config struct {
	Mailbox MailboxConfig `mapstructure:"mailbox" yaml:"mailbox"`
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`

	// SamplesDir is where exported writing samples are stored.
	SamplesDir string `mapstructure:"samples_dir" yaml:"samples_dir"`

	// ProfilePath is the location of the style profile document.
	ProfilePath string `mapstructure:"profile_path" yaml:"profile_path"`

	// HistoryDBPath is the location of the local history database.
	HistoryDBPath string `mapstructure:"history_db_path" yaml:"history_db_path"`
}

// DefaultPath returns the default path for the configuration file,
// located at ~/.config/quill/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "quill", "config.yaml")
}

// dataDir returns the default data directory for samples, the style
// profile, and the history database.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "quill")
}

// defaultConfig returns a sensible default configuration.
func defaultConfig() *Config {
	return &Config{
		Mailbox: MailboxConfig{
			Port:         "993",
			TLS:          true,
			Folder:       "INBOX",
			DraftsFolder: "Drafts",
		},
		LLM: LLMConfig{
			Model:     "gemini-2.0-flash",
			MaxTokens: 4096,
		},
		SamplesDir:    filepath.Join(dataDir(), "samples"),
		ProfilePath:   filepath.Join(dataDir(), "style_profile.json"),
		HistoryDBPath: filepath.Join(dataDir(), "history.db"),
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("mailbox.port", "993")
	v.SetDefault("mailbox.tls", true)
	v.SetDefault("mailbox.folder", "INBOX")
	v.SetDefault("mailbox.drafts_folder", "Drafts")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("samples_dir", filepath.Join(dataDir(), "samples"))
	v.SetDefault("profile_path", filepath.Join(dataDir(), "style_profile.json"))
	v.SetDefault("history_db_path", filepath.Join(dataDir(), "history.db"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("mailbox", cfg.Mailbox)
	v.Set("llm", cfg.LLM)
	v.Set("samples_dir", cfg.SamplesDir)
	v.Set("profile_path", cfg.ProfilePath)
	v.Set("history_db_path", cfg.HistoryDBPath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
