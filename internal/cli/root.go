// Package cli implements the quill command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orenp/quill/internal/config"
	"github.com/orenp/quill/internal/credential"
	"github.com/orenp/quill/internal/llm"
	"github.com/orenp/quill/internal/mailbox"
	"github.com/orenp/quill/internal/store"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Draft email replies in your own writing style",
	Long: `quill learns your writing style from prior correspondence and uses it
to draft replies to new incoming messages.

Typical workflow:
  quill collect            # export messages from a sender as writing samples
  quill extract            # analyze the samples into a style profile
  quill respond            # draft replies to unread mail for review

Drafts are always left for review in your mailbox; nothing is ever sent
automatically.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgPath, "config", "",
		"Path to the config file (default ~/.config/quill/config.yaml)",
	)
}

// loadConfig reads the configuration, falling back to defaults when
// no file exists yet.
func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

// newGenerator builds the Gemini client from the configured credential.
// It returns nil when no API key is available; components treat a nil
// generator as a configuration error before any I/O.
func newGenerator(cfg *config.Config) llm.Generator {
	apiKey := credential.GeminiAPIKey()
	if apiKey == "" {
		return nil
	}

	gen, err := llm.NewGemini(apiKey, cfg.LLM.Model)
	if err != nil {
		return nil
	}
	return gen
}

// openMailbox builds the IMAP adapter from the configuration and the
// keyring password.
func openMailbox(cfg *config.Config) (mailbox.Mailbox, error) {
	if cfg.Mailbox.Host == "" {
		return nil, fmt.Errorf(
			"mailbox host not configured; edit %s", config.DefaultPath(),
		)
	}

	password, err := credential.Get(credential.KeyIMAPPassword)
	if err != nil {
		return nil, fmt.Errorf(
			"IMAP password not set; run 'quill config set-key imap': %w", err,
		)
	}

	return mailbox.NewIMAP(
		cfg.Mailbox.Host,
		cfg.Mailbox.Port,
		cfg.Mailbox.Username,
		password,
		cfg.Mailbox.TLS,
		cfg.Mailbox.DraftsFolder,
	), nil
}

// openHistory opens the local history database.
func openHistory(cfg *config.Config) (store.Store, error) {
	return store.NewSQLiteStore(cfg.HistoryDBPath)
}
