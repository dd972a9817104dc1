package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/orenp/quill/internal/config"
	"github.com/orenp/quill/internal/credential"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration and credentials",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		fmt.Println(path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.DefaultPath()
		}

		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}

		fmt.Printf("Config written to %s\n", path)
		fmt.Println("Edit the mailbox section, then run 'quill config set-key imap'.")
		return nil
	},
}

var configSetKeyCmd = &cobra.Command{
	Use:       "set-key [gemini|imap]",
	Short:     "Store a credential in the system keyring",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"gemini", "imap"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var key, title string
		switch args[0] {
		case "gemini":
			key = credential.KeyGeminiAPIKey
			title = "Gemini API key"
		case "imap":
			key = credential.KeyIMAPPassword
			title = "IMAP password"
		default:
			return fmt.Errorf("unknown credential %q (want gemini or imap)", args[0])
		}

		var value string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title(title).
					EchoMode(huh.EchoModePassword).
					Value(&value).
					Validate(func(s string) error {
						if s == "" {
							return fmt.Errorf("value must not be empty")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}

		if err := credential.Set(key, value); err != nil {
			return err
		}

		fmt.Printf("Stored %s in the system keyring.\n", title)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}
