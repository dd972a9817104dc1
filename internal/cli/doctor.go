package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orenp/quill/internal/credential"
	"github.com/orenp/quill/internal/llm"
	"github.com/orenp/quill/internal/style"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check backend, mailbox, and profile connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println("Running connectivity checks...")

		// Text-generation backend
		apiKey := credential.GeminiAPIKey()
		if apiKey == "" {
			fmt.Println("  [fail] Gemini API key not set")
			fmt.Println("         run 'quill config set-key gemini' or export GEMINI_API_KEY")
		} else {
			gen, err := llm.NewGemini(apiKey, cfg.LLM.Model)
			if err != nil {
				fmt.Printf("  [fail] Gemini client: %v\n", err)
			} else {
				reply, err := gen.Generate(cmd.Context(), llm.GenerateRequest{
					Prompt:      "Say 'Hello' in one word.",
					Temperature: 0,
					MaxTokens:   16,
				})
				if err != nil {
					fmt.Printf("  [fail] Gemini API: %v\n", err)
				} else {
					fmt.Printf("  [ok]   Gemini API responding (%q)\n", reply)
				}
			}
		}

		// Mailbox
		mbox, err := openMailbox(cfg)
		if err != nil {
			fmt.Printf("  [fail] mailbox: %v\n", err)
		} else {
			folders, err := mbox.ListFolders(cmd.Context())
			if err != nil {
				fmt.Printf("  [fail] mailbox connection: %v\n", err)
			} else {
				fmt.Printf("  [ok]   mailbox connected, %d folders\n", len(folders))
			}
		}

		// Style profile
		profile, err := style.LoadProfile(cfg.ProfilePath)
		switch {
		case style.IsNotFound(err):
			fmt.Println("  [warn] no style profile yet; run 'quill extract' first")
		case err != nil:
			fmt.Printf("  [fail] style profile: %v\n", err)
		case profile.Degraded():
			fmt.Println("  [warn] style profile is degraded (unparsed analysis); re-run 'quill extract'")
		default:
			fmt.Printf("  [ok]   style profile loaded (tone: %s)\n", profile.Tone())
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
