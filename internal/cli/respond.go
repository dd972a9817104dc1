package cli

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/orenp/quill/internal/compose"
	"github.com/orenp/quill/internal/review"
	"github.com/orenp/quill/internal/store"
	"github.com/orenp/quill/internal/style"
	uireview "github.com/orenp/quill/internal/ui/review"
)

var respondMax int

var respondCmd = &cobra.Command{
	Use:   "respond",
	Short: "Draft replies to unread messages for review",
	Long: `Fetch unread messages and, for each one, generate a reply in your
style and open the review screen. Accepted replies are saved as drafts
in the mailbox; skipped messages are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		profile, err := style.LoadProfile(cfg.ProfilePath)
		if err != nil {
			if style.IsNotFound(err) {
				fmt.Println("No style profile found.")
				fmt.Println("Run 'quill extract' first to analyze your writing samples.")
			}
			return err
		}

		composer := compose.NewComposer(newGenerator(cfg))

		mbox, err := openMailbox(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("Fetching unread messages from %q...\n", cfg.Mailbox.Folder)
		messages, err := mbox.FetchUnread(
			cmd.Context(), cfg.Mailbox.Folder, respondMax,
		)
		if err != nil {
			return err
		}

		if len(messages) == 0 {
			fmt.Println("No unread messages.")
			return nil
		}

		history, err := openHistory(cfg)
		if err != nil {
			log.Printf("warning: history unavailable: %v", err)
			history = nil
		} else {
			defer history.Close()
		}

		accepted, skipped, failed := 0, 0, 0
		for i, msg := range messages {
			fmt.Printf("[%d/%d] %s: %s\n", i+1, len(messages), msg.Sender(), msg.Subject)

			model := uireview.New(msg, composer, profile)
			finalModel, err := tea.NewProgram(model).Run()
			if err != nil {
				return fmt.Errorf("running review screen: %w", err)
			}

			state, draft, attempts := finalModel.(uireview.Model).Outcome()
			if state != review.StateAccepted {
				skipped++
				fmt.Println("  Skipped.")
				continue
			}

			if err := mbox.CreateDraftReply(cmd.Context(), msg.ID, draft); err != nil {
				failed++
				fmt.Printf("  Could not save draft: %v\n", err)
				fmt.Println("  Reply text:")
				fmt.Println(draft)
				continue
			}

			accepted++
			fmt.Println("  Draft saved to the mailbox drafts folder.")

			if history != nil {
				rec := store.Draft{
					MessageID: msg.ID,
					Subject:   msg.Subject,
					Sender:    msg.SenderAddr,
					Body:      draft,
					Accepted:  true,
					Attempts:  attempts,
				}
				if err := history.RecordDraft(cmd.Context(), rec); err != nil {
					log.Printf("warning: could not record draft: %v", err)
				}
			}
		}

		fmt.Println(respondSummary(accepted, skipped, failed))
		return nil
	},
}

// respondSummary formats the closing line so every processed message is
// accounted for: accepted, skipped, or failed to save.
func respondSummary(accepted, skipped, failed int) string {
	line := fmt.Sprintf("Done: %d draft(s) created, %d skipped", accepted, skipped)
	if failed > 0 {
		line += fmt.Sprintf(", %d failed to save", failed)
	}
	return line + ". Review them before sending."
}

func init() {
	respondCmd.Flags().IntVar(&respondMax, "max", 10, "Maximum messages to process")
	rootCmd.AddCommand(respondCmd)
}
