package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orenp/quill/internal/textutil"
)

var checkMax int

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "List unread messages without generating replies",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		mbox, err := openMailbox(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("Checking unread messages in %q...\n", cfg.Mailbox.Folder)

		messages, err := mbox.FetchUnread(
			cmd.Context(), cfg.Mailbox.Folder, checkMax,
		)
		if err != nil {
			return err
		}

		if len(messages) == 0 {
			fmt.Println("No unread messages.")
			return nil
		}

		fmt.Printf("Found %d unread message(s):\n\n", len(messages))
		for i, msg := range messages {
			preview := strings.NewReplacer("\n", " ", "\r", "").Replace(msg.Body)
			preview = textutil.Ellipsis(preview, 80)
			fmt.Printf("  %d. From: %s\n", i+1, msg.Sender())
			fmt.Printf("     Subject: %s\n", msg.Subject)
			fmt.Printf("     Received: %s\n", msg.Received.Format("2006-01-02 15:04"))
			fmt.Printf("     Preview: %s\n\n", preview)
		}

		return nil
	},
}

func init() {
	checkCmd.Flags().IntVar(&checkMax, "max", 10, "Maximum messages to list")
	rootCmd.AddCommand(checkCmd)
}
