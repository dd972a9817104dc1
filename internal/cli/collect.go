package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/orenp/quill/internal/mailbox"
)

var (
	collectSender string
	collectCount  int
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Export messages from a sender as writing samples",
	Long: `Search the mailbox for messages received from a specific sender and
save them as writing sample files in the samples directory. Re-running
the command skips samples that were already exported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sender := collectSender
		count := collectCount

		if sender == "" {
			countStr := strconv.Itoa(count)
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Sender email address to collect from").
						Value(&sender).
						Validate(func(s string) error {
							if !strings.Contains(s, "@") {
								return fmt.Errorf("invalid email address")
							}
							return nil
						}),
					huh.NewInput().
						Title("How many messages to collect").
						Value(&countStr).
						Validate(func(s string) error {
							n, err := strconv.Atoi(s)
							if err != nil || n < 1 {
								return fmt.Errorf("enter a positive number")
							}
							return nil
						}),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
			count, _ = strconv.Atoi(countStr)
		}

		mbox, err := openMailbox(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("Searching for messages from %s...\n", sender)
		fmt.Printf("Saving samples to %s\n", cfg.SamplesDir)

		result, err := mailbox.Export(
			cmd.Context(), mbox, sender, cfg.SamplesDir, count,
			func(scanned, exported int) {
				fmt.Printf(
					"  ... scanned %d messages, exported %d so far\n",
					scanned, exported,
				)
			},
		)
		if err != nil {
			return err
		}

		fmt.Printf(
			"Done: %d exported, %d already present, %d errors (%d scanned)\n",
			result.Exported, result.Skipped, result.Errored, result.Scanned,
		)
		if result.Exported > 0 {
			fmt.Println("Next step: run 'quill extract' to build your style profile.")
		} else if result.Skipped == 0 {
			fmt.Printf(
				"No messages found from %s. Check the address and try again.\n",
				sender,
			)
		}

		return nil
	},
}

func init() {
	collectCmd.Flags().StringVar(
		&collectSender, "sender", "", "Sender address to collect from",
	)
	collectCmd.Flags().IntVar(
		&collectCount, "count", 100, "Maximum number of messages to export",
	)
	rootCmd.AddCommand(collectCmd)
}
