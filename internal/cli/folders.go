package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List available mailbox folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		mbox, err := openMailbox(cfg)
		if err != nil {
			return err
		}

		folders, err := mbox.ListFolders(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println("Available folders:")
		for _, folder := range folders {
			fmt.Printf("  %s\n", folder)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(foldersCmd)
}
