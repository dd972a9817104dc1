package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/orenp/quill/internal/textutil"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent extractions and drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		history, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer history.Close()

		extractions, err := history.RecentExtractions(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		drafts, err := history.RecentDrafts(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

		fmt.Fprintln(w, "EXTRACTIONS")
		fmt.Fprintln(w, "when\tsamples\ttone\tformality\tstatus")
		for _, e := range extractions {
			status := "ok"
			if e.Degraded {
				status = "degraded"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%d/10\t%s\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04"),
				e.SampleCount, e.Tone, e.Formality, status,
			)
		}

		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "DRAFTS")
		fmt.Fprintln(w, "when\tsender\tsubject\tattempts")
		for _, d := range drafts {
			subject := textutil.Ellipsis(d.Subject, 40)
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
				d.CreatedAt.Local().Format("2006-01-02 15:04"),
				d.Sender, subject, d.Attempts,
			)
		}

		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum rows per section")
	rootCmd.AddCommand(historyCmd)
}
