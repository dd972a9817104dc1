package cli

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orenp/quill/internal/store"
	"github.com/orenp/quill/internal/style"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Analyze writing samples and build the style profile",
	Long: `Load all writing samples from the samples directory, analyze them with
the text-generation backend, and save the resulting style profile. Each
run replaces the previous profile in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		samples, err := style.LoadSamples(cfg.SamplesDir)
		if err != nil {
			return err
		}
		fmt.Printf(
			"Loaded %d writing samples from %s\n", len(samples), cfg.SamplesDir,
		)

		analyzer := style.NewAnalyzer(newGenerator(cfg))

		fmt.Println("Analyzing writing style...")
		profile, err := analyzer.Extract(
			cmd.Context(), cfg.SamplesDir, cfg.ProfilePath,
		)
		if err != nil {
			return err
		}

		if history, herr := openHistory(cfg); herr == nil {
			formality, _ := profile.Formality()
			rec := store.Extraction{
				SampleCount: len(samples),
				Tone:        profile.Tone(),
				Formality:   formality,
				Degraded:    profile.Degraded(),
			}
			if herr := history.RecordExtraction(cmd.Context(), rec); herr != nil {
				log.Printf("warning: could not record extraction: %v", herr)
			}
			history.Close()
		}

		if profile.Degraded() {
			fmt.Printf("Style profile saved to %s\n", cfg.ProfilePath)
			fmt.Println("Warning: the analysis could not be parsed as structured data.")
			fmt.Printf("  parse error: %s\n", profile.ParseError)
			fmt.Println("  The raw analysis was kept in the profile; inspect it and retry.")
			return nil
		}

		fmt.Println("Style profile created successfully.")
		fmt.Printf("  Tone: %s\n", profile.Tone())
		if formality, ok := profile.Formality(); ok {
			fmt.Printf("  Formality: %d/10\n", formality)
		}
		if phrases := profile.Data.UniquePhrases; len(phrases) > 0 {
			show := phrases
			if len(show) > 5 {
				show = show[:5]
			}
			fmt.Printf("  Unique phrases: %s\n", strings.Join(show, ", "))
		}
		fmt.Printf("Saved to %s\n", cfg.ProfilePath)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
