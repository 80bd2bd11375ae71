package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"imgbake/internal/engine"
	"imgbake/internal/tui"
)

var bakeRecursive bool

var bakeCmd = &cobra.Command{
	Use:   "bake [flags] <folder>",
	Short: "Compress images in a folder, marking winners with [D]",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := bakeOptions()
		if err != nil {
			return err
		}

		batch := &engine.Batch{
			Roots:     []string{args[0]},
			Recursive: bakeRecursive,
			Engine:    engine.New(opts),
		}

		summary, outcomes, err := runBatch(cmd.Context(), batch)
		if err != nil {
			return err
		}

		printOutcomes(outcomes)
		fmt.Fprintln(os.Stdout, tui.RenderSummary("BAKE SUMMARY", summaryRows(summary)))
		return nil
	},
}

func init() {
	addBakeFlags(bakeCmd)
	bakeCmd.Flags().BoolVarP(&bakeRecursive, "recursive", "r", false, "recurse into subfolders")

	rootCmd.AddCommand(bakeCmd)
}

// runBatch drives a batch under the live progress UI. The UI exits when the
// updates channel closes.
func runBatch(ctx context.Context, batch *engine.Batch) (engine.Summary, []engine.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	updates := make(chan engine.ProgressUpdate, 64)
	program := tea.NewProgram(tui.NewModel(updates))

	uiDone := make(chan struct{})
	go func() {
		_, _ = program.Run()
		close(uiDone)
	}()

	summary, outcomes, err := batch.Run(ctx, updates)
	close(updates)
	<-uiDone

	return summary, outcomes, err
}

func printOutcomes(outcomes []engine.Outcome) {
	total := len(outcomes)
	for i, outcome := range outcomes {
		pct := 0.0
		if total > 0 {
			pct = float64(i+1) / float64(total) * 100
		}
		line := fmt.Sprintf("[%d/%d | %6.2f%%] %s", i+1, total, pct, outcome.Message)
		switch outcome.Kind {
		case engine.OutcomeWon:
			fmt.Fprintln(os.Stdout, wonStyle.Render(line))
		case engine.OutcomeFailed:
			fmt.Fprintln(os.Stdout, failStyle.Render(line))
		default:
			fmt.Fprintln(os.Stdout, keptStyle.Render(line))
		}
	}
}

func summaryRows(s engine.Summary) []tui.SummaryRow {
	return []tui.SummaryRow{
		{Label: "Total images", Value: fmt.Sprintf("%d", s.Total)},
		{Label: "Baked (wins)", Value: fmt.Sprintf("%d", s.Won)},
		{Label: "Kept original", Value: fmt.Sprintf("%d", s.Kept)},
		{Label: "Skipped", Value: fmt.Sprintf("%d", s.Skipped)},
		{Label: "Errors", Value: fmt.Sprintf("%d", s.Errors)},
		{Label: "Total size", Value: fmt.Sprintf("%s -> %s", engine.FormatBytes(s.BytesBefore), engine.FormatBytes(s.BytesAfter))},
		{Label: "Saved", Value: fmt.Sprintf("%s (%.2f%%)", engine.FormatBytes(s.Saved()), s.SavedPercent())},
	}
}

var (
	wonStyle  = styleFor(tui.ColorSuccess)
	keptStyle = styleFor(tui.ColorDim)
	failStyle = styleFor(tui.ColorWarn)
)
