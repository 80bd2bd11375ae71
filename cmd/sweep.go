package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"imgbake/internal/engine"
	"imgbake/internal/tui"
)

var (
	sweepConfirm string
	sweepRoots   []string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [flags]",
	Short: "Compress images across the device's shared media folders",
	Long: "sweep recursively bakes every image under the conventional shared-media\n" +
		"roots (DCIM, Pictures, Download, messaging-app media). Combining it with\n" +
		"--delete-originals requires --confirm \"" + engine.ConfirmPhrase + "\".",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := bakeOptions()
		if err != nil {
			return err
		}

		if err := sweepGuard(opts); err != nil {
			return err
		}

		roots := sweepRoots
		if len(roots) == 0 {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			roots = engine.DefaultRoots(home)
		}
		if len(roots) == 0 {
			return fmt.Errorf("no default image roots found (need storage access?)")
		}

		fmt.Fprintln(os.Stdout, "Sweep roots:")
		for _, root := range roots {
			fmt.Fprintf(os.Stdout, " - %s\n", root)
		}

		batch := &engine.Batch{
			Roots:     roots,
			Recursive: true,
			Guard:     func() error { return sweepGuard(opts) },
			Engine:    engine.New(opts),
		}

		summary, outcomes, err := runBatch(cmd.Context(), batch)
		if err != nil {
			return err
		}

		printOutcomes(outcomes)
		fmt.Fprintln(os.Stdout, tui.RenderSummary("SWEEP SUMMARY", summaryRows(summary)))
		return nil
	},
}

// sweepGuard is the destructive-mode safety lock: deleting originals across
// every media root requires the exact confirmation phrase.
func sweepGuard(opts engine.Options) error {
	if !opts.DeleteOnWin {
		return nil
	}
	if strings.TrimSpace(sweepConfirm) == engine.ConfirmPhrase {
		return nil
	}
	return fmt.Errorf("refusing: --delete-originals requires --confirm %q", engine.ConfirmPhrase)
}

func styleFor(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(color)
}

func init() {
	addBakeFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepConfirm, "confirm", "", "exact confirmation phrase for --delete-originals")
	sweepCmd.Flags().StringArrayVar(&sweepRoots, "root", nil, "override the default media roots (repeatable)")

	rootCmd.AddCommand(sweepCmd)
}
