package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"imgbake/internal/engine"
	"imgbake/internal/tui"
)

var scanRecursive bool

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <folder>",
	Short: "Preview candidates without modifying files",
	Long: "scan lists the images a bake run would process, their sizes, whether they\n" +
		"are already marked, and any EXIF metadata a re-encode would discard.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := engine.Scan(args[0], scanRecursive)
		if err != nil {
			return err
		}

		var candidates, marked int
		var totalBytes int64

		for _, path := range files {
			info, statErr := os.Stat(path)
			if statErr != nil {
				continue
			}
			totalBytes += info.Size()

			name := path
			if rel, relErr := filepath.Rel(args[0], path); relErr == nil {
				name = rel
			}

			status := "candidate"
			style := scanFileStyle
			if engine.IsMarked(path) {
				status = "marked"
				style = scanDimStyle
				marked++
			} else {
				candidates++
			}

			fmt.Fprintf(os.Stdout, "%s %s\n",
				style.Render(name),
				scanDimStyle.Render(fmt.Sprintf("(%s, %s)", engine.FormatBytes(info.Size()), status)),
			)

			report, exifErr := engine.InspectExif(path)
			if exifErr != nil {
				fmt.Fprintf(os.Stdout, "  %s %s\n",
					scanBulletStyle.Render("-"),
					scanDimStyle.Render("exif unreadable: "+exifErr.Error()),
				)
				continue
			}
			if cats := report.Categories(); len(cats) > 0 {
				fmt.Fprintf(os.Stdout, "  %s %s\n",
					scanBulletStyle.Render("-"),
					scanWarnStyle.Render("baking discards: "+strings.Join(cats, ", ")),
				)
			}
		}

		fmt.Fprintln(os.Stdout)
		fmt.Fprintf(os.Stdout, "%d candidates, %d already marked, %s total\n",
			candidates, marked, engine.FormatBytes(totalBytes))
		return nil
	},
}

var (
	scanFileStyle   = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	scanWarnStyle   = lipgloss.NewStyle().Foreground(tui.ColorWarn)
	scanDimStyle    = lipgloss.NewStyle().Foreground(tui.ColorDim)
	scanBulletStyle = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	scanCmd.Flags().BoolVarP(&scanRecursive, "recursive", "r", false, "recurse into subfolders")

	rootCmd.AddCommand(scanCmd)
}
