package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"imgbake/internal/engine"
	"imgbake/pkg/imgutil"
)

var rootCmd = &cobra.Command{
	Use:   "imgbake",
	Short: "imgbake 🔥 - batch-compress images with safe temp handling",
	Long: "imgbake 🔥 re-encodes images in place, keeps the original whenever the\n" +
		"re-encode is not strictly smaller, and tags winning outputs with [D].",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

// Flags shared by the bake and sweep commands.
var (
	flagFormat     string
	flagQuality    int
	flagDeleteWins bool
	flagBackupDir  string
	flagSkipMarked bool
)

func addBakeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFormat, "fmt", "keep", "output format: keep, jpg, png, webp")
	cmd.Flags().IntVarP(&flagQuality, "quality", "q", 85, "JPEG/WebP quality")
	cmd.Flags().BoolVar(&flagDeleteWins, "delete-originals", false, "delete originals only when the bake wins")
	cmd.Flags().StringVar(&flagBackupDir, "backup", "", "copy originals here before any change")
	cmd.Flags().BoolVar(&flagSkipMarked, "skip-marked", true, "skip files already marked with [D]")
}

// bakeOptions builds engine options from the shared flags. Unknown --fmt
// values are rejected before any file is touched.
func bakeOptions() (engine.Options, error) {
	policy := engine.PreserveFormat()
	if flagFormat != "keep" {
		format := imgutil.ParseFormat(flagFormat)
		if format == imgutil.FormatUnknown {
			return engine.Options{}, fmt.Errorf("unknown --fmt %q (use keep, jpg, png, or webp)", flagFormat)
		}
		policy = engine.ConvertTo(format)
	}

	return engine.Options{
		Policy:      policy,
		Quality:     flagQuality,
		DeleteOnWin: flagDeleteWins,
		BackupDir:   flagBackupDir,
		SkipMarked:  flagSkipMarked,
	}, nil
}
