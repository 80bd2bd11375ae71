package engine

import (
	"os"
	"path/filepath"
)

// ConfirmPhrase must be passed verbatim to run a multi-root sweep with
// original deletion enabled.
const ConfirmPhrase = "I UNDERSTAND THIS DELETES ORIGINALS"

// DefaultRoots returns the conventional shared-media directories under home
// that exist on this machine. These match the Termux/Android shared-storage
// layout the tool was built around.
func DefaultRoots(home string) []string {
	shared := filepath.Join(home, "storage", "shared")
	candidates := []string{
		filepath.Join(shared, "DCIM"),
		filepath.Join(shared, "Pictures"),
		filepath.Join(shared, "Download"),
		filepath.Join(shared, "WhatsApp", "Media"),
		filepath.Join(shared, "Telegram"),
	}

	var roots []string
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
		}
	}
	return roots
}
