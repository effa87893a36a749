//go:build linux

package trash

import (
	"os"
	"path/filepath"
)

// defaultDir is $XDG_DATA_HOME/Trash, falling back to ~/.local/share/Trash.
func defaultDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "Trash")
}
