//go:build !linux

package trash

import (
	"os"
	"path/filepath"
)

// Outside freedesktop systems the bin is private to crumbbar.
func defaultDir() string {
	cache, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(cache, "crumbbar", "Trash")
}
