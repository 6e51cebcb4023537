package track

import (
	"os"
	"path/filepath"
	"strings"
)

// coverStems and coverExts define accepted art files, in priority order.
var (
	coverStems = []string{"cover", "folder", "album", "front"}
	coverExts  = []string{".jpg", ".jpeg", ".png"}
)

// FindAlbumArt returns an image file next to the track, matched without
// regard to case, or "" if there is none.
func FindAlbumArt(trackPath string) string {
	dir := filepath.Dir(trackPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	byName := make(map[string]string, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			byName[strings.ToLower(e.Name())] = e.Name()
		}
	}

	for _, stem := range coverStems {
		for _, ext := range coverExts {
			if name, ok := byName[stem+ext]; ok {
				return filepath.Join(dir, name)
			}
		}
	}
	return ""
}
