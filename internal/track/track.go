// Package track loads audio files into memory for the playback engine.
package track

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

// maxConcurrentLoads bounds LoadAll's parallel file reads.
const maxConcurrentLoads = 4

// Track is raw audio bytes plus what is known about them before decoding.
// The engine only borrows a Track while it is the active one.
type Track struct {
	Path        string
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Data        []byte
	Duration    time.Duration // hint, zero if unknown
}

// New wraps in-memory audio data.
func New(name string, data []byte) Track {
	return Track{Path: name, Title: name, Data: data}
}

// Load reads path and its tags. Missing or unreadable tags are not an error.
func Load(path string) (Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Track{}, err
	}

	t := Track{
		Path:  path,
		Title: filepath.Base(path),
		Data:  data,
	}

	m, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return t, nil //nolint:nilerr // untagged files are still playable
	}
	if title := m.Title(); title != "" {
		t.Title = title
	}
	t.Artist = m.Artist()
	t.Album = m.Album()
	t.TrackNumber, _ = m.Track()
	return t, nil
}

// LoadAll loads paths concurrently and returns tracks in the same order.
func LoadAll(ctx context.Context, paths []string) ([]Track, error) {
	tracks := make([]Track, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := Load(p)
			if err != nil {
				return fmt.Errorf("load %s: %w", p, err)
			}
			tracks[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tracks, nil
}

// Collect expands roots into playable file paths. Directories are walked
// recursively and their files sorted by path; files are kept in argument
// order. Files with other extensions are skipped.
func Collect(roots ...string) ([]string, error) {
	var out []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if IsMusicFile(root) {
				out = append(out, root)
			}
			continue
		}

		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsMusicFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}

// IsMusicFile reports whether path has an extension the decoder handles.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extWAV, extOGG:
		return true
	}
	return false
}

// DisplayName returns "Artist - Title", or just the title.
func (t Track) DisplayName() string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " - " + t.Title
}

// Size returns the human-readable size of the raw data.
func (t Track) Size() string {
	return humanize.Bytes(uint64(len(t.Data)))
}
