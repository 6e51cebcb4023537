//go:build !windows

package logging

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
)

// CaptureStderr redirects file descriptor 2 into logger. C audio libraries
// (ALSA, PortAudio) write there directly and would corrupt the TUI.
// The returned func restores the original stderr and waits for the reader.
func CaptureStderr(logger zerolog.Logger) (restore func(), err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	fd := int(os.Stderr.Fd())
	orig, err := syscall.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), fd); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		forwardLines(r, logger)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = syscall.Dup2(orig, fd)
			_ = syscall.Close(orig)
			w.Close()
			wg.Wait()
			r.Close()
		})
	}, nil
}

func forwardLines(f *os.File, logger zerolog.Logger) {
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			logger.Warn().Str("source", "stderr").Msg(line)
		}
	}
}
