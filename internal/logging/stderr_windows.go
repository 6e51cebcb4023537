//go:build windows

package logging

import "github.com/rs/zerolog"

// CaptureStderr is a no-op on Windows: its audio backends do not write to
// the console.
func CaptureStderr(_ zerolog.Logger) (restore func(), err error) {
	return func() {}, nil
}
