package beepaudio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"

	"github.com/llehouerou/wavescope/internal/audio"
)

const (
	resampleQuality = 4
	decodeChunk     = 4096
)

var errNoFrames = errors.New("beepaudio: no audio frames")

type container int

const (
	containerUnknown container = iota
	containerMP3
	containerFLAC
	containerWAV
	containerOgg
)

func (c container) String() string {
	switch c {
	case containerMP3:
		return "mp3"
	case containerFLAC:
		return "flac"
	case containerWAV:
		return "wav"
	case containerOgg:
		return "ogg"
	default:
		return "unknown"
	}
}

// Decode decodes a complete MP3, FLAC, WAV or Ogg Vorbis file into a buffer at
// the context's sample rate. ctx is checked between chunks.
func (c *Context) Decode(ctx context.Context, data []byte) (audio.Buffer, error) {
	if c.isClosed() {
		return nil, audio.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind := sniff(data)
	s, format, err := openStream(kind, data)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", kind, err)
	}
	if closer, ok := s.(io.Closer); ok {
		defer closer.Close()
	}

	samples, err := readAll(ctx, s, format.SampleRate, c.rate)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return &buffer{samples: samples, rate: c.rate}, nil
}

// sniff identifies the container from its magic bytes.
func sniff(data []byte) container {
	body := skipID3v2(data)
	switch {
	case bytes.HasPrefix(body, []byte("fLaC")):
		return containerFLAC
	case len(body) >= 12 && string(body[:4]) == "RIFF" && string(body[8:12]) == "WAVE":
		return containerWAV
	case bytes.HasPrefix(body, []byte("OggS")):
		return containerOgg
	case len(body) < len(data):
		return containerMP3
	case len(body) >= 2 && body[0] == 0xFF && body[1]&0xE0 == 0xE0:
		return containerMP3
	}
	return containerUnknown
}

// skipID3v2 returns data past a leading ID3v2 tag.
func skipID3v2(data []byte) []byte {
	if len(data) < 10 || string(data[:3]) != "ID3" {
		return data
	}
	size := int(data[6]&0x7f)<<21 | int(data[7]&0x7f)<<14 | int(data[8]&0x7f)<<7 | int(data[9]&0x7f)
	end := 10 + size
	if data[5]&0x10 != 0 {
		end += 10
	}
	if end > len(data) {
		return nil
	}
	return data[end:]
}

func openStream(kind container, data []byte) (beep.Streamer, beep.Format, error) {
	switch kind {
	case containerMP3:
		return decodeMP3(io.NopCloser(bytes.NewReader(data)))
	case containerFLAC:
		s, f, err := flac.Decode(bytes.NewReader(skipID3v2(data)))
		return s, f, err
	case containerOgg:
		s, f, err := vorbis.Decode(io.NopCloser(bytes.NewReader(data)))
		return s, f, err
	case containerWAV:
		return decodeWAV(data)
	default:
		return nil, beep.Format{}, audio.ErrUnsupportedFormat
	}
}

// readAll drains s, resampling to rate.
func readAll(ctx context.Context, s beep.Streamer, from, to beep.SampleRate) ([][2]float64, error) {
	if from != to {
		s = beep.Resample(resampleQuality, from, to, s)
	}
	chunk := make([][2]float64, decodeChunk)
	var out [][2]float64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, ok := s.Stream(chunk)
		out = append(out, chunk[:n]...)
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errNoFrames
	}
	return out, nil
}

// decodeWAV reads a PCM WAV file fully and exposes it as a streamer.
func decodeWAV(data []byte) (beep.Streamer, beep.Format, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, beep.Format{}, audio.ErrUnsupportedFormat
	}
	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, beep.Format{}, err
	}
	if pcm.Format == nil || pcm.Format.NumChannels <= 0 || pcm.Format.SampleRate <= 0 {
		return nil, beep.Format{}, audio.ErrUnsupportedFormat
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(pcm.Format.SampleRate),
		NumChannels: min(pcm.Format.NumChannels, 2),
		Precision:   max(pcm.SourceBitDepth/8, 1),
	}
	return &pcmStreamer{frames: toStereo(pcm)}, format, nil
}

// toStereo converts interleaved integer PCM to stereo floats. Mono is
// duplicated; channels past the second are dropped.
func toStereo(pcm *goaudio.IntBuffer) [][2]float64 {
	ch := pcm.Format.NumChannels
	scale := fullScale(pcm.SourceBitDepth)
	frames := make([][2]float64, len(pcm.Data)/ch)
	for i := range frames {
		l := float64(pcm.Data[i*ch]) / scale
		r := l
		if ch > 1 {
			r = float64(pcm.Data[i*ch+1]) / scale
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

// fullScale returns the magnitude of full scale for signed samples of the given depth.
func fullScale(depth int) float64 {
	if depth <= 0 {
		depth = 16
	}
	return float64(int64(1) << (depth - 1))
}

type pcmStreamer struct {
	frames [][2]float64
	pos    int
}

func (p *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	if p.pos >= len(p.frames) {
		return 0, false
	}
	n := copy(samples, p.frames[p.pos:])
	p.pos += n
	return n, true
}

func (p *pcmStreamer) Err() error { return nil }
