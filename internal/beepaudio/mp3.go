package beepaudio

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

const mp3BytesPerFrame = 4 // go-mp3 always outputs 16-bit stereo

// mp3Streamer adapts llehouerou/go-mp3 to beep.Streamer.
type mp3Streamer struct {
	decoder *mp3.Decoder
	closer  io.Closer
	err     error
	readBuf []byte
}

func decodeMP3(rc io.ReadCloser) (beep.Streamer, beep.Format, error) {
	decoder, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	return &mp3Streamer{
		decoder: decoder,
		closer:  rc,
		readBuf: make([]byte, decodeChunk*mp3BytesPerFrame),
	}, format, nil
}

func (d *mp3Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}

	need := len(samples) * mp3BytesPerFrame
	if len(d.readBuf) < need {
		d.readBuf = make([]byte, need)
	}
	read, err := io.ReadFull(d.decoder, d.readBuf[:need])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		d.err = err
		return 0, false
	}

	n = read / mp3BytesPerFrame
	if n == 0 {
		return 0, false
	}
	for i := range n {
		off := i * mp3BytesPerFrame
		left := int16(binary.LittleEndian.Uint16(d.readBuf[off:]))    //nolint:gosec // audio samples
		right := int16(binary.LittleEndian.Uint16(d.readBuf[off+2:])) //nolint:gosec // audio samples
		samples[i][0] = float64(left) / 32768.0
		samples[i][1] = float64(right) / 32768.0
	}
	return n, true
}

func (d *mp3Streamer) Err() error {
	return d.err
}

func (d *mp3Streamer) Close() error {
	return d.closer.Close()
}
