package media

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned when a file does not carry a decodable WAV header.
var ErrInvalidWAV = errors.New("invalid WAV file")

// WAVInfo describes the stream parameters decoded from a WAV header.
type WAVInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// ProbeWAV decodes the header of the WAV file at path.
func ProbeWAV(path string) (WAVInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return WAVInfo{}, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	info := WAVInfo{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	if info.SampleRate <= 0 || info.Channels <= 0 || info.BitDepth <= 0 {
		return WAVInfo{}, fmt.Errorf("%w: %s: empty format chunk", ErrInvalidWAV, path)
	}
	if err := dec.FwdToPCM(); err != nil {
		return WAVInfo{}, fmt.Errorf("%w: %s: %w", ErrInvalidWAV, path, err)
	}
	bytesPerSecond := int64(info.SampleRate) * int64(info.Channels) * int64(info.BitDepth/8)
	if bytesPerSecond > 0 {
		info.Duration = time.Duration(float64(dec.PCMLen()) / float64(bytesPerSecond) * float64(time.Second))
	}
	return info, nil
}
