package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lyricalign/internal/services"
)

// DefaultSampleRate is the rate Whisper-family models expect.
const DefaultSampleRate = 16000

// IsWAV reports whether path carries a .wav extension.
func IsWAV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".wav")
}

// ConvertArgs builds the ffmpeg arguments that transcode source into a mono
// 16-bit PCM WAV at sampleRate.
func ConvertArgs(source, dest string, sampleRate int) []string {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", "pcm_s16le",
		dest,
	}
}

// ConvertToWAV transcodes source into dest using ffmpeg.
func ConvertToWAV(ctx context.Context, runner services.CommandRunner, ffmpegBinary, source, dest string, sampleRate int) error {
	if source == "" || dest == "" {
		return fmt.Errorf("convert audio: source and destination required")
	}
	if runner == nil {
		runner = services.RunCommand
	}
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("convert audio: ensure output dir: %w", err)
	}
	cmd := services.Command{Name: ffmpegBinary, Args: ConvertArgs(source, dest, sampleRate)}
	if err := runner(ctx, cmd); err != nil {
		return services.Wrap(services.ErrFileAccess, "convert", "ffmpeg", "transcode "+filepath.Base(source), err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		return services.Wrap(services.ErrFileAccess, "convert", "ffmpeg", "output missing", err)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrFileAccess, "convert", "ffmpeg", "output is empty", nil)
	}
	return nil
}
