package aligncache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"lyricalign/internal/fileutil"
)

// Key identifies one cached alignment.
type Key struct {
	AudioSHA256  string
	LyricsSHA256 string
	Backend      string
	Model        string
	Language     string
}

// NewKey hashes the audio file and lyrics text into a Key.
func NewKey(audioPath, lyrics, backend, model, language string) (Key, error) {
	audioSum, err := HashFile(audioPath)
	if err != nil {
		return Key{}, err
	}
	return Key{
		AudioSHA256:  audioSum,
		LyricsSHA256: HashString(lyrics),
		Backend:      backend,
		Model:        model,
		Language:     language,
	}, nil
}

// HashFile returns the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	sum, err := fileutil.SHA256File(path)
	if err != nil {
		return "", fmt.Errorf("hash audio: %w", err)
	}
	return sum, nil
}

// HashString returns the hex SHA-256 of s.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (k Key) valid() bool {
	return k.AudioSHA256 != "" && k.LyricsSHA256 != "" && k.Backend != "" && k.Model != ""
}
