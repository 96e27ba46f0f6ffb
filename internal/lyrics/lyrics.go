// Package lyrics reads the transcript handed to the aligner.
package lyrics

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidUTF8 is returned when the lyrics file is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("lyrics file is not valid UTF-8")

// ErrEmpty is returned when the lyrics file holds no text at all.
var ErrEmpty = errors.New("lyrics file is empty")

// Read returns the full text of the lyrics file. A leading UTF-8 byte order
// mark is dropped; everything else, including whitespace and line breaks,
// is returned untouched.
func Read(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open lyrics: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode reads all of r as UTF-8 text, stripping a leading byte order mark.
func Decode(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read lyrics: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}
	decoded, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decode lyrics: %w", err)
	}
	text := string(decoded)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	return text, nil
}
