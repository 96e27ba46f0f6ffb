package alignment

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Indent is the indentation used for every JSON document lyricalign writes.
const Indent = "  "

// Encode writes words as a 2-space indented JSON array.
func Encode(w io.Writer, words []WordTiming) error {
	if words == nil {
		words = []WordTiming{}
	}
	return encodeIndented(w, words)
}

func encodeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", Indent)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Marshal returns the encoded form of words.
func Marshal(words []WordTiming) ([]byte, error) {
	if words == nil {
		words = []WordTiming{}
	}
	return json.MarshalIndent(words, "", Indent)
}

// Unmarshal decodes a JSON array previously produced by Marshal or Encode.
func Unmarshal(data []byte) ([]WordTiming, error) {
	var words []WordTiming
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("decode word timings: %w", err)
	}
	if words == nil {
		words = []WordTiming{}
	}
	return words, nil
}

// DecodeResult parses the segments-of-words JSON produced by helper scripts.
func DecodeResult(r io.Reader) (Result, error) {
	var result Result
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("parse aligner json: %w", err)
	}
	return result, nil
}

// LoadResult reads a helper script's JSON output file.
func LoadResult(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer file.Close()
	return DecodeResult(file)
}
