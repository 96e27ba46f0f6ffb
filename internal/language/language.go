package language

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Default is the hint used when none is configured.
const Default = "en"

// whisperCodes are the ISO 639-1 codes Whisper-family models accept.
var whisperCodes = []string{
	"af", "am", "ar", "as", "az", "ba", "be", "bg", "bn", "bo", "br", "bs",
	"ca", "cs", "cy", "da", "de", "el", "en", "es", "et", "eu", "fa", "fi",
	"fo", "fr", "gl", "gu", "ha", "he", "hi", "hr", "ht", "hu", "hy", "id",
	"is", "it", "ja", "ka", "kk", "km", "kn", "ko", "la", "lb", "ln", "lo",
	"lt", "lv", "mg", "mi", "mk", "ml", "mn", "mr", "ms", "mt", "my", "ne",
	"nl", "nn", "no", "oc", "pa", "pl", "ps", "pt", "ro", "ru", "sa", "sd",
	"si", "sk", "sl", "sn", "so", "sq", "sr", "su", "sv", "sw", "ta", "te",
	"tg", "th", "tk", "tl", "tr", "tt", "uk", "ur", "uz", "vi", "yi", "yo",
	"zh",
}

// aliases covers inputs x/text does not canonicalize on its own: ISO 639-2/B
// codes and common alternate names.
var aliases = map[string]string{
	"alb": "sq", "arm": "hy", "baq": "eu", "bur": "my", "chi": "zh",
	"cze": "cs", "dut": "nl", "fre": "fr", "geo": "ka", "ger": "de",
	"gre": "el", "ice": "is", "mac": "mk", "mao": "mi", "may": "ms",
	"per": "fa", "rum": "ro", "slo": "sk", "tib": "bo", "wel": "cy",
	"castilian": "es", "farsi": "fa", "flemish": "nl", "mandarin": "zh",
}

var (
	indexOnce sync.Once
	supported map[string]bool
	byName    map[string]string
)

func buildIndex() {
	names := display.English.Languages()
	supported = make(map[string]bool, len(whisperCodes))
	byName = make(map[string]string, len(whisperCodes))
	for _, code := range whisperCodes {
		supported[code] = true
		if name := names.Name(xlanguage.Make(code)); name != "" {
			byName[strings.ToLower(name)] = code
		}
	}
}

// ToISO2 converts a language code, English name or BCP 47 tag to ISO 639-1.
// Unknown 2-letter codes pass through; anything else unrecognized yields "".
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	indexOnce.Do(buildIndex)
	if iso, ok := aliases[code]; ok {
		return iso
	}
	if iso, ok := byName[code]; ok {
		return iso
	}
	if len(code) == 2 && isASCIILetters(code) {
		return code
	}
	tag, err := xlanguage.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf != xlanguage.Exact {
		return ""
	}
	if b := base.String(); len(b) == 2 {
		return b
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if iso := ToISO2(trimmed); iso != "" {
		if tag, err := xlanguage.Parse(iso); err == nil {
			if name := display.English.Languages().Name(tag); name != "" {
				return name
			}
		}
	}
	return cases.Title(xlanguage.English).String(strings.ToLower(trimmed))
}

// Supported reports whether Whisper-family models accept the language.
func Supported(code string) bool {
	indexOnce.Do(buildIndex)
	return supported[ToISO2(code)]
}

func isASCIILetters(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
