// Package language normalizes the language hint handed to the aligners.
//
// Whisper-family models take ISO 639-1 codes; users type whatever is at hand
// ("en", "eng", "English", "en-US"). Everything funnels through ToISO2 so both
// backends receive the same code.
package language
