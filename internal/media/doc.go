// Package media prepares audio input for the aligners.
//
// ConvertToWAV transcodes any ffmpeg-readable input into mono PCM WAV, and
// ProbeWAV decodes a WAV header so a corrupt file fails before a model is
// loaded.
package media
