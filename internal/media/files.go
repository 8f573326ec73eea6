// Package media prepares lesson recordings for transcription.
package media

import (
	"path/filepath"
	"strings"
)

var (
	videoExtensions = map[string]bool{
		".mp4": true, ".mov": true, ".mkv": true, ".webm": true, ".avi": true, ".m4v": true,
	}
	audioExtensions = map[string]bool{
		".m4a": true, ".mp3": true, ".wav": true, ".ogg": true, ".flac": true, ".aac": true, ".wma": true,
	}
)

// IsVideo reports whether path has a supported video extension.
func IsVideo(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsAudio reports whether path has a supported audio extension.
func IsAudio(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsSupported reports whether path can be transcribed.
func IsSupported(path string) bool {
	return IsVideo(path) || IsAudio(path)
}

// Stem is the file name without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
