// Package audioformat infers the container extension handed to the
// transcription service. The result is advisory: bytes are never inspected,
// so a mismatch is only caught when the remote side rejects the file.
package audioformat

import (
	"mime"
	"strings"
)

// DefaultExtension is used for browser recordings that carry no usable metadata.
const DefaultExtension = ".webm"

var contentTypeExtensions = map[string]string{
	"audio/webm":  ".webm",
	"audio/wav":   ".wav",
	"audio/wave":  ".wav",
	"audio/x-wav": ".wav",
	"audio/mpeg":  ".mp3",
	"audio/mp3":   ".mp3",
	"audio/mp4":   ".m4a",
}

// SupportedExtensions lists the containers the transcription service accepts.
var SupportedExtensions = []string{".mp3", ".mp4", ".mpeg", ".mpga", ".m4a", ".wav", ".webm"}

// Resolve returns the extension for an upload. A filename extension wins over the
// declared content-type; with neither, DefaultExtension is returned.
func Resolve(filename, contentType string) string {
	if ext, ok := filenameExtension(filename); ok {
		return ext
	}
	if ext, ok := contentTypeExtensions[MediaType(contentType)]; ok {
		return ext
	}
	return DefaultExtension
}

// MediaType lower-cases a content-type and strips parameters such as
// "codecs=opus". Unparseable values are returned trimmed and lower-cased.
func MediaType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(contentType)
	}
	return mediaType
}

// IsAudio reports whether a declared content-type names an audio payload.
func IsAudio(contentType string) bool {
	return strings.HasPrefix(MediaType(contentType), "audio/")
}

func filenameExtension(filename string) (string, bool) {
	// only the final path element names the file
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return "", false
	}
	return "." + strings.ToLower(filename[i+1:]), true
}

// IsSupported reports whether ext is one of SupportedExtensions.
func IsSupported(ext string) bool {
	for _, s := range SupportedExtensions {
		if s == ext {
			return true
		}
	}
	return false
}
