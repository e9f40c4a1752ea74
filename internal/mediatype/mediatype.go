package mediatype

import (
	"mime"
	"strings"
)

// Package mediatype is the single source of truth for which content types
// fragments may be created with, and which representations each type can be
// served as. Adding a type is a table edit here, nothing else.

const (
	TextPlain       = "text/plain"
	TextMarkdown    = "text/markdown"
	TextHTML        = "text/html"
	ApplicationJSON = "application/json"
	ImagePNG        = "image/png"
	ImageJPEG       = "image/jpeg"
	ImageWEBP       = "image/webp"
	ImageGIF        = "image/gif"
)

// formats maps each supported media type to the closed set of media types it
// can be rendered as. Every entry includes the source type itself, so a
// fragment can always be returned unchanged. The conversion engine must stay
// in sync with this table.
var formats = map[string][]string{
	TextPlain:       {TextPlain},
	TextMarkdown:    {TextPlain, TextMarkdown, TextHTML},
	TextHTML:        {TextPlain, TextHTML},
	ApplicationJSON: {TextPlain, ApplicationJSON},
	ImagePNG:        {ImagePNG, ImageJPEG, ImageWEBP, ImageGIF},
	ImageJPEG:       {ImagePNG, ImageJPEG, ImageWEBP, ImageGIF},
	ImageWEBP:       {ImagePNG, ImageJPEG, ImageWEBP, ImageGIF},
	ImageGIF:        {ImagePNG, ImageJPEG, ImageWEBP, ImageGIF},
}

// extensions maps a file-extension-style suffix to its canonical media type.
var extensions = map[string]string{
	".txt":  TextPlain,
	".md":   TextMarkdown,
	".html": TextHTML,
	".json": ApplicationJSON,
	".png":  ImagePNG,
	".jpg":  ImageJPEG,
	".jpeg": ImageJPEG,
	".webp": ImageWEBP,
	".gif":  ImageGIF,
}

// Parse returns the media type (type/subtype) of a Content-Type value with
// any parameters stripped: "text/html; charset=utf-8" -> "text/html".
func Parse(value string) string {
	mt, _, err := mime.ParseMediaType(value)
	if err != nil {
		// Fall back to a manual cut so malformed but recognizable values
		// (e.g. a stray trailing semicolon) still resolve.
		mt, _, _ = strings.Cut(value, ";")
		mt = strings.ToLower(strings.TrimSpace(mt))
	}
	return mt
}

// IsSupported reports whether the media-type portion of value is one of the
// types fragments may be created with. Parameters are ignored.
func IsSupported(value string) bool {
	_, ok := formats[Parse(value)]
	return ok
}

// Formats returns the renderable target media types for the given media type.
// The returned slice is a copy; callers may modify it. Unknown types yield nil.
func Formats(mediaType string) []string {
	fs, ok := formats[mediaType]
	if !ok {
		return nil
	}
	out := make([]string, len(fs))
	copy(out, fs)
	return out
}

// FromExtension resolves an extension suffix (with or without the leading dot)
// to its canonical media type.
func FromExtension(ext string) (string, bool) {
	if ext == "" {
		return "", false
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	mt, ok := extensions[strings.ToLower(ext)]
	return mt, ok
}
