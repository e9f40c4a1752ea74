package convert

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"slices"

	"github.com/HugoSmits86/nativewebp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/image/webp"
	"jaytaylor.com/html2text"

	"github.com/YoonkyungKim/fragments/internal/mediatype"
)

// Package convert turns a fragment's stored payload into another renderable
// representation. Output is ephemeral; the stored fragment is never mutated.

var (
	// ErrUnsupportedConversion reports that policy forbids the requested
	// target for this source type. It is an expected outcome, not a fault.
	ErrUnsupportedConversion = errors.New("conversion not supported")

	// ErrConversionFailed reports a transform execution error on a permitted
	// conversion, e.g. malformed source bytes.
	ErrConversionFailed = errors.New("conversion failed")
)

// markdown renders CommonMark plus GFM extensions. WithUnsafe keeps raw HTML
// embedded in the source markdown.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(htmlrenderer.WithUnsafe()),
)

// Convert renders data of sourceType as targetType. Both types must be bare
// media types (no parameters). The source type's renderable-format set
// decides admissibility; an equal source and target is a byte-identical
// passthrough.
func Convert(sourceType, targetType string, data []byte) ([]byte, error) {
	if targetType == "" || !slices.Contains(mediatype.Formats(sourceType), targetType) {
		return nil, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, sourceType, targetType)
	}
	if sourceType == targetType {
		return data, nil
	}

	switch sourceType {
	case mediatype.TextMarkdown:
		switch targetType {
		case mediatype.TextHTML:
			return markdownToHTML(data)
		case mediatype.TextPlain:
			html, err := markdownToHTML(data)
			if err != nil {
				return nil, err
			}
			return htmlToText(html)
		}
	case mediatype.TextHTML:
		if targetType == mediatype.TextPlain {
			return htmlToText(data)
		}
	case mediatype.ApplicationJSON:
		if targetType == mediatype.TextPlain {
			// JSON is already text; serve it verbatim.
			return data, nil
		}
	case mediatype.ImagePNG, mediatype.ImageJPEG, mediatype.ImageWEBP, mediatype.ImageGIF:
		return convertImage(sourceType, targetType, data)
	}

	// Unreachable while the format table and the switch agree; kept as a
	// guard so a table edit without a transform shows up as a rejection.
	return nil, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, sourceType, targetType)
}

func markdownToHTML(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(data, &buf); err != nil {
		return nil, fmt.Errorf("%w: render markdown: %v", ErrConversionFailed, err)
	}
	return buf.Bytes(), nil
}

func htmlToText(data []byte) ([]byte, error) {
	text, err := html2text.FromString(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: reduce html: %v", ErrConversionFailed, err)
	}
	return []byte(text), nil
}

// convertImage re-encodes the decoded raster into the target codec,
// preserving dimensions.
func convertImage(sourceType, targetType string, data []byte) ([]byte, error) {
	img, err := decodeImage(sourceType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrConversionFailed, sourceType, err)
	}

	var buf bytes.Buffer
	if err := encodeImage(targetType, &buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", ErrConversionFailed, targetType, err)
	}
	return buf.Bytes(), nil
}

func decodeImage(sourceType string, r io.Reader) (image.Image, error) {
	switch sourceType {
	case mediatype.ImagePNG:
		return png.Decode(r)
	case mediatype.ImageJPEG:
		return jpeg.Decode(r)
	case mediatype.ImageWEBP:
		return webp.Decode(r)
	case mediatype.ImageGIF:
		return gif.Decode(r)
	}
	return nil, fmt.Errorf("no decoder for %s", sourceType)
}

func encodeImage(targetType string, w io.Writer, img image.Image) error {
	switch targetType {
	case mediatype.ImagePNG:
		return png.Encode(w, img)
	case mediatype.ImageJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case mediatype.ImageWEBP:
		return nativewebp.Encode(w, img, nil)
	case mediatype.ImageGIF:
		return gif.Encode(w, img, nil)
	}
	return fmt.Errorf("no encoder for %s", targetType)
}
