package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF so it is classified, not treated as malformed
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WEBP
)

// ErrMalformedImage is returned when a payload cannot be parsed as a raster image.
var ErrMalformedImage = errors.New("malformed image")

// Decode parses the image header of raw bytes and returns a handle exposing
// size, dimensions and format.
func Decode(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty payload", ErrMalformedImage)
	}
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrMalformedImage, err)
	}
	return Image{
		Data:     data,
		ByteSize: int64(len(data)),
		Width:    cfg.Width,
		Height:   cfg.Height,
		Format:   formatFromName(name),
	}, nil
}

// DecodeBase64 decodes base64 text (optionally a data URL) and parses the
// resulting bytes with Decode.
func DecodeBase64(encoded string) (Image, error) {
	data, err := decodeBase64String(encoded)
	if err != nil {
		return Image{}, fmt.Errorf("%w: invalid base64: %v", ErrMalformedImage, err)
	}
	return Decode(data)
}

func decodeBase64String(encoded string) ([]byte, error) {
	s := strings.TrimSpace(encoded)
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, errors.New("data url without payload")
		}
		s = s[idx+1:]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, errors.New("empty payload")
	}

	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		out, err := enc.DecodeString(s)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func formatFromName(name string) Format {
	switch strings.ToLower(name) {
	case "jpeg", "jpg":
		return FormatJPEG
	case "png":
		return FormatPNG
	case "bmp":
		return FormatBMP
	case "gif":
		return FormatGIF
	case "webp":
		return FormatWEBP
	case "tiff":
		return FormatTIFF
	default:
		return FormatUnknown
	}
}
