package imaging

import "strings"

// Format is the declared encoding of a decoded image.
type Format string

const (
	FormatJPEG    Format = "JPEG"
	FormatJPG     Format = "JPG"
	FormatPNG     Format = "PNG"
	FormatBMP     Format = "BMP"
	FormatGIF     Format = "GIF"
	FormatWEBP    Format = "WEBP"
	FormatTIFF    Format = "TIFF"
	FormatUnknown Format = "UNKNOWN"
)

// Extension returns a file extension suitable for storing an image of this format.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG, FormatJPG:
		return ".jpg"
	case FormatUnknown, "":
		return ".bin"
	default:
		return "." + strings.ToLower(string(f))
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG, FormatJPG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatBMP:
		return "image/bmp"
	case FormatGIF:
		return "image/gif"
	case FormatWEBP:
		return "image/webp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "application/octet-stream"
	}
}

// FormatFromExtension maps a stored file extension back to a format.
func FormatFromExtension(ext string) Format {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "jpg", "jpeg":
		return FormatJPEG
	case "png":
		return FormatPNG
	case "bmp":
		return FormatBMP
	case "gif":
		return FormatGIF
	case "webp":
		return FormatWEBP
	case "tif", "tiff":
		return FormatTIFF
	default:
		return FormatUnknown
	}
}

// Image is a decoded-image handle. Only the header has been parsed; Data holds
// the original encoded bytes.
type Image struct {
	Data     []byte
	ByteSize int64
	Width    int
	Height   int
	Format   Format
}

// ErrorCode classifies why a transaction was rejected. The values are
// persisted and must stay stable.
type ErrorCode int

const (
	CodeSize         ErrorCode = 1
	CodeResolution   ErrorCode = 2
	CodeFormat       ErrorCode = 3
	CodeFrontMissing ErrorCode = 4
	CodeBackMissing  ErrorCode = 5
)

func (c ErrorCode) String() string {
	switch c {
	case CodeSize:
		return "size"
	case CodeResolution:
		return "resolution"
	case CodeFormat:
		return "format"
	case CodeFrontMissing:
		return "frontside_missing"
	case CodeBackMissing:
		return "backside_missing"
	default:
		return "unknown"
	}
}
