package imaging

import (
	"fmt"
	"strings"
)

// Resolution is a width/height pair in pixels.
type Resolution struct {
	Width  int
	Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("(%d, %d)", r.Width, r.Height)
}

// Rules configures the structural checks applied to every image.
type Rules struct {
	MaxSizeMB      int
	MinResolution  Resolution
	MaxResolution  Resolution
	AllowedFormats []Format
}

// DefaultRules returns the limits applied to identity document images.
func DefaultRules() Rules {
	return Rules{
		MaxSizeMB:      4,
		MinResolution:  Resolution{Width: 224, Height: 224},
		MaxResolution:  Resolution{Width: 3840, Height: 2160},
		AllowedFormats: []Format{FormatJPEG, FormatJPG, FormatPNG, FormatBMP},
	}
}

// Verdict is the outcome of Validate. When Accepted is false, Code and Detail
// describe the first rule that failed.
type Verdict struct {
	Accepted bool
	Image    Image
	Code     ErrorCode
	Detail   string
}

func accepted(img Image) Verdict {
	return Verdict{Accepted: true, Image: img}
}

func rejected(code ErrorCode, detail string) Verdict {
	return Verdict{Code: code, Detail: detail}
}

// Validate applies size, resolution and format checks in that order and
// reports the first failure. The image is returned unchanged when all pass.
func Validate(img Image, rules Rules) Verdict {
	maxBytes := int64(rules.MaxSizeMB) * 1024 * 1024
	if img.ByteSize > maxBytes {
		return rejected(CodeSize, fmt.Sprintf("Image size exceeds the limit of %d MB.", rules.MaxSizeMB))
	}

	minRes, maxRes := rules.MinResolution, rules.MaxResolution
	if img.Width < minRes.Width || img.Width > maxRes.Width ||
		img.Height < minRes.Height || img.Height > maxRes.Height {
		return rejected(CodeResolution, fmt.Sprintf("Image resolution must be between %s and %s.", minRes, maxRes))
	}

	if !rules.allows(img.Format) {
		return rejected(CodeFormat, fmt.Sprintf("Image format must be %s.", rules.formatList()))
	}

	return accepted(img)
}

func (r Rules) allows(f Format) bool {
	for _, allowed := range r.AllowedFormats {
		if allowed == f {
			return true
		}
	}
	return false
}

// formatList renders "A, B, or C".
func (r Rules) formatList() string {
	names := make([]string, 0, len(r.AllowedFormats))
	for _, f := range r.AllowedFormats {
		names = append(names, string(f))
	}
	switch len(names) {
	case 0:
		return "one of no allowed formats"
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
}
