package enums

import "fmt"

// MediaKind distinguishes the two resource types the media host accepts.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

var validMediaKinds = []MediaKind{
	MediaKindImage,
	MediaKindVideo,
}

// String implements fmt.Stringer.
func (m MediaKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MediaKind.
func (m MediaKind) IsValid() bool {
	for _, candidate := range validMediaKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMediaKind converts raw input into a MediaKind.
func ParseMediaKind(value string) (MediaKind, error) {
	for _, candidate := range validMediaKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media kind %q", value)
}
