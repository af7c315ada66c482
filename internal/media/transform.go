package media

import (
	"fmt"
	"strings"
)

const uploadSegment = "/upload/"

// thumbnail dimensions used across card layouts.
const (
	thumbnailWidth  = 200
	thumbnailHeight = 200
)

// OptimizedURL rewrites a hosted image URL to request automatic quality and
// format, plus a fill crop when both dimensions are given. URLs that do not
// look like hosted upload URLs are returned unchanged.
func OptimizedURL(raw string, width, height int) string {
	idx := strings.Index(raw, uploadSegment)
	if idx < 0 {
		return raw
	}
	transform := "q_auto,f_auto"
	if width > 0 && height > 0 {
		transform = fmt.Sprintf("q_auto,f_auto,w_%d,h_%d,c_fill", width, height)
	}
	return raw[:idx] + uploadSegment + transform + "/" + raw[idx+len(uploadSegment):]
}

// ThumbnailURL derives a small square rendition of a hosted image URL.
func ThumbnailURL(raw string) string {
	return OptimizedURL(raw, thumbnailWidth, thumbnailHeight)
}
