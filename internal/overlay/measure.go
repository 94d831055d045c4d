package overlay

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/joeblew999/plat-overlay/internal/geom"
)

// Text metrics for the server-side layout estimate. The embedding client
// can replace the estimate with a real DOM measurement via ReportLayout.
const (
	glyphWidth = 7  // average glyph advance in pixels
	lineHeight = 18 // line box height in pixels
	padX       = 12 // total horizontal container padding
	padY       = 6  // total vertical container padding
)

// MeasureContent estimates the rendered size of tooltip content.
//
// Width is first measured unconstrained (single line per input line,
// nowrap), then clamped to [minWidth, maxWidth]. Height grows with the
// wrapped line count; when maxHeight is set and exceeded, the height is
// pinned there and the returned scrollable flag is true.
func MeasureContent(content string, minWidth, maxWidth, maxHeight float64) (geom.Size, bool) {
	lines := strings.Split(content, "\n")

	longest := 0
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > longest {
			longest = n
		}
	}

	natural := float64(longest)*glyphWidth + padX
	width := natural
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}
	if width < minWidth {
		width = minWidth
	}

	// Re-wrap each input line at the clamped width.
	avail := width - padX
	if avail < glyphWidth {
		avail = glyphWidth
	}
	totalLines := 0
	for _, line := range lines {
		px := float64(utf8.RuneCountInString(line)) * glyphWidth
		wrapped := int(math.Ceil(px / avail))
		if wrapped < 1 {
			wrapped = 1
		}
		totalLines += wrapped
	}

	height := float64(totalLines)*lineHeight + padY
	scrollable := false
	if maxHeight > 0 && height > maxHeight {
		height = maxHeight
		scrollable = true
	}

	return geom.Size{W: width, H: height}, scrollable
}
