package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Placement controls overlay alignment and sizing. Horizontal and
// Vertical use the lipgloss positions (0 is left/top, 1 right/bottom).
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
	Width      int
	Height     int
}

// Centered places an overlay in the middle of the background.
var Centered = Placement{Horizontal: lipgloss.Center, Vertical: lipgloss.Center}

// BottomLeft anchors an overlay to the last rows of the background.
var BottomLeft = Placement{Horizontal: lipgloss.Left, Vertical: lipgloss.Bottom}

// Compose overlays the foreground view atop the background while preserving
// background content outside the overlay bounds. The background is cut to
// its last height lines and padded to width.
func Compose(background string, width, height int, foreground string, placement Placement) string {
	bgLines := normalizeBackground(background, width, height)
	if foreground == "" || width <= 0 || height <= 0 {
		return strings.Join(bgLines, "\n")
	}

	fgLines := strings.Split(foreground, "\n")

	overlayWidth := placement.Width
	if overlayWidth <= 0 {
		for _, line := range fgLines {
			if w := ansi.StringWidth(line); w > overlayWidth {
				overlayWidth = w
			}
		}
	}
	if overlayWidth <= 0 {
		return strings.Join(bgLines, "\n")
	}
	overlayWidth = min(overlayWidth, width)

	overlayHeight := placement.Height
	if overlayHeight <= 0 {
		overlayHeight = len(fgLines)
	}
	overlayHeight = min(overlayHeight, height)

	offsetX, offsetY := computeOffsets(width, height, overlayWidth, overlayHeight, placement)

	for row := 0; row < overlayHeight; row++ {
		destY := offsetY + row
		if destY < 0 || destY >= len(bgLines) {
			continue
		}
		fgLine := ""
		if row < len(fgLines) {
			fgLine = fgLines[row]
		}
		fgLine = PadToWidth(fgLine, overlayWidth)

		baseLine := bgLines[destY]
		prefix := ansi.Cut(baseLine, 0, offsetX)
		suffix := ansi.Cut(baseLine, offsetX+overlayWidth, width)
		bgLines[destY] = prefix + fgLine + suffix
	}

	return strings.Join(bgLines, "\n")
}

func normalizeBackground(view string, width, height int) []string {
	if height <= 0 {
		return nil
	}
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = PadToWidth(lines[i], width)
	}
	return lines
}

// PadToWidth truncates or right pads s to exactly width cells.
func PadToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	current := ansi.StringWidth(s)
	if current > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-current)
}

func computeOffsets(width, height, overlayWidth, overlayHeight int, placement Placement) (int, int) {
	offsetX := placement.MarginX
	switch placement.Horizontal {
	case lipgloss.Left:
	case lipgloss.Right:
		offsetX = width - overlayWidth - placement.MarginX
	default:
		offsetX = int(float64(width-overlayWidth) * float64(placement.Horizontal))
	}
	offsetX = max(0, min(offsetX, width-overlayWidth))

	offsetY := placement.MarginY
	switch placement.Vertical {
	case lipgloss.Top:
	case lipgloss.Bottom:
		offsetY = height - overlayHeight - placement.MarginY
	default:
		offsetY = int(float64(height-overlayHeight) * float64(placement.Vertical))
	}
	offsetY = max(0, min(offsetY, height-overlayHeight))

	return offsetX, offsetY
}
