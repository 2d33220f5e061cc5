package layout

import (
	"fmt"

	"AFD-SVC/internal/schema"
)

// InterPageMargin is the gap between stacked pages, in render units. It is a
// presentation artifact of the preview surface and never part of an
// element's logical position.
const InterPageMargin = 24.0

// Well-known page dimensions in points.
const (
	LetterWidthPt  = 612.0
	LetterHeightPt = 792.0
	LegalWidthPt   = 612.0
	LegalHeightPt  = 1008.0
	A4WidthPt      = 595.28
	A4HeightPt     = 841.89
)

// Point is a position in render space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// InvalidLayoutError reports degenerate page geometry. The transform fails
// fast rather than clamping.
type InvalidLayoutError struct {
	PageWidthPt float64
}

func (e *InvalidLayoutError) Error() string {
	return fmt.Sprintf("invalid layout: page width %.2fpt must be > 0", e.PageWidthPt)
}

// ScaleFactor returns the uniform template-space to render-space scale for a
// target width. Every linear quantity (offsets, font sizes, line widths)
// scales by this same factor so the preview keeps proportional fidelity with
// the final page.
func ScaleFactor(pageWidthPt, targetWidthPx float64) (float64, error) {
	if pageWidthPt <= 0 {
		return 0, &InvalidLayoutError{PageWidthPt: pageWidthPt}
	}
	return targetWidthPx / pageWidthPt, nil
}

// ToRenderSpace maps a template-space position onto the render surface for
// its page. Pages stack vertically with InterPageMargin between them.
func ToRenderSpace(pos schema.Position, pageWidthPt, pageHeightPt, targetWidthPx float64) (Point, error) {
	scale, err := ScaleFactor(pageWidthPt, targetWidthPx)
	if err != nil {
		return Point{}, err
	}

	page := PageOf(&pos)
	offsetY := float64(page-1) * (pageHeightPt*scale + InterPageMargin)

	return Point{
		X: pos.X * scale,
		Y: pos.Y*scale + offsetY,
	}, nil
}

// PageHeightRender returns one page's height in render units.
func PageHeightRender(pageHeightPt, scale float64) float64 {
	return pageHeightPt * scale
}

// PageSizePt resolves a document's page size and orientation to point
// dimensions. Unknown sizes fall back to letter; landscape swaps the axes.
func PageSizePt(settings schema.DocumentSettings) (width, height float64) {
	switch settings.PageSize {
	case "legal":
		width, height = LegalWidthPt, LegalHeightPt
	case "A4":
		width, height = A4WidthPt, A4HeightPt
	default:
		width, height = LetterWidthPt, LetterHeightPt
	}
	if settings.Orientation == "landscape" {
		width, height = height, width
	}
	return width, height
}
