package designer

// PxPerMm converts physical millimeters to document pixels at 96 DPI.
const PxPerMm = 96.0 / 25.4

// ZoomLevels are the selectable zoom percentages. Zoom scales the visual
// presentation only; stored element geometry is always in un-zoomed
// document pixels.
var ZoomLevels = []int{50, 75, 100, 125, 150, 200}

// DefaultZoom is the initial editor zoom percentage.
const DefaultZoom = 100

// MmToPx converts millimeters to document pixels.
func MmToPx(mm float64) float64 {
	return mm * PxPerMm
}

// PxToMm converts document pixels back to millimeters.
func PxToMm(px float64) float64 {
	return px / PxPerMm
}

// ScreenToDocument translates on-screen pointer coordinates (relative to the
// canvas top-left origin) into document pixel coordinates at the given zoom.
func ScreenToDocument(screenX, screenY float64, zoomPercent int) (float64, float64) {
	scale := float64(zoomPercent) / 100.0
	return screenX / scale, screenY / scale
}

// SnapZoom returns the nearest allowed zoom level for the requested
// percentage. Out-of-range values clamp to the nearest level rather than
// being rejected.
func SnapZoom(pct int) int {
	best := ZoomLevels[0]
	for _, z := range ZoomLevels {
		if abs(pct-z) < abs(pct-best) {
			best = z
		}
	}
	return best
}

// ClampPosition constrains an element origin so that a box of the given size
// stays fully inside [0, boundsW] x [0, boundsH]. A box larger than the
// bounds pins to the origin.
func ClampPosition(x, y, w, h, boundsW, boundsH float64) (float64, float64) {
	return clamp(x, 0, max(0, boundsW-w)), clamp(y, 0, max(0, boundsH-h))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
