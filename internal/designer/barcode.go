package designer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// ErrEmptyBarcodeData is returned when a barcode element resolves to no data.
var ErrEmptyBarcodeData = errors.New("barcode data is empty")

// Bar is one dark bar of an encoded barcode, positioned relative to the
// element's bounding box in document pixels.
type Bar struct {
	X     float64
	Width float64
}

// EncodeBars encodes data as CODE128 and scales the module pattern into a box
// of the given width. The returned bars cover only the dark modules; the
// caller draws them at the element's full height.
func EncodeBars(data string, widthPx float64) ([]Bar, error) {
	if strings.TrimSpace(data) == "" {
		return nil, ErrEmptyBarcodeData
	}

	bc, err := code128.Encode(data)
	if err != nil {
		return nil, fmt.Errorf("code128 encode: %w", err)
	}

	bounds := bc.Bounds()
	modules := bounds.Dx()
	if modules == 0 {
		return nil, ErrEmptyBarcodeData
	}
	moduleWidth := widthPx / float64(modules)

	var bars []Bar
	start := -1
	for x := 0; x <= modules; x++ {
		dark := x < modules && isDark(bc, bounds.Min.X+x, bounds.Min.Y)
		if dark && start < 0 {
			start = x
		}
		if !dark && start >= 0 {
			bars = append(bars, Bar{
				X:     float64(start) * moduleWidth,
				Width: float64(x-start) * moduleWidth,
			})
			start = -1
		}
	}
	return bars, nil
}

func isDark(bc barcode.Barcode, x, y int) bool {
	r, g, b, _ := bc.At(x, y).RGBA()
	return r == 0 && g == 0 && b == 0
}
