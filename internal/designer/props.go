package designer

import (
	"strconv"

	"github.com/google/uuid"
)

// Fallback values for numeric property fields that fail to parse.
const (
	FallbackFontSize = 12.0
	FallbackX        = 0.0
	FallbackY        = 0.0
	FallbackWidth    = 50.0
	FallbackHeight   = 20.0
)

// DuplicateOffset is the position delta applied to a duplicated element, in
// document pixels.
const DuplicateOffset = 10.0

// ElementUpdate is a partial update to one element. Nil fields are left
// untouched.
type ElementUpdate struct {
	X               *float64 `json:"x,omitempty"`
	Y               *float64 `json:"y,omitempty"`
	Width           *float64 `json:"width,omitempty"`
	Height          *float64 `json:"height,omitempty"`
	RotationDegrees *float64 `json:"rotationDegrees,omitempty"`
	FontSize        *float64 `json:"fontSize,omitempty"`
	FontWeight      *string  `json:"fontWeight,omitempty"`
	FontStyle       *string  `json:"fontStyle,omitempty"`
	TextDecoration  *string  `json:"textDecoration,omitempty"`
	TextAlign       *string  `json:"textAlign,omitempty"`
	Color           *string  `json:"color,omitempty"`
	BackgroundColor *string  `json:"backgroundColor,omitempty"`
	BorderWidth     *float64 `json:"borderWidth,omitempty"`
	BorderColor     *string  `json:"borderColor,omitempty"`
	BorderStyle     *string  `json:"borderStyle,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty"`
	ZIndex          *int     `json:"zIndex,omitempty"`
	Content         *string  `json:"content,omitempty"`
}

// ApplyUpdate merges a partial update into the element with the given id,
// leaving all other elements and the document untouched. Geometry is clamped
// back into the document bounds and opacity into [0,1]. It reports whether
// the element was found.
func ApplyUpdate(doc *TemplateDocument, id string, u ElementUpdate) bool {
	el := doc.FindElement(id)
	if el == nil {
		return false
	}

	if u.Width != nil && *u.Width > 0 {
		el.Width = *u.Width
	}
	if u.Height != nil && *u.Height > 0 {
		el.Height = *u.Height
	}
	if u.X != nil {
		el.X = *u.X
	}
	if u.Y != nil {
		el.Y = *u.Y
	}
	if u.RotationDegrees != nil {
		el.RotationDegrees = *u.RotationDegrees
	}
	if u.FontSize != nil {
		el.FontSize = *u.FontSize
	}
	if u.FontWeight != nil {
		el.FontWeight = *u.FontWeight
	}
	if u.FontStyle != nil {
		el.FontStyle = *u.FontStyle
	}
	if u.TextDecoration != nil {
		el.TextDecoration = *u.TextDecoration
	}
	if u.TextAlign != nil {
		el.TextAlign = *u.TextAlign
	}
	if u.Color != nil {
		el.Color = *u.Color
	}
	if u.BackgroundColor != nil {
		el.BackgroundColor = *u.BackgroundColor
	}
	if u.BorderWidth != nil {
		el.BorderWidth = *u.BorderWidth
	}
	if u.BorderColor != nil {
		el.BorderColor = *u.BorderColor
	}
	if u.BorderStyle != nil {
		el.BorderStyle = *u.BorderStyle
	}
	if u.Opacity != nil {
		el.Opacity = clamp(*u.Opacity, 0, 1)
	}
	if u.ZIndex != nil {
		el.ZIndex = *u.ZIndex
	}
	if u.Content != nil {
		el.Content = *u.Content
	}

	el.X, el.Y = ClampPosition(el.X, el.Y, el.Width, el.Height, doc.WidthPx(), doc.HeightPx())
	return true
}

// UpdateFromForm builds an ElementUpdate from raw form field values, as
// submitted by the property editor. Numeric fields that fail to parse fall
// back to their defaults (font size 12, x/y 0, width 50, height 20) instead
// of being rejected.
func UpdateFromForm(fields map[string]string) ElementUpdate {
	var u ElementUpdate
	for key, raw := range fields {
		switch key {
		case "x":
			u.X = floatOr(raw, FallbackX)
		case "y":
			u.Y = floatOr(raw, FallbackY)
		case "width":
			u.Width = floatOr(raw, FallbackWidth)
		case "height":
			u.Height = floatOr(raw, FallbackHeight)
		case "rotationDegrees":
			u.RotationDegrees = floatOr(raw, 0)
		case "fontSize":
			u.FontSize = floatOr(raw, FallbackFontSize)
		case "fontWeight":
			u.FontWeight = strPtr(raw)
		case "fontStyle":
			u.FontStyle = strPtr(raw)
		case "textDecoration":
			u.TextDecoration = strPtr(raw)
		case "textAlign":
			u.TextAlign = strPtr(raw)
		case "color":
			u.Color = strPtr(raw)
		case "backgroundColor":
			u.BackgroundColor = strPtr(raw)
		case "borderWidth":
			u.BorderWidth = floatOr(raw, 0)
		case "borderColor":
			u.BorderColor = strPtr(raw)
		case "borderStyle":
			u.BorderStyle = strPtr(raw)
		case "opacity":
			u.Opacity = floatOr(raw, 1)
		case "zIndex":
			if n, err := strconv.Atoi(raw); err == nil {
				u.ZIndex = &n
			}
		case "content":
			u.Content = strPtr(raw)
		}
	}
	return u
}

// DuplicateElement copies the element with the given id, assigns a new id and
// the next z-index, and offsets the copy by (+10, +10) document pixels. It
// returns the stored copy, or nil when the source does not exist.
func DuplicateElement(doc *TemplateDocument, id string) *Element {
	src := doc.FindElement(id)
	if src == nil {
		return nil
	}

	dup := *src
	dup.ID = uuid.New().String()
	dup.X += DuplicateOffset
	dup.Y += DuplicateOffset
	return doc.AddElement(dup)
}

func floatOr(raw string, fallback float64) *float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v = fallback
	}
	return &v
}

func strPtr(s string) *string {
	return &s
}
