package designer

import (
	"github.com/google/uuid"
)

// ElementType identifies how the render pipeline interprets an element's
// content. The set is closed.
type ElementType string

const (
	ElementText    ElementType = "text"
	ElementBarcode ElementType = "barcode"
	ElementImage   ElementType = "image"
	ElementPrice   ElementType = "price"
	ElementMRP     ElementType = "mrp"
	ElementSKU     ElementType = "sku"
)

// Default geometry for elements created by the create tools, in document px.
const (
	DefaultTextWidth     = 150.0
	DefaultTextHeight    = 30.0
	DefaultBarcodeWidth  = 120.0
	DefaultBarcodeHeight = 60.0
	DefaultImageWidth    = 100.0
	DefaultImageHeight   = 100.0
)

// Geometry is the placement of an element in document pixel space.
type Geometry struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	RotationDegrees float64 `json:"rotationDegrees"`
}

// Style holds the per-element style overrides. Zero values mean "inherit the
// document default" for that field, except Opacity which is always set at
// creation time.
type Style struct {
	FontSize        float64 `json:"fontSize,omitempty"`
	FontWeight      string  `json:"fontWeight,omitempty"`
	FontStyle       string  `json:"fontStyle,omitempty"`
	TextDecoration  string  `json:"textDecoration,omitempty"`
	TextAlign       string  `json:"textAlign,omitempty"`
	Color           string  `json:"color,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	BorderWidth     float64 `json:"borderWidth,omitempty"`
	BorderColor     string  `json:"borderColor,omitempty"`
	BorderStyle     string  `json:"borderStyle,omitempty"`
	Opacity         float64 `json:"opacity"`
	ZIndex          int     `json:"zIndex"`
}

// Element is one placeable item on the label canvas. Geometry and Style are
// embedded so the persisted JSON stays flat.
type Element struct {
	ID   string      `json:"id"`
	Type ElementType `json:"type"`
	Geometry
	Style
	Content string `json:"content"`
}

// Contains reports whether the document point (x, y) falls inside the
// element's bounding box.
func (e *Element) Contains(x, y float64) bool {
	return x >= e.X && x <= e.X+e.Width && y >= e.Y && y <= e.Y+e.Height
}

// TemplateDocument is the complete description of one label layout.
type TemplateDocument struct {
	Name            string  `json:"name"`
	WidthMm         float64 `json:"widthMm"`
	HeightMm        float64 `json:"heightMm"`
	DefaultFontSize float64 `json:"defaultFontSize"`
	TextColor       string  `json:"textColor"`
	BackgroundColor string  `json:"backgroundColor"`
	BorderWidth     float64 `json:"borderWidth"`
	BorderStyle     string  `json:"borderStyle"`

	IncludeBarcode           bool `json:"includeBarcode"`
	IncludePrice             bool `json:"includePrice"`
	IncludeMrp               bool `json:"includeMrp"`
	IncludeDescription       bool `json:"includeDescription"`
	IncludeManufacturingDate bool `json:"includeManufacturingDate"`
	IncludeExpiryDate        bool `json:"includeExpiryDate"`

	Elements []Element `json:"elements"`
}

// NewDocument creates an empty document with sane style defaults.
// Non-positive dimensions clamp to 1mm.
func NewDocument(name string, widthMm, heightMm float64) *TemplateDocument {
	if widthMm <= 0 {
		widthMm = 1
	}
	if heightMm <= 0 {
		heightMm = 1
	}
	return &TemplateDocument{
		Name:            name,
		WidthMm:         widthMm,
		HeightMm:        heightMm,
		DefaultFontSize: 12,
		TextColor:       "#000000",
		BackgroundColor: "#ffffff",
		BorderWidth:     1,
		BorderStyle:     "solid",
	}
}

// WidthPx is the document width in un-zoomed document pixels.
func (d *TemplateDocument) WidthPx() float64 {
	return MmToPx(d.WidthMm)
}

// HeightPx is the document height in un-zoomed document pixels.
func (d *TemplateDocument) HeightPx() float64 {
	return MmToPx(d.HeightMm)
}

// NextZIndex is the z-index assigned to the next created element, guaranteeing
// it paints above all existing elements at creation time. Values may repeat
// after deletions; paint order ties are broken by insertion order.
func (d *TemplateDocument) NextZIndex() int {
	return len(d.Elements) + 1
}

// AddElement assigns an id and z-index, clamps the geometry into the document
// bounds, and appends the element. It returns a pointer to the stored element.
func (d *TemplateDocument) AddElement(el Element) *Element {
	if el.Width <= 0 {
		el.Width = 1
	}
	if el.Height <= 0 {
		el.Height = 1
	}
	el.X, el.Y = ClampPosition(el.X, el.Y, el.Width, el.Height, d.WidthPx(), d.HeightPx())
	el.Opacity = clamp(el.Opacity, 0, 1)
	if el.ID == "" {
		el.ID = uuid.New().String()
	}
	el.ZIndex = d.NextZIndex()
	d.Elements = append(d.Elements, el)
	return &d.Elements[len(d.Elements)-1]
}

// FindElement returns the element with the given id, or nil.
func (d *TemplateDocument) FindElement(id string) *Element {
	for i := range d.Elements {
		if d.Elements[i].ID == id {
			return &d.Elements[i]
		}
	}
	return nil
}

// RemoveElement deletes the element with the given id. It reports whether an
// element was removed.
func (d *TemplateDocument) RemoveElement(id string) bool {
	for i := range d.Elements {
		if d.Elements[i].ID == id {
			d.Elements = append(d.Elements[:i], d.Elements[i+1:]...)
			return true
		}
	}
	return false
}

// PopulateDefaults appends the default elements for a freshly created blank
// document. A product-name element is always added; the remaining defaults
// are gated by the document's include toggles. Positions are stacked from the
// top-left and clamped into the document bounds for small labels.
func (d *TemplateDocument) PopulateDefaults() {
	const margin = 10.0
	y := margin

	add := func(t ElementType, content string, w, h float64) {
		el := Element{
			Type: t,
			Geometry: Geometry{
				X:      margin,
				Y:      y,
				Width:  w,
				Height: h,
			},
			Style:   Style{Opacity: 1},
			Content: content,
		}
		d.AddElement(el)
		y += h + margin/2
	}

	nameWidth := d.WidthPx() - 2*margin
	if nameWidth < 1 {
		nameWidth = 1
	}
	add(ElementText, "{{product.name}}", nameWidth, 24)

	if d.IncludePrice {
		add(ElementPrice, "{{product.price}}", 100, 22)
	}
	if d.IncludeMrp {
		add(ElementMRP, "{{product.mrp}}", 100, 22)
	}
	if d.IncludeDescription {
		add(ElementText, "{{product.description}}", nameWidth, 20)
	}
	if d.IncludeManufacturingDate {
		add(ElementText, "{{product.manufacturingDate}}", 120, 18)
	}
	if d.IncludeExpiryDate {
		add(ElementText, "{{product.expiryDate}}", 120, 18)
	}
	if d.IncludeBarcode {
		add(ElementBarcode, "{{product.barcode}}", DefaultBarcodeWidth, DefaultBarcodeHeight)
	}
}
