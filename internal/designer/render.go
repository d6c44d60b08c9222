package designer

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// RenderOptions tunes the render pipeline.
type RenderOptions struct {
	// CurrencySymbol prefixes formatted price and mrp values.
	CurrencySymbol string
}

// DefaultCurrencySymbol is used when RenderOptions does not set one.
const DefaultCurrencySymbol = "₹"

// ElementError is a recoverable per-element render failure. Rendering of the
// remaining document continues.
type ElementError struct {
	ElementID string `json:"element_id"`
	Message   string `json:"message"`
}

// RenderResult is the outcome of rendering a document against a product.
type RenderResult struct {
	SVG    string         `json:"svg"`
	Errors []ElementError `json:"errors,omitempty"`
}

// resolvedStyle is an element's style after applying the document defaults.
type resolvedStyle struct {
	fontSize        float64
	fontWeight      string
	fontStyle       string
	textDecoration  string
	textAlign       string
	color           string
	backgroundColor string
	borderWidth     float64
	borderColor     string
	borderStyle     string
	opacity         float64
}

// Render converts a template document plus a product record into SVG markup
// sized exactly widthMm x heightMm. Rendering is idempotent: the same inputs
// yield byte-identical output. Barcode encode failures are reported per
// element and do not abort the remaining elements.
func Render(doc *TemplateDocument, product ProductRecord, opts RenderOptions) RenderResult {
	currency := opts.CurrencySymbol
	if currency == "" {
		currency = DefaultCurrencySymbol
	}

	var result RenderResult
	var body bytes.Buffer

	widthPx := doc.WidthPx()
	heightPx := doc.HeightPx()

	// Page background and document border.
	bg := doc.BackgroundColor
	if bg == "" {
		bg = "#ffffff"
	}
	fmt.Fprintf(&body, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="%s"%s/>`,
		widthPx, heightPx, escapeXML(bg), pageBorderAttrs(doc))
	body.WriteString("\n")

	savings := savingsAmount(doc, product)

	// Paint order is ascending z-index; ties keep insertion order.
	order := make([]int, len(doc.Elements))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return doc.Elements[order[a]].ZIndex < doc.Elements[order[b]].ZIndex
	})

	for _, idx := range order {
		el := &doc.Elements[idx]
		style := doc.resolveStyle(el)

		openElementGroup(&body, el, style)
		drawElementBox(&body, el, style)

		switch el.Type {
		case ElementBarcode:
			data := ResolvePlaceholders(el.Content, product, currency)
			bars, err := EncodeBars(data, el.Width)
			if err != nil {
				// The element stays as its empty bounding box.
				result.Errors = append(result.Errors, ElementError{
					ElementID: el.ID,
					Message:   err.Error(),
				})
			} else {
				for _, bar := range bars {
					fmt.Fprintf(&body, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`,
						el.X+bar.X, el.Y, bar.Width, el.Height, escapeXML(style.color))
					body.WriteString("\n")
				}
			}
		case ElementImage:
			if el.Content != "" {
				fmt.Fprintf(&body, `    <image x="%.2f" y="%.2f" width="%.2f" height="%.2f" href="%s" preserveAspectRatio="xMidYMid meet"/>`,
					el.X, el.Y, el.Width, el.Height, escapeXML(el.Content))
				body.WriteString("\n")
			}
		default:
			text := ResolvePlaceholders(el.Content, product, currency)
			drawText(&body, el, style, text)
			if el.Type == ElementMRP && savings > 0 {
				drawSavings(&body, doc, el, style, currency, savings)
			}
		}

		body.WriteString("  </g>\n")
	}

	var svg bytes.Buffer
	fmt.Fprintf(&svg, `<svg xmlns="http://www.w3.org/2000/svg" width="%gmm" height="%gmm" viewBox="0 0 %.2f %.2f">`,
		doc.WidthMm, doc.HeightMm, widthPx, heightPx)
	svg.WriteString("\n")
	svg.Write(body.Bytes())
	svg.WriteString("</svg>\n")

	result.SVG = svg.String()
	return result
}

// savingsAmount derives the savings value (mrp - price). It is only shown
// when the document includes MRP, both the MRP and price elements exist, and
// mrp exceeds price. The value is computed by the pipeline, never stored.
func savingsAmount(doc *TemplateDocument, product ProductRecord) float64 {
	if !doc.IncludeMrp || product.MRP <= product.Price {
		return 0
	}
	hasPrice, hasMRP := false, false
	for i := range doc.Elements {
		switch doc.Elements[i].Type {
		case ElementPrice:
			hasPrice = true
		case ElementMRP:
			hasMRP = true
		}
	}
	if !hasPrice || !hasMRP {
		return 0
	}
	return product.MRP - product.Price
}

// resolveStyle applies the document-level defaults to an element's style.
// Element fields, when set, take precedence for that element only.
func (d *TemplateDocument) resolveStyle(el *Element) resolvedStyle {
	s := resolvedStyle{
		fontSize:        el.FontSize,
		fontWeight:      el.FontWeight,
		fontStyle:       el.FontStyle,
		textDecoration:  el.TextDecoration,
		textAlign:       el.TextAlign,
		color:           el.Color,
		backgroundColor: el.BackgroundColor,
		borderWidth:     el.BorderWidth,
		borderColor:     el.BorderColor,
		borderStyle:     el.BorderStyle,
		opacity:         clamp(el.Opacity, 0, 1),
	}
	if s.fontSize <= 0 {
		s.fontSize = d.DefaultFontSize
	}
	if s.fontSize <= 0 {
		s.fontSize = 12
	}
	if s.fontWeight == "" {
		s.fontWeight = "normal"
	}
	if s.fontStyle == "" {
		s.fontStyle = "normal"
	}
	if s.textDecoration == "" {
		s.textDecoration = "none"
	}
	if s.textAlign == "" {
		s.textAlign = "left"
	}
	if s.color == "" {
		s.color = d.TextColor
	}
	if s.color == "" {
		s.color = "#000000"
	}
	if s.borderStyle == "" {
		s.borderStyle = "none"
	}
	if s.borderColor == "" {
		s.borderColor = s.color
	}
	return s
}

func openElementGroup(buf *bytes.Buffer, el *Element, style resolvedStyle) {
	buf.WriteString("  <g")
	if el.RotationDegrees != 0 {
		cx := el.X + el.Width/2
		cy := el.Y + el.Height/2
		fmt.Fprintf(buf, ` transform="rotate(%.2f %.2f %.2f)"`, el.RotationDegrees, cx, cy)
	}
	if style.opacity < 1 {
		fmt.Fprintf(buf, ` opacity="%.2f"`, style.opacity)
	}
	buf.WriteString(">\n")
}

// drawElementBox paints the element's background and border rectangle when
// either is styled. Barcode elements rely on this as their empty-box
// fallback on encode failure.
func drawElementBox(buf *bytes.Buffer, el *Element, style resolvedStyle) {
	fill := "none"
	if style.backgroundColor != "" {
		fill = style.backgroundColor
	}
	stroke := ""
	if style.borderWidth > 0 && style.borderStyle != "none" {
		stroke = fmt.Sprintf(` stroke="%s" stroke-width="%.2f"%s`,
			escapeXML(style.borderColor), style.borderWidth,
			strokeDashArray(style.borderStyle, style.borderWidth))
	}
	if fill == "none" && stroke == "" && el.Type != ElementBarcode {
		return
	}
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"%s/>`,
		el.X, el.Y, el.Width, el.Height, escapeXML(fill), stroke)
	buf.WriteString("\n")
}

// drawText paints a text-like element. Alignment maps to the SVG text-anchor;
// the baseline sits at the vertical center of the bounding box.
func drawText(buf *bytes.Buffer, el *Element, style resolvedStyle, text string) {
	x, anchor := anchorFor(el, style.textAlign)
	y := el.Y + el.Height/2
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-size="%.2f" font-weight="%s" font-style="%s" text-decoration="%s" fill="%s" text-anchor="%s" dominant-baseline="middle">%s</text>`,
		x, y, style.fontSize, escapeXML(style.fontWeight), escapeXML(style.fontStyle),
		escapeXML(style.textDecoration), escapeXML(style.color), anchor, escapeXML(text))
	buf.WriteString("\n")
}

// drawSavings paints the derived savings line directly beneath the MRP
// element, clamped to the document.
func drawSavings(buf *bytes.Buffer, doc *TemplateDocument, el *Element, style resolvedStyle, currency string, savings float64) {
	fontSize := style.fontSize * 0.8
	y := el.Y + el.Height + fontSize
	if y > doc.HeightPx() {
		y = doc.HeightPx()
	}
	x, anchor := anchorFor(el, style.textAlign)
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-size="%.2f" fill="%s" text-anchor="%s">Save %s%.2f</text>`,
		x, y, fontSize, escapeXML(style.color), anchor, escapeXML(currency), savings)
	buf.WriteString("\n")
}

func anchorFor(el *Element, align string) (float64, string) {
	switch align {
	case "center":
		return el.X + el.Width/2, "middle"
	case "right":
		return el.X + el.Width, "end"
	default:
		return el.X, "start"
	}
}

func pageBorderAttrs(doc *TemplateDocument) string {
	if doc.BorderWidth <= 0 || doc.BorderStyle == "" || doc.BorderStyle == "none" {
		return ""
	}
	stroke := doc.TextColor
	if stroke == "" {
		stroke = "#000000"
	}
	return fmt.Sprintf(` stroke="%s" stroke-width="%.2f"%s`,
		escapeXML(stroke), doc.BorderWidth, strokeDashArray(doc.BorderStyle, doc.BorderWidth))
}

// strokeDashArray maps a border style to an SVG stroke-dasharray attribute
// scaled by the stroke width. Solid borders return no attribute.
func strokeDashArray(style string, width float64) string {
	if width < 1 {
		width = 1
	}
	switch style {
	case "dashed":
		return fmt.Sprintf(` stroke-dasharray="%.2f,%.2f"`, width*3, width*2)
	case "dotted":
		return fmt.Sprintf(` stroke-dasharray="%.2f,%.2f"`, width, width)
	}
	return ""
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlReplacer.Replace(s)
}
