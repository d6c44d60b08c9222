package designer

// Tool is the active editor tool.
type Tool string

const (
	ToolSelect  Tool = "select"
	ToolText    Tool = "text"
	ToolBarcode Tool = "barcode"
	ToolImage   Tool = "image"
)

// DragState tracks an in-progress drag: the pointer position at mousedown and
// the dragged element's origin at that moment. Each move applies the total
// delta from the start point, so a drag is a pure function of the current
// pointer position.
type DragState struct {
	StartScreenX float64
	StartScreenY float64
	OriginX      float64
	OriginY      float64
}

// EditorState is the explicit interaction state for one editing session.
// All transitions run synchronously inside a single input-event handler;
// there is no internal locking.
type EditorState struct {
	Doc        *TemplateDocument
	Tool       Tool
	Zoom       int
	SelectedID string
	Drag       *DragState
}

// NewEditor creates an editor over the given document with the select tool
// active and zoom at 100%.
func NewEditor(doc *TemplateDocument) *EditorState {
	return &EditorState{
		Doc:  doc,
		Tool: ToolSelect,
		Zoom: DefaultZoom,
	}
}

// SetTool switches the active tool.
func (e *EditorState) SetTool(t Tool) {
	switch t {
	case ToolSelect, ToolText, ToolBarcode, ToolImage:
		e.Tool = t
	default:
		e.Tool = ToolSelect
	}
}

// SetZoom snaps to the nearest allowed zoom level. Zoom never mutates stored
// element geometry.
func (e *EditorState) SetZoom(pct int) {
	e.Zoom = SnapZoom(pct)
}

// Selected returns the currently selected element, or nil.
func (e *EditorState) Selected() *Element {
	if e.SelectedID == "" {
		return nil
	}
	return e.Doc.FindElement(e.SelectedID)
}

// MouseDown handles a pointer press on the canvas at screen coordinates.
//
// With the select tool, a hit selects the topmost element under the pointer
// and begins a pending drag; a miss clears the selection. With a create tool,
// a new element of the tool's variant is created at the click point, selected,
// and the tool reverts to select (one-shot creation).
func (e *EditorState) MouseDown(screenX, screenY float64) {
	docX, docY := ScreenToDocument(screenX, screenY, e.Zoom)

	switch e.Tool {
	case ToolText, ToolBarcode, ToolImage:
		el := e.createAt(docX, docY)
		e.SelectedID = el.ID
		e.Tool = ToolSelect
	default:
		hit := e.hitTest(docX, docY)
		if hit == nil {
			e.SelectedID = ""
			e.Drag = nil
			return
		}
		e.SelectedID = hit.ID
		e.Drag = &DragState{
			StartScreenX: screenX,
			StartScreenY: screenY,
			OriginX:      hit.X,
			OriginY:      hit.Y,
		}
	}
}

// MouseMove repositions the selected element while a drag is pending. The
// screen-space delta is converted through the zoom-aware scale and the
// resulting position is clamped so the bounding box stays inside the document.
func (e *EditorState) MouseMove(screenX, screenY float64) {
	if e.Drag == nil {
		return
	}
	el := e.Selected()
	if el == nil {
		e.Drag = nil
		return
	}

	dx, dy := ScreenToDocument(screenX-e.Drag.StartScreenX, screenY-e.Drag.StartScreenY, e.Zoom)
	el.X, el.Y = ClampPosition(e.Drag.OriginX+dx, e.Drag.OriginY+dy, el.Width, el.Height, e.Doc.WidthPx(), e.Doc.HeightPx())
}

// MouseUp ends any pending drag. The tool remains select.
func (e *EditorState) MouseUp() {
	e.Drag = nil
}

// DeleteSelected removes the selected element and clears the selection.
// It reports whether an element was deleted.
func (e *EditorState) DeleteSelected() bool {
	if e.SelectedID == "" {
		return false
	}
	removed := e.Doc.RemoveElement(e.SelectedID)
	e.SelectedID = ""
	e.Drag = nil
	return removed
}

// hitTest returns the topmost element containing the document point, or nil.
// Among elements with equal z-index the later insertion wins, matching
// reverse-paint-order iteration.
func (e *EditorState) hitTest(docX, docY float64) *Element {
	var hit *Element
	for i := range e.Doc.Elements {
		el := &e.Doc.Elements[i]
		if !el.Contains(docX, docY) {
			continue
		}
		if hit == nil || el.ZIndex >= hit.ZIndex {
			hit = el
		}
	}
	return hit
}

// createAt builds a new element of the active create tool's variant at the
// given document point with type-specific default geometry and content.
func (e *EditorState) createAt(docX, docY float64) *Element {
	el := Element{
		Style: Style{Opacity: 1},
	}
	el.X = docX
	el.Y = docY

	switch e.Tool {
	case ToolBarcode:
		el.Type = ElementBarcode
		el.Width = DefaultBarcodeWidth
		el.Height = DefaultBarcodeHeight
		el.Content = "{{product.barcode}}"
	case ToolImage:
		el.Type = ElementImage
		el.Width = DefaultImageWidth
		el.Height = DefaultImageHeight
		el.Content = ""
	default:
		el.Type = ElementText
		el.Width = DefaultTextWidth
		el.Height = DefaultTextHeight
		el.Content = "New Text"
	}

	return e.Doc.AddElement(el)
}
