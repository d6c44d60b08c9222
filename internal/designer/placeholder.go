package designer

import (
	"fmt"
	"regexp"
)

// placeholderPattern matches `{{product.<identifier>}}` tokens. Identifiers
// are case-sensitive; there is no nesting or escaping.
var placeholderPattern = regexp.MustCompile(`\{\{product\.([A-Za-z_][A-Za-z0-9_]*)\}\}`)

// ProductRecord is the read-only product data substituted into a template at
// render time. Unknown extra fields may be referenced by placeholder tokens.
type ProductRecord struct {
	Name              string            `json:"name"`
	SKU               string            `json:"sku"`
	Price             float64           `json:"price"`
	MRP               float64           `json:"mrp"`
	Barcode           string            `json:"barcode"`
	Description       string            `json:"description,omitempty"`
	ManufacturingDate string            `json:"manufacturingDate,omitempty"`
	ExpiryDate        string            `json:"expiryDate,omitempty"`
	Extra             map[string]string `json:"extra,omitempty"`
}

// Field resolves a placeholder identifier against the record. Currency fields
// are formatted with two decimals and the given currency glyph prefix. The
// second return value is false for unknown identifiers.
func (p ProductRecord) Field(name, currency string) (string, bool) {
	switch name {
	case "name":
		return p.Name, true
	case "sku":
		return p.SKU, true
	case "price":
		return fmt.Sprintf("%s%.2f", currency, p.Price), true
	case "mrp":
		return fmt.Sprintf("%s%.2f", currency, p.MRP), true
	case "barcode":
		return p.Barcode, true
	case "description":
		return p.Description, true
	case "manufacturingDate":
		return p.ManufacturingDate, true
	case "expiryDate":
		return p.ExpiryDate, true
	}
	if v, ok := p.Extra[name]; ok {
		return v, true
	}
	return "", false
}

// ResolvePlaceholders substitutes every `{{product.<field>}}` token in content
// with the corresponding product value. Unresolvable tokens are left as the
// literal matched text; substitution is best-effort and never fails.
func ResolvePlaceholders(content string, p ProductRecord, currency string) string {
	return placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if v, ok := p.Field(name, currency); ok {
			return v
		}
		return match
	})
}
