package designer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProduct() ProductRecord {
	return ProductRecord{
		Name:              "Basmati Rice 5kg",
		SKU:               "SKU123",
		Price:             45,
		MRP:               55,
		Barcode:           "8901234567890",
		Description:       "Premium aged basmati",
		ManufacturingDate: "2026-01-15",
		ExpiryDate:        "2027-01-15",
		Extra:             map[string]string{"batch": "B-17"},
	}
}

func TestResolvePlaceholders(t *testing.T) {
	p := testProduct()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "name", content: "{{product.name}}", want: "Basmati Rice 5kg"},
		{name: "sku", content: "SKU: {{product.sku}}", want: "SKU: SKU123"},
		{name: "price formats with currency", content: "{{product.price}}", want: "₹45.00"},
		{name: "mrp formats with currency", content: "MRP {{product.mrp}}", want: "MRP ₹55.00"},
		{name: "barcode passes through raw", content: "{{product.barcode}}", want: "8901234567890"},
		{name: "dates", content: "{{product.manufacturingDate}}/{{product.expiryDate}}", want: "2026-01-15/2027-01-15"},
		{name: "extra field", content: "Batch {{product.batch}}", want: "Batch B-17"},
		{name: "multiple tokens", content: "{{product.name}} @ {{product.price}}", want: "Basmati Rice 5kg @ ₹45.00"},
		{name: "unknown token left literal", content: "{{product.warehouse}}", want: "{{product.warehouse}}"},
		{name: "malformed token ignored", content: "{{product.}} {{price}}", want: "{{product.}} {{price}}"},
		{name: "no tokens", content: "plain text", want: "plain text"},
		{name: "case sensitive", content: "{{product.Name}}", want: "{{product.Name}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePlaceholders(tt.content, p, "₹"))
		})
	}
}

func TestResolvePlaceholdersCustomCurrency(t *testing.T) {
	p := testProduct()
	assert.Equal(t, "$45.00", ResolvePlaceholders("{{product.price}}", p, "$"))
}

func TestFieldUnknown(t *testing.T) {
	p := testProduct()
	_, ok := p.Field("warehouse", "₹")
	assert.False(t, ok)
}
