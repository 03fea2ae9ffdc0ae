package sheet

import (
	"bytes"
	"encoding/csv"
	"testing"
)

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf); err != nil {
		t.Fatalf("WriteTemplate() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("template is not valid CSV: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("template has %d rows, want 2 (header + example)", len(records))
	}
	if len(records[0]) != len(Columns) {
		t.Fatalf("header has %d columns, want %d", len(records[0]), len(Columns))
	}
	if records[0][0] != "Barkod" || records[0][1] != "Ürün Adı" {
		t.Errorf("unexpected header start: %v", records[0][:2])
	}
}

func TestTemplateHeaderIsDetectedAsHeader(t *testing.T) {
	// The template's own header row must be recognized and skipped by the
	// parser, otherwise a round trip would import the header as a product.
	r := Row{"A": Columns[0].Label, "B": Columns[1].Label}
	if !IsHeaderRow(r) {
		t.Error("template header row not detected by IsHeaderRow")
	}
}
