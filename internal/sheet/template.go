package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Column describes one column of the fixed 15-column import layout.
type Column struct {
	Letter  string
	Label   string
	Example string
}

// Columns is the fixed A..O import layout. The labels are the
// user-facing header row of the downloadable template.
var Columns = []Column{
	{"A", "Barkod", "8690000000001"},
	{"B", "Ürün Adı", "Kola 330ml"},
	{"C", "Stok Miktarı", "100"},
	{"D", "Birim", "ADET"},
	{"E", "Satış Fiyatı", "15"},
	{"F", "KDV Oranı (%)", "18"},
	{"G", "Alış Fiyatı", "10"},
	{"H", "Üst Kategori", "İçecekler"},
	{"I", "Kategori", "Gazlı İçecekler"},
	{"J", "Alternatif Fiyat", "14.5"},
	{"K", "Stok Kodu", "STK-001"},
	{"L", "Açıklama", "Kutu kola"},
	{"M", "Hızlı Satış Grubu", "1"},
	{"N", "Hızlı Satış Sırası", "2"},
	{"O", "Minimum Stok", "5"},
}

// WriteTemplate writes the import template as CSV: one header row and
// one example data row.
func WriteTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(Columns))
	example := make([]string, len(Columns))
	for i, c := range Columns {
		header[i] = c.Label
		example[i] = c.Example
	}

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write template header: %w", err)
	}
	if err := cw.Write(example); err != nil {
		return fmt.Errorf("write template example row: %w", err)
	}

	cw.Flush()
	return cw.Error()
}
