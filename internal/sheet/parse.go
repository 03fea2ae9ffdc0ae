package sheet

import "strings"

// Row is one decoded spreadsheet row: a mapping from column letter
// (A..O) to the raw cell value. Produced by the upstream decoder.
type Row map[string]string

// RawProductRow is the positional projection of one spreadsheet row.
// All fields are cleaned text but still untyped; numeric coercion happens
// at submission time.
type RawProductRow struct {
	Barcode            string // A
	Name               string // B
	Stock              string // C
	Unit               string // D
	Price              string // E
	TaxRate            string // F
	Cost               string // G
	ParentCategoryName string // H
	CategoryName       string // I
	AltPrice           string // J
	StockCode          string // K
	Description        string // L
	QuickSaleGroup     string // M
	QuickSaleOrder     string // N
	MinStock           string // O
}

// headerMarkers identify a header row when found in column A or B.
var headerMarkers = []string{"barkod", "ürün", "urun"}

// ParseRows converts decoded rows into RawProductRows.
//
// An optional header row (column A or B mentioning the barcode/product
// labels) is skipped. Rows where both barcode and name are empty after
// cleaning are discarded entirely: they are neither counted nor reported.
func ParseRows(rows []Row) []RawProductRow {
	if len(rows) == 0 {
		return nil
	}

	if IsHeaderRow(rows[0]) {
		rows = rows[1:]
	}

	out := make([]RawProductRow, 0, len(rows))
	for _, r := range rows {
		p := parseRow(r)
		if p.Barcode == "" && p.Name == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IsHeaderRow reports whether a row looks like the template's header row.
func IsHeaderRow(r Row) bool {
	a := strings.ToLower(CleanText(r["A"]))
	b := strings.ToLower(CleanText(r["B"]))

	for _, marker := range headerMarkers {
		if strings.Contains(a, marker) || strings.Contains(b, marker) {
			return true
		}
	}
	return false
}

func parseRow(r Row) RawProductRow {
	return RawProductRow{
		Barcode:            CleanText(r["A"]),
		Name:               CleanText(r["B"]),
		Stock:              CleanText(r["C"]),
		Unit:               CleanText(r["D"]),
		Price:              CleanText(r["E"]),
		TaxRate:            CleanText(r["F"]),
		Cost:               CleanText(r["G"]),
		ParentCategoryName: CleanText(r["H"]),
		CategoryName:       CleanText(r["I"]),
		AltPrice:           CleanText(r["J"]),
		StockCode:          CleanText(r["K"]),
		Description:        CleanText(r["L"]),
		QuickSaleGroup:     CleanText(r["M"]),
		QuickSaleOrder:     CleanText(r["N"]),
		MinStock:           CleanText(r["O"]),
	}
}
