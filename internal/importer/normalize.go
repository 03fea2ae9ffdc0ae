package importer

import (
	"fmt"
	"math"

	"github.com/stokpos/importer/internal/sheet"
)

// normalize converts a raw row into its typed submission form, applying
// the field defaults: unit "ADET", tax rate 18 when the cell yields 0,
// minimum stock 5 when the cell yields 0, stock floored to an integer,
// and description falling back to the stock code.
//
// Unparseable numeric cells become their defaults rather than failing the
// row; each such cell is recorded as a low-confidence warning so the
// caller can surface it.
func normalize(raw sheet.RawProductRow) NormalizedProduct {
	n := NormalizedProduct{
		Barcode:            raw.Barcode,
		Name:               raw.Name,
		Unit:               raw.Unit,
		CategoryName:       raw.CategoryName,
		ParentCategoryName: raw.ParentCategoryName,
		Description:        raw.Description,
	}

	n.Price = numericField(&n, "price", raw.Price)
	n.Cost = numericField(&n, "cost", raw.Cost)
	n.Stock = int(math.Floor(numericField(&n, "stock", raw.Stock)))

	n.TaxRate = numericField(&n, "tax rate", raw.TaxRate)
	if n.TaxRate == 0 {
		n.TaxRate = DefaultTaxRate
	}

	n.MinStock = int(math.Floor(numericField(&n, "minimum stock", raw.MinStock)))
	if n.MinStock == 0 {
		n.MinStock = DefaultMinStock
	}

	if n.Unit == "" {
		n.Unit = DefaultUnit
	}
	if n.Description == "" {
		n.Description = raw.StockCode
	}

	return n
}

// numericField coerces one numeric cell, appending a warning when a
// non-empty value could not be parsed.
func numericField(n *NormalizedProduct, field, raw string) float64 {
	v, ok := sheet.CleanNumericChecked(raw)
	if !ok {
		n.Warnings = append(n.Warnings,
			fmt.Sprintf("%s: could not parse %q, using default", field, raw))
	}
	if v < 0 {
		v = 0
	}
	return v
}
