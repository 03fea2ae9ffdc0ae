package importer

import (
	"strings"
	"testing"

	"github.com/stokpos/importer/internal/sheet"
)

func TestNormalize_Defaults(t *testing.T) {
	got := normalize(sheet.RawProductRow{
		Name:      "Kola",
		StockCode: "STK-001",
	})

	if got.Unit != DefaultUnit {
		t.Errorf("Unit = %q, want %q", got.Unit, DefaultUnit)
	}
	if got.TaxRate != DefaultTaxRate {
		t.Errorf("TaxRate = %v, want %v", got.TaxRate, float64(DefaultTaxRate))
	}
	if got.MinStock != DefaultMinStock {
		t.Errorf("MinStock = %d, want %d", got.MinStock, DefaultMinStock)
	}
	if got.Description != "STK-001" {
		t.Errorf("Description = %q, want stock code fallback", got.Description)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("blank cells should not warn, got %v", got.Warnings)
	}
}

func TestNormalize_TaxRateZeroBecomesDefault(t *testing.T) {
	got := normalize(sheet.RawProductRow{Name: "Kola", TaxRate: "0"})
	if got.TaxRate != DefaultTaxRate {
		t.Errorf("TaxRate = %v, want %v", got.TaxRate, float64(DefaultTaxRate))
	}

	got = normalize(sheet.RawProductRow{Name: "Kola", TaxRate: "8"})
	if got.TaxRate != 8 {
		t.Errorf("TaxRate = %v, want 8", got.TaxRate)
	}
}

func TestNormalize_StockFloored(t *testing.T) {
	got := normalize(sheet.RawProductRow{Name: "Kola", Stock: "10.9"})
	if got.Stock != 10 {
		t.Errorf("Stock = %d, want 10", got.Stock)
	}
}

func TestNormalize_MinStockZeroBecomesDefault(t *testing.T) {
	got := normalize(sheet.RawProductRow{Name: "Kola", MinStock: "0"})
	if got.MinStock != DefaultMinStock {
		t.Errorf("MinStock = %d, want %d", got.MinStock, DefaultMinStock)
	}

	got = normalize(sheet.RawProductRow{Name: "Kola", MinStock: "12"})
	if got.MinStock != 12 {
		t.Errorf("MinStock = %d, want 12", got.MinStock)
	}
}

func TestNormalize_UnparseableNumericWarnsAndDefaults(t *testing.T) {
	got := normalize(sheet.RawProductRow{
		Name:    "Kola",
		Price:   "abc",
		TaxRate: "n/a",
	})

	if got.Price != 0 {
		t.Errorf("Price = %v, want 0", got.Price)
	}
	if got.TaxRate != DefaultTaxRate {
		t.Errorf("TaxRate = %v, want %v", got.TaxRate, float64(DefaultTaxRate))
	}
	if len(got.Warnings) != 2 {
		t.Fatalf("Warnings = %v, want 2 entries", got.Warnings)
	}
	for _, w := range got.Warnings {
		if !strings.Contains(w, "could not parse") {
			t.Errorf("warning %q should explain the parse failure", w)
		}
	}
}

func TestNormalize_NegativeValuesClampedToZero(t *testing.T) {
	got := normalize(sheet.RawProductRow{Name: "Kola", Price: "-5", Stock: "-2"})
	if got.Price != 0 {
		t.Errorf("Price = %v, want 0", got.Price)
	}
	if got.Stock != 0 {
		t.Errorf("Stock = %d, want 0", got.Stock)
	}
}

func TestNormalize_ExplicitDescriptionWins(t *testing.T) {
	got := normalize(sheet.RawProductRow{
		Name:        "Kola",
		StockCode:   "STK-001",
		Description: "Kutu kola",
	})
	if got.Description != "Kutu kola" {
		t.Errorf("Description = %q, want %q", got.Description, "Kutu kola")
	}
}
