// Package importer drives the bulk catalog import pipeline: parse rows,
// normalize fields, resolve categories, submit products, and aggregate a
// row-level report. It has no HTTP dependencies and is used by the web
// layer through the Service type.
package importer

import "time"

// Submission defaults applied when a cell is blank or unparseable.
const (
	DefaultUnit     = "ADET"
	DefaultTaxRate  = 18
	DefaultMinStock = 5
)

// RowStatus is the terminal state of one row.
type RowStatus string

const (
	// RowSucceeded means the product was created remotely.
	RowSucceeded RowStatus = "succeeded"
	// RowFailed means validation or submission failed; later rows are
	// unaffected.
	RowFailed RowStatus = "failed"
	// RowNotAttempted means the run was cancelled before this row was
	// processed. Distinct from RowFailed: nothing was tried.
	RowNotAttempted RowStatus = "not_attempted"
)

// RowOutcome is the tagged per-row result.
type RowOutcome struct {
	RowIndex    int       `json:"rowIndex"`
	ProductName string    `json:"productName,omitempty"`
	Status      RowStatus `json:"status"`
	ProductID   string    `json:"productId,omitempty"`
	Reason      string    `json:"reason,omitempty"`

	// Warnings lists low-confidence numeric parses: cells that were not
	// empty but fell back to a default. The row still succeeds.
	Warnings []string `json:"warnings,omitempty"`
}

// ImportReport is the final result of one import run. Outcomes are
// index-stable and match the original row order.
type ImportReport struct {
	RunID        string        `json:"runId"`
	FileName     string        `json:"fileName,omitempty"`
	TotalRows    int           `json:"totalRows"`
	Succeeded    int           `json:"succeeded"`
	Failed       int           `json:"failed"`
	NotAttempted int           `json:"notAttempted,omitempty"`
	Outcomes     []RowOutcome  `json:"outcomes"`
	Duration     time.Duration `json:"-"`
	DurationMs   int64         `json:"durationMs"`
}

// PartialSuccess reports whether the run had both successes and failures.
func (r ImportReport) PartialSuccess() bool {
	return r.Succeeded > 0 && r.Failed > 0
}

// RunPhase is the coarse stage of an import run.
type RunPhase string

const (
	PhaseStarting   RunPhase = "starting"
	PhaseProcessing RunPhase = "processing"
	PhaseComplete   RunPhase = "complete"
	PhaseCancelled  RunPhase = "cancelled"
)

// RunProgress is the current state of an in-flight run.
type RunProgress struct {
	RunID      string   `json:"runId"`
	FileName   string   `json:"fileName,omitempty"`
	Phase      RunPhase `json:"phase"`
	TotalRows  int      `json:"totalRows"`
	CurrentRow int      `json:"currentRow"`
	Succeeded  int      `json:"succeeded"`
	Failed     int      `json:"failed"`
}

// Percent returns the progress as a percentage (0-100).
func (p RunProgress) Percent() int {
	if p.TotalRows == 0 {
		return 0
	}
	return (p.CurrentRow * 100) / p.TotalRows
}

// NormalizedProduct is the typed, cleaned projection of a raw row, ready
// for submission once a category id is attached.
type NormalizedProduct struct {
	Barcode            string  `json:"barcode,omitempty"`
	Name               string  `json:"name"`
	Price              float64 `json:"price"`
	Cost               float64 `json:"cost"`
	Stock              int     `json:"stock"`
	Unit               string  `json:"unit"`
	TaxRate            float64 `json:"taxRate"`
	MinStock           int     `json:"minStock"`
	CategoryName       string  `json:"categoryName,omitempty"`
	ParentCategoryName string  `json:"parentCategoryName,omitempty"`
	Description        string  `json:"description,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}
