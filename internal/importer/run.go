package importer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stokpos/importer/internal/catalog"
	"github.com/stokpos/importer/internal/sheet"
)

// Pipeline runs parsed rows through normalization, category resolution and
// product submission. Rows flow over a channel into a single worker, so
// submissions happen strictly in row order and the catalog service sees at
// most one in-flight request.
type Pipeline struct {
	Catalog catalog.Service
	Log     *slog.Logger

	// OnRowDone, when set, is called from the worker after each processed
	// row with the zero-based index of that row and its outcome.
	OnRowDone func(index int, outcome RowOutcome)
}

type rowJob struct {
	index int
	raw   sheet.RawProductRow
}

// Run processes every row and returns one outcome per input row, in input
// order. Row failures never abort the run; cancellation lets the row in
// flight finish and marks the remainder not_attempted.
func (p *Pipeline) Run(ctx context.Context, rows []sheet.RawProductRow) []RowOutcome {
	outcomes := make([]RowOutcome, len(rows))

	jobs := make(chan rowJob)
	go func() {
		defer close(jobs)
		for i, raw := range rows {
			select {
			case jobs <- rowJob{index: i, raw: raw}:
			case <-ctx.Done():
				return
			}
		}
	}()

	resolver := NewResolver(p.Catalog, p.Log)
	resolver.Load(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for job := range jobs {
			// A job may already be in the channel when cancellation
			// lands; leave it untouched so it reports as not attempted.
			if ctx.Err() != nil {
				continue
			}
			// A started row always finishes: its remote calls run on a
			// cancellation-shielded context, so the outcome reflects what
			// the catalog service actually did. The client's own request
			// timeout still bounds each call.
			outcomes[job.index] = p.processRow(context.WithoutCancel(ctx), resolver, job)
			if p.OnRowDone != nil {
				p.OnRowDone(job.index, outcomes[job.index])
			}
		}
	}()
	<-done

	// Rows the feeder never handed over keep the zero Status; tag them so
	// the report distinguishes "never tried" from "tried and failed".
	for i := range outcomes {
		if outcomes[i].Status == "" {
			outcomes[i] = RowOutcome{
				RowIndex:    i,
				ProductName: rows[i].Name,
				Status:      RowNotAttempted,
				Reason:      "run cancelled before this row was processed",
			}
		}
	}
	return outcomes
}

// processRow takes one row through the full pipeline. Every failure path
// returns a tagged outcome; nothing propagates an error to the caller.
func (p *Pipeline) processRow(ctx context.Context, resolver *Resolver, job rowJob) RowOutcome {
	outcome := RowOutcome{
		RowIndex:    job.index,
		ProductName: job.raw.Name,
	}

	if job.raw.Name == "" {
		outcome.Status = RowFailed
		outcome.Reason = "missing name"
		return outcome
	}

	product := normalize(job.raw)
	outcome.Warnings = product.Warnings

	categoryID := resolver.Resolve(ctx, product.CategoryName, product.ParentCategoryName)

	id, err := p.Catalog.CreateProduct(ctx, catalog.Product{
		Barcode:     product.Barcode,
		Name:        product.Name,
		Price:       product.Price,
		Cost:        product.Cost,
		Stock:       product.Stock,
		Unit:        product.Unit,
		TaxRate:     product.TaxRate,
		MinStock:    product.MinStock,
		Description: product.Description,
		CategoryID:  categoryID,
	})
	if err != nil {
		outcome.Status = RowFailed
		outcome.Reason = submissionReason(err)
		p.Log.Warn("product submission failed",
			"row", job.index, "product", product.Name, "error", err)
		return outcome
	}

	outcome.Status = RowSucceeded
	outcome.ProductID = id
	return outcome
}

// submissionReason prefers the catalog service's own error text so the
// report tells the operator what the server rejected, not how the HTTP
// call was shaped.
func submissionReason(err error) string {
	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
