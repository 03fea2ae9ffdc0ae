package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stokpos/importer/internal/catalog"
	"github.com/stokpos/importer/internal/sheet"
)

func TestPipeline_AllRowsSucceed(t *testing.T) {
	fake := &fakeCatalog{}
	p := &Pipeline{Catalog: fake, Log: testLogger()}

	rows := []sheet.RawProductRow{
		{Name: "Kola", Price: "15"},
		{Name: "Süt", Price: "20"},
		{Name: "Ekmek", Price: "5"},
	}

	outcomes := p.Run(context.Background(), rows)
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Status != RowSucceeded {
			t.Errorf("row %d status = %q, want succeeded (%s)", i, o.Status, o.Reason)
		}
		if o.RowIndex != i {
			t.Errorf("row %d has RowIndex %d", i, o.RowIndex)
		}
		if o.ProductID == "" {
			t.Errorf("row %d missing product id", i)
		}
	}
}

func TestPipeline_RowFailureIsIsolated(t *testing.T) {
	fake := &fakeCatalog{
		rejectProduct: func(p catalog.Product) error {
			if p.Name == "Bozuk" {
				return &catalog.APIError{StatusCode: 422, Message: "barcode already exists"}
			}
			return nil
		},
	}
	p := &Pipeline{Catalog: fake, Log: testLogger()}

	rows := make([]sheet.RawProductRow, 0, 10)
	for i := 0; i < 10; i++ {
		name := "Ürün"
		if i == 4 {
			name = "Bozuk"
		}
		rows = append(rows, sheet.RawProductRow{Name: name})
	}

	outcomes := p.Run(context.Background(), rows)

	succeeded, failed := 0, 0
	for _, o := range outcomes {
		switch o.Status {
		case RowSucceeded:
			succeeded++
		case RowFailed:
			failed++
		}
	}
	if succeeded != 9 || failed != 1 {
		t.Fatalf("succeeded=%d failed=%d, want 9/1", succeeded, failed)
	}
	if outcomes[4].Status != RowFailed {
		t.Errorf("row 4 status = %q, want failed", outcomes[4].Status)
	}
	if outcomes[4].Reason != "barcode already exists" {
		t.Errorf("row 4 reason = %q, want the server's message", outcomes[4].Reason)
	}
}

func TestPipeline_MissingNameFailsWithoutSubmission(t *testing.T) {
	fake := &fakeCatalog{}
	p := &Pipeline{Catalog: fake, Log: testLogger()}

	rows := []sheet.RawProductRow{
		{Barcode: "869"}, // barcode only, no name
	}

	outcomes := p.Run(context.Background(), rows)
	if outcomes[0].Status != RowFailed {
		t.Fatalf("status = %q, want failed", outcomes[0].Status)
	}
	if outcomes[0].Reason != "missing name" {
		t.Errorf("reason = %q", outcomes[0].Reason)
	}
	if fake.createProductCalls != 0 {
		t.Errorf("createProductCalls = %d, want 0", fake.createProductCalls)
	}
}

func TestPipeline_CategoryAttachedToProduct(t *testing.T) {
	fake := &fakeCatalog{}
	p := &Pipeline{Catalog: fake, Log: testLogger()}

	rows := []sheet.RawProductRow{
		{Name: "Kola", CategoryName: "İçecekler", ParentCategoryName: "Gıda"},
		{Name: "Fanta", CategoryName: "İçecekler"},
	}

	outcomes := p.Run(context.Background(), rows)
	for i, o := range outcomes {
		if o.Status != RowSucceeded {
			t.Fatalf("row %d failed: %s", i, o.Reason)
		}
	}

	if fake.createCategoryCalls != 1 {
		t.Errorf("createCategoryCalls = %d, want 1 (shared category)", fake.createCategoryCalls)
	}
	if len(fake.products) != 2 {
		t.Fatalf("got %d products", len(fake.products))
	}
	if fake.products[0].CategoryID == "" || fake.products[0].CategoryID != fake.products[1].CategoryID {
		t.Errorf("products should share one category id, got %q and %q",
			fake.products[0].CategoryID, fake.products[1].CategoryID)
	}
}

func TestPipeline_CategoryFailureDoesNotFailRow(t *testing.T) {
	fake := &fakeCatalog{failCreateCategory: true}
	p := &Pipeline{Catalog: fake, Log: testLogger()}

	outcomes := p.Run(context.Background(), []sheet.RawProductRow{
		{Name: "Kola", CategoryName: "İçecekler"},
	})

	if outcomes[0].Status != RowSucceeded {
		t.Fatalf("status = %q, want succeeded without category (%s)",
			outcomes[0].Status, outcomes[0].Reason)
	}
	if fake.products[0].CategoryID != "" {
		t.Errorf("CategoryID = %q, want empty", fake.products[0].CategoryID)
	}
}

func TestPipeline_WarningsSurfaceOnSucceededRows(t *testing.T) {
	fake := &fakeCatalog{}
	p := &Pipeline{Catalog: fake, Log: testLogger()}

	outcomes := p.Run(context.Background(), []sheet.RawProductRow{
		{Name: "Kola", Price: "bedava"},
	})

	if outcomes[0].Status != RowSucceeded {
		t.Fatalf("status = %q, want succeeded", outcomes[0].Status)
	}
	if len(outcomes[0].Warnings) != 1 {
		t.Errorf("Warnings = %v, want one low-confidence warning", outcomes[0].Warnings)
	}
}

func TestPipeline_CancellationMarksRemainderNotAttempted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fake := &fakeCatalog{}
	fake.onCreateProduct = func(p catalog.Product) {
		if p.Name == "İkinci" {
			cancel()
		}
	}
	p := &Pipeline{Catalog: fake, Log: testLogger()}

	rows := []sheet.RawProductRow{
		{Name: "Birinci"},
		{Name: "İkinci"},
		{Name: "Üçüncü"},
		{Name: "Dördüncü"},
	}

	outcomes := p.Run(ctx, rows)

	if outcomes[0].Status != RowSucceeded || outcomes[1].Status != RowSucceeded {
		t.Fatalf("rows before cancellation should succeed: %+v", outcomes[:2])
	}
	for i := 2; i < 4; i++ {
		if outcomes[i].Status != RowNotAttempted {
			t.Errorf("row %d status = %q, want not_attempted", i, outcomes[i].Status)
		}
		if outcomes[i].ProductName != rows[i].Name {
			t.Errorf("row %d ProductName = %q, want %q", i, outcomes[i].ProductName, rows[i].Name)
		}
	}
}

func TestPipeline_CancelWhileSubmittingLetsRowFinish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inFlight := make(chan struct{})
	release := make(chan struct{})

	fake := &fakeCatalog{}
	fake.rejectProduct = func(p catalog.Product) error {
		if p.Name == "Kola" {
			close(inFlight)
			<-release
		}
		return nil
	}
	p := &Pipeline{Catalog: fake, Log: testLogger()}

	rows := []sheet.RawProductRow{
		{Name: "Kola"},
		{Name: "Süt"},
		{Name: "Ekmek"},
	}

	done := make(chan []RowOutcome, 1)
	go func() {
		done <- p.Run(ctx, rows)
	}()

	// Cancel while row 0's submission is in flight, then let it return.
	<-inFlight
	cancel()
	close(release)

	outcomes := <-done
	if outcomes[0].Status != RowSucceeded {
		t.Fatalf("in-flight row status = %q (reason %q), want succeeded",
			outcomes[0].Status, outcomes[0].Reason)
	}
	if outcomes[0].ProductID == "" {
		t.Error("in-flight row should carry the created product id")
	}
	for i := 1; i < 3; i++ {
		if outcomes[i].Status != RowNotAttempted {
			t.Errorf("row %d status = %q, want not_attempted", i, outcomes[i].Status)
		}
	}
}

func TestSubmissionReason(t *testing.T) {
	apiErr := &catalog.APIError{StatusCode: 409, Message: "duplicate barcode"}
	if got := submissionReason(apiErr); got != "duplicate barcode" {
		t.Errorf("submissionReason(APIError) = %q", got)
	}

	plain := errors.New("connection refused")
	if got := submissionReason(plain); got != "connection refused" {
		t.Errorf("submissionReason(plain) = %q", got)
	}

	empty := &catalog.APIError{StatusCode: 500}
	if got := submissionReason(empty); got == "" {
		t.Error("submissionReason should never be empty")
	}
}
