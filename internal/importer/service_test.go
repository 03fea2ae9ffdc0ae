package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stokpos/importer/internal/catalog"
	"github.com/stokpos/importer/internal/sheet"
)

func sheetRows(names ...string) []sheet.Row {
	rows := make([]sheet.Row, 0, len(names))
	for _, n := range names {
		rows = append(rows, sheet.Row{"A": "869", "B": n})
	}
	return rows
}

func TestService_StartImportRejectsEmptyInput(t *testing.T) {
	svc := NewService(&fakeCatalog{}, nil, testLogger())

	_, err := svc.StartImport(context.Background(), "bos.csv", nil)
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("StartImport(nil) error = %v, want ErrNoRows", err)
	}

	// A file with only a header row has no importable rows either.
	_, err = svc.StartImport(context.Background(), "header.csv", []sheet.Row{
		{"A": "Barkod", "B": "Ürün Adı"},
	})
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("StartImport(header only) error = %v, want ErrNoRows", err)
	}
}

func TestService_RunToCompletion(t *testing.T) {
	svc := NewService(&fakeCatalog{}, nil, testLogger())

	runID, err := svc.StartImport(context.Background(), "urunler.csv", sheetRows("Kola", "Süt", "Ekmek"))
	if err != nil {
		t.Fatalf("StartImport() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report, err := svc.Report(ctx, runID)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	if report.RunID != runID {
		t.Errorf("RunID = %q, want %q", report.RunID, runID)
	}
	if report.FileName != "urunler.csv" {
		t.Errorf("FileName = %q", report.FileName)
	}
	if report.TotalRows != 3 || report.Succeeded != 3 || report.Failed != 0 {
		t.Errorf("counts = %d/%d/%d, want 3/3/0",
			report.TotalRows, report.Succeeded, report.Failed)
	}
	if len(report.Outcomes) != 3 {
		t.Errorf("Outcomes = %d entries, want 3", len(report.Outcomes))
	}
}

func TestService_UnknownRun(t *testing.T) {
	svc := NewService(&fakeCatalog{}, nil, testLogger())

	if _, err := svc.Progress("yok"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Progress(unknown) error = %v, want ErrRunNotFound", err)
	}
	if err := svc.Cancel("yok"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Cancel(unknown) error = %v, want ErrRunNotFound", err)
	}
	if _, err := svc.SubscribeProgress("yok"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("SubscribeProgress(unknown) error = %v, want ErrRunNotFound", err)
	}
}

func TestService_SubscribeProgressClosesOnCompletion(t *testing.T) {
	svc := NewService(&fakeCatalog{}, nil, testLogger())

	runID, err := svc.StartImport(context.Background(), "", sheetRows("Kola"))
	if err != nil {
		t.Fatalf("StartImport() error = %v", err)
	}

	ch, err := svc.SubscribeProgress(runID)
	if err != nil {
		t.Fatalf("SubscribeProgress() error = %v", err)
	}

	deadline := time.After(5 * time.Second)
	var last RunProgress
	for {
		select {
		case p, ok := <-ch:
			if !ok {
				if last.Phase != PhaseComplete {
					t.Errorf("final phase = %q, want complete", last.Phase)
				}
				return
			}
			last = p
		case <-deadline:
			t.Fatal("progress channel never closed")
		}
	}
}

func TestService_ReportHonorsContext(t *testing.T) {
	// A run that never finishes must not block Report forever.
	blocker := &fakeCatalog{}
	block := make(chan struct{})
	blocker.rejectProduct = func(p catalog.Product) error {
		<-block
		return nil
	}
	defer close(block)

	svc := NewService(blocker, nil, testLogger())
	runID, err := svc.StartImport(context.Background(), "", sheetRows("Kola"))
	if err != nil {
		t.Fatalf("StartImport() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := svc.Report(ctx, runID); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Report() error = %v, want deadline exceeded", err)
	}
}
