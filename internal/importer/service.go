package importer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stokpos/importer/internal/catalog"
	"github.com/stokpos/importer/internal/sheet"
)

// RunTimeout is the maximum duration for one import run.
var RunTimeout = 10 * time.Minute

// retention is how long a finished run stays queryable before cleanup.
var retention = 15 * time.Minute

// MaxConcurrentRuns bounds how many imports may be in flight at once.
var MaxConcurrentRuns = 4

// Service owns the lifecycle of import runs: start, observe, cancel,
// fetch the report. Each run executes in the background on its own
// detached context so the caller's request can return immediately.
type Service struct {
	catalog catalog.Service
	history *History
	log     *slog.Logger

	mu   sync.RWMutex
	runs map[string]*activeRun
}

type activeRun struct {
	ID       string
	FileName string
	Cancel   context.CancelFunc
	Done     chan struct{}
	Report   *ImportReport

	progressMu sync.Mutex
	progress   RunProgress
	listeners  []chan RunProgress
	finished   bool
}

// NewService creates the run service. history may be nil, in which case
// finished runs are not persisted.
func NewService(cat catalog.Service, history *History, log *slog.Logger) *Service {
	return &Service{
		catalog: cat,
		history: history,
		log:     log,
		runs:    make(map[string]*activeRun),
	}
}

// StartImport parses the rows and begins an asynchronous run, returning
// the run id immediately. It fails before starting when the input has no
// importable rows, so a bad file never produces an empty run.
func (s *Service) StartImport(ctx context.Context, fileName string, rows []sheet.Row) (string, error) {
	parsed := sheet.ParseRows(rows)
	if len(parsed) == 0 {
		return "", ErrNoRows
	}

	s.mu.Lock()
	active := 0
	for _, run := range s.runs {
		select {
		case <-run.Done:
		default:
			active++
		}
	}
	if active >= MaxConcurrentRuns {
		s.mu.Unlock()
		return "", ErrTooManyRuns
	}

	runID := uuid.New().String()
	runCtx, cancel := context.WithTimeout(context.Background(), RunTimeout)

	run := &activeRun{
		ID:       runID,
		FileName: fileName,
		Cancel:   cancel,
		Done:     make(chan struct{}),
		progress: RunProgress{
			RunID:     runID,
			FileName:  fileName,
			Phase:     PhaseStarting,
			TotalRows: len(parsed),
		},
	}
	s.runs[runID] = run
	s.mu.Unlock()

	go s.execute(runCtx, run, parsed)

	return runID, nil
}

// execute drives one run to completion and publishes the final report.
func (s *Service) execute(ctx context.Context, run *activeRun, parsed []sheet.RawProductRow) {
	defer run.Cancel()

	log := s.log.With("run", run.ID, "file", run.FileName)
	log.Info("import run started", "rows", len(parsed))
	start := time.Now()

	run.setPhase(PhaseProcessing)

	pipeline := &Pipeline{
		Catalog: s.catalog,
		Log:     log,
		OnRowDone: func(index int, outcome RowOutcome) {
			run.recordRow(index, outcome)
		},
	}
	outcomes := pipeline.Run(ctx, parsed)

	report := buildReport(run.ID, run.FileName, outcomes, time.Since(start))

	phase := PhaseComplete
	if report.NotAttempted > 0 {
		phase = PhaseCancelled
	}

	run.finish(&report, phase)
	close(run.Done)

	log.Info("import run finished",
		"phase", phase,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"notAttempted", report.NotAttempted,
		"duration", report.Duration)

	if s.history != nil {
		// The run context may be cancelled or expired; persistence gets
		// its own deadline.
		histCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.history.RecordRun(histCtx, report); err != nil {
			log.Error("recording run history failed", "error", err)
		}
	}

	s.cleanup(run.ID, retention)
}

// SubscribeProgress returns a channel of progress updates for a run. The
// channel receives the current state immediately and is closed when the
// run finishes. Slow consumers miss intermediate updates rather than
// stalling the worker.
func (s *Service) SubscribeProgress(runID string) (<-chan RunProgress, error) {
	run, err := s.get(runID)
	if err != nil {
		return nil, err
	}

	ch := make(chan RunProgress, 10)

	run.progressMu.Lock()
	defer run.progressMu.Unlock()

	if run.finished {
		// Already done: deliver the final state and close.
		ch <- run.progress
		close(ch)
		return ch, nil
	}

	run.listeners = append(run.listeners, ch)
	select {
	case ch <- run.progress:
	default:
	}
	return ch, nil
}

// Progress returns the current progress without blocking.
func (s *Service) Progress(runID string) (RunProgress, error) {
	run, err := s.get(runID)
	if err != nil {
		return RunProgress{}, err
	}

	run.progressMu.Lock()
	defer run.progressMu.Unlock()
	return run.progress, nil
}

// Cancel stops an in-flight run. The row being processed finishes;
// everything after it is reported as not attempted. Cancelling a
// finished run is a no-op.
func (s *Service) Cancel(runID string) error {
	run, err := s.get(runID)
	if err != nil {
		return err
	}
	run.Cancel()
	return nil
}

// Report returns the final report, blocking until the run completes or
// ctx is done.
func (s *Service) Report(ctx context.Context, runID string) (ImportReport, error) {
	run, err := s.get(runID)
	if err != nil {
		return ImportReport{}, err
	}

	select {
	case <-run.Done:
	case <-ctx.Done():
		return ImportReport{}, ctx.Err()
	}

	return *run.Report, nil
}

func (s *Service) get(runID string) (*activeRun, error) {
	s.mu.RLock()
	run, ok := s.runs[runID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// cleanup drops a finished run from tracking after a delay, keeping it
// queryable long enough for clients to fetch the report.
func (s *Service) cleanup(runID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.runs, runID)
		s.mu.Unlock()
	})
}

func (run *activeRun) setPhase(phase RunPhase) {
	run.progressMu.Lock()
	run.progress.Phase = phase
	run.progressMu.Unlock()
	run.notifyProgress()
}

func (run *activeRun) recordRow(index int, outcome RowOutcome) {
	run.progressMu.Lock()
	run.progress.CurrentRow = index + 1
	switch outcome.Status {
	case RowSucceeded:
		run.progress.Succeeded++
	case RowFailed:
		run.progress.Failed++
	}
	run.progressMu.Unlock()
	run.notifyProgress()
}

// notifyProgress fans the current state out to listeners. Full listener
// buffers are skipped, never waited on.
func (run *activeRun) notifyProgress() {
	run.progressMu.Lock()
	defer run.progressMu.Unlock()

	for _, ch := range run.listeners {
		select {
		case ch <- run.progress:
		default:
		}
	}
}

// finish publishes the report, delivers the final state to every listener
// and closes them. Marking finished under the same lock keeps late
// subscribers from attaching to a run that will never notify again.
func (run *activeRun) finish(report *ImportReport, phase RunPhase) {
	run.progressMu.Lock()
	defer run.progressMu.Unlock()

	run.Report = report
	run.progress.Phase = phase
	run.finished = true

	for _, ch := range run.listeners {
		select {
		case ch <- run.progress:
		default:
		}
		close(ch)
	}
	run.listeners = nil
}
