package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stokpos/importer/internal/importer"
	"github.com/stokpos/importer/internal/sheet"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDownloadTemplate serves the import template as a CSV download.
func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="urun-import-sablonu.csv"`)

	if err := sheet.WriteTemplate(w); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
	}
}

// handleStartImport starts an asynchronous import run. The input is
// either a multipart CSV upload (field "file") or a JSON body with
// positional rows. Responds 202 with the run id; progress and the report
// are fetched separately.
func (s *Server) handleStartImport(w http.ResponseWriter, r *http.Request) {
	fileName, rows, err := s.readRows(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	runID, err := s.service.StartImport(r.Context(), fileName, rows)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusAccepted, startImportResponse{RunID: runID})
}

// handlePreview normalizes the first rows of the input without creating
// anything, so a client can verify column mapping and defaults.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rows, err := s.readPreviewRows(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	products := importer.Preview(rows, s.cfg.Import.PreviewRows)
	if len(products) == 0 {
		s.respondError(w, r, importer.ErrNoRows, http.StatusBadRequest)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"products": products})
}

// readRows extracts sheet rows from an import request, handling both
// multipart CSV uploads and JSON bodies.
func (s *Server) readRows(w http.ResponseWriter, r *http.Request) (string, []sheet.Row, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	if isMultipart(r) {
		return s.multipartRows(r)
	}

	var req startImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", nil, fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validator.Struct(req); err != nil {
		return "", nil, fmt.Errorf("invalid request: %w", err)
	}
	return req.FileName, recordsToRows(req.Rows), nil
}

// readPreviewRows is readRows for the preview endpoint, which takes no
// file name.
func (s *Server) readPreviewRows(w http.ResponseWriter, r *http.Request) ([]sheet.Row, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	if isMultipart(r) {
		_, rows, err := s.multipartRows(r)
		return rows, err
	}

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return recordsToRows(req.Rows), nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// multipartRows decodes the uploaded CSV from the "file" form field.
func (s *Server) multipartRows(r *http.Request) (string, []sheet.Row, error) {
	if err := r.ParseMultipartForm(s.cfg.Import.MaxFileSize); err != nil {
		return "", nil, fmt.Errorf("file too large or invalid form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, errors.New("no file provided")
	}
	defer file.Close()

	rows, err := decodeCSV(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, rows, nil
}

// handleRunProgress streams run progress via Server-Sent Events.
// Supports resumption via the lastEventId query parameter.
func (s *Server) handleRunProgress(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	progressCh, err := s.service.SubscribeProgress(runID)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, r, errors.New("streaming not supported"), http.StatusInternalServerError)
		return
	}

	// The event id is the progress percentage, letting clients skip
	// already-seen events after a reconnect.
	lastEventIDStr := r.URL.Query().Get("lastEventId")
	var lastEventID int
	if lastEventIDStr != "" {
		lastEventID, _ = strconv.Atoi(lastEventIDStr)
	}

	for {
		select {
		case progress, ok := <-progressCh:
			if !ok {
				fmt.Fprintf(w, "event: complete\ndata: {}\n\n")
				flusher.Flush()
				return
			}

			percent := progress.Percent()
			if lastEventIDStr != "" && percent <= lastEventID {
				continue
			}

			data, _ := json.Marshal(progress)
			fmt.Fprintf(w, "id: %d\nevent: progress\ndata: %s\n\n", percent, data)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// handleRunReport returns the final report of a run, waiting for the run
// to complete when it is still in flight.
func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	report, err := s.service.Report(r.Context(), runID)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusOK, report)
}

// handleCancelRun cancels an in-flight run. The row currently being
// processed finishes; the remainder is reported as not attempted.
func (s *Server) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	if err := s.service.Cancel(runID); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "cancelling"})
}

// handleListRuns returns persisted run history, newest first. Without a
// configured database the list is empty.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, r, http.StatusOK, map[string]any{"runs": []importer.RunSummary{}})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	runs, err := s.history.ListRuns(ctx, s.cfg.Import.HistoryLimit)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []importer.RunSummary{}
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"runs": runs})
}

// handleRunFailures returns the persisted failed rows of a past run.
func (s *Server) handleRunFailures(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondError(w, r, importer.ErrRunNotFound, http.StatusNotFound)
		return
	}

	runID := chi.URLParam(r, "runID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	failures, err := s.history.ListFailures(ctx, runID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if failures == nil {
		failures = []importer.RunFailure{}
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"failures": failures})
}
