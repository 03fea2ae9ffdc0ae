package web

// startImportRequest is the JSON body for starting an import without a
// file upload. Rows are positional: cell 0 is column A, cell 1 column B.
type startImportRequest struct {
	FileName string     `json:"fileName"`
	Rows     [][]string `json:"rows" validate:"required,min=1"`
}

// startImportResponse acknowledges an accepted run.
type startImportResponse struct {
	RunID string `json:"runId"`
}

// previewRequest is the JSON body for a preview without a file upload.
type previewRequest struct {
	Rows [][]string `json:"rows" validate:"required,min=1"`
}
