package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"readingtracker/internal/httpx"
	"readingtracker/internal/importer"
)

// maxImportErrors caps how many row errors a single response carries; the
// counts are always exact.
const maxImportErrors = 50

type CSVImporter interface {
	ImportCSV(ctx context.Context, r io.Reader, opts importer.Options) importer.Result
}

type ImportHandler struct {
	importer CSVImporter
}

func NewImportHandler(imp CSVImporter) *ImportHandler {
	return &ImportHandler{importer: imp}
}

// Upload accepts a multipart CSV upload and runs the batch import.
// skip_enrichment=true imports rows as-is; debug=true runs the full pipeline
// but persists nothing.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "missing_file", "Upload a CSV file in the \"file\" form field")
		return
	}
	defer file.Close()

	opts := importer.Options{
		SkipEnrichment: r.FormValue("skip_enrichment") == "true",
		Debug:          r.FormValue("debug") == "true",
	}

	result := h.importer.ImportCSV(r.Context(), file, opts)

	errs := result.Errors
	truncated := false
	if len(errs) > maxImportErrors {
		errs = errs[:maxImportErrors]
		truncated = true
	}

	resp := map[string]any{
		"success_count": result.SuccessCount,
		"error_count":   result.ErrorCount,
		"errors":        errs,
		"debug":         opts.Debug,
	}
	if truncated {
		resp["errors_note"] = fmt.Sprintf("showing first %d of %d errors", maxImportErrors, len(result.Errors))
	}

	httpx.JSONSuccess(w, resp)
}

// Sample serves a downloadable CSV template with the expected header and a
// few example rows.
func (h *ImportHandler) Sample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sample_books.csv"`)
	_, _ = io.WriteString(w, importer.SampleCSV())
}
