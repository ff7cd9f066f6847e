package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readingtracker/internal/importer"
)

type fakeImporter struct {
	gotCSV  string
	gotOpts importer.Options
	result  importer.Result
}

func (f *fakeImporter) ImportCSV(_ context.Context, r io.Reader, opts importer.Options) importer.Result {
	data, _ := io.ReadAll(r)
	f.gotCSV = string(data)
	f.gotOpts = opts
	return f.result
}

func multipartCSV(t *testing.T, url, csv string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "books.csv")
	require.NoError(t, err)
	_, err = io.WriteString(part, csv)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportUploadRunsImporter(t *testing.T) {
	imp := &fakeImporter{result: importer.Result{SuccessCount: 2, ErrorCount: 1, Errors: []string{"row 3: grade must be between 1 and 12"}}}
	handler := NewImportHandler(imp)

	csv := "title,author\nWonder,R.J. Palacio\n"
	req := multipartCSV(t, "/admin/books/import", csv, nil)
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, csv, imp.gotCSV)
	assert.False(t, imp.gotOpts.SkipEnrichment)
	assert.False(t, imp.gotOpts.Debug)

	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp.Data["success_count"])
	assert.Equal(t, float64(1), resp.Data["error_count"])
}

func TestImportUploadPassesOptions(t *testing.T) {
	imp := &fakeImporter{}
	handler := NewImportHandler(imp)

	req := multipartCSV(t, "/admin/books/import", "title,author\n", map[string]string{
		"skip_enrichment": "true",
		"debug":           "true",
	})
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, imp.gotOpts.SkipEnrichment)
	assert.True(t, imp.gotOpts.Debug)
}

func TestImportUploadRequiresFile(t *testing.T) {
	handler := NewImportHandler(&fakeImporter{})

	req := httptest.NewRequest(http.MethodPost, "/admin/books/import", strings.NewReader("not a form"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportUploadTruncatesLongErrorLists(t *testing.T) {
	result := importer.Result{ErrorCount: maxImportErrors + 10}
	for i := 0; i < maxImportErrors+10; i++ {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: broken", i+2))
	}
	handler := NewImportHandler(&fakeImporter{result: result})

	req := multipartCSV(t, "/admin/books/import", "title,author\n", nil)
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			ErrorCount int      `json:"error_count"`
			Errors     []string `json:"errors"`
			ErrorsNote string   `json:"errors_note"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, maxImportErrors+10, resp.Data.ErrorCount)
	assert.Len(t, resp.Data.Errors, maxImportErrors)
	assert.NotEmpty(t, resp.Data.ErrorsNote)
}

func TestImportSampleDownload(t *testing.T) {
	handler := NewImportHandler(&fakeImporter{})

	req := httptest.NewRequest(http.MethodGet, "/admin/books/import/sample", nil)
	rec := httptest.NewRecorder()
	handler.Sample(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sample_books.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "title,author"))
}
