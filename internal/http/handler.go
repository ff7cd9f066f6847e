package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"readingtracker/internal/httpx"
)

// pathID extracts a numeric path parameter from r.URL.Path after prefix,
// e.g. pathID(r, "/books/") for /books/42. Returns false when the remainder
// is empty, nested, or not a number.
func pathID(r *http.Request, prefix string) (int64, bool) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if rest == "" || rest == r.URL.Path || strings.Contains(rest, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// pathIDAction extracts "{id}/{action}" after prefix, e.g. /suggestions/7/approve.
func pathIDAction(r *http.Request, prefix string) (int64, string, bool) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if rest == r.URL.Path {
		return 0, "", false
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return 0, "", false
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, parts[1], true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return false
	}
	return true
}
