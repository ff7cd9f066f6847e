// Package openlibrary is a best-effort client for the Open Library catalog.
//
// Enrichment is never required for correctness, so every public method fails
// soft: network errors, non-200 responses and parse failures are logged and
// converted to an empty or absent result. Callers must treat "no results" and
// "lookup failed" identically.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const coverURLTemplate = "https://covers.openlibrary.org/b/id/%d-%s.jpg"

// DefaultFields is the field list requested from search.json. Keeping the
// response narrow keeps result payloads small.
var DefaultFields = []string{
	"key", "title", "author_name", "subject",
	"first_publish_year", "cover_i",
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
}

func NewClient(userAgent string, rps int) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: userAgent,
		baseURL:   "https://openlibrary.org",
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// NewClientWithBaseURL is used by tests to point at an httptest server.
func NewClientWithBaseURL(userAgent, baseURL string, rps int) *Client {
	c := NewClient(userAgent, rps)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Work is a transient bibliographic search/lookup result. It is produced here,
// consumed once by the merge engine, then discarded; it is never persisted.
type Work struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorNames      []string `json:"author_name"`
	Subjects         []string `json:"subject"`
	FirstPublishYear int      `json:"first_publish_year"`
	CoverID          int      `json:"cover_i"`
	Description      string   `json:"-"`
}

// Author returns the primary author name, or "" if none is known.
func (w Work) Author() string {
	if len(w.AuthorNames) == 0 {
		return ""
	}
	return w.AuthorNames[0]
}

type searchResponse struct {
	NumFound int    `json:"numFound"`
	Docs     []Work `json:"docs"`
}

// Search issues a free-text search and returns at most limit works. On any
// failure it logs and returns an empty slice.
func (c *Client) Search(ctx context.Context, query string, fields []string, limit int) []Work {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", limit))
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	u := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	var res searchResponse
	if err := c.get(ctx, u, &res); err != nil {
		log.Printf("openlibrary: search %q failed: %v", query, err)
		return nil
	}
	return res.Docs
}

// SearchTitleAuthor composes a structured query over title and author.
func (c *Client) SearchTitleAuthor(ctx context.Context, title, author string, fields []string, limit int) []Work {
	var parts []string
	if title != "" {
		parts = append(parts, "title:"+title)
	}
	if author != "" {
		parts = append(parts, "author:"+author)
	}
	return c.Search(ctx, strings.Join(parts, " "), fields, limit)
}

// workDetail matches /works/{key}.json. The description field is either a
// plain string or a {type, value} object depending on the record.
type workDetail struct {
	Key         string          `json:"key"`
	Title       string          `json:"title"`
	Subjects    []string        `json:"subjects"`
	Covers      []int           `json:"covers"`
	Description json.RawMessage `json:"description"`
}

// GetWork resolves a work key ("/works/OL...W" or bare "OL...W") to its full
// detail record, including subject tags and description. Returns nil on any
// failure.
func (c *Client) GetWork(ctx context.Context, key string) *Work {
	key = strings.TrimPrefix(strings.TrimPrefix(key, "/works/"), "/")
	u := fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(key))

	var detail workDetail
	if err := c.get(ctx, u, &detail); err != nil {
		log.Printf("openlibrary: work lookup %q failed: %v", key, err)
		return nil
	}

	w := &Work{
		Key:         detail.Key,
		Title:       detail.Title,
		Subjects:    detail.Subjects,
		Description: decodeDescription(detail.Description),
	}
	if len(detail.Covers) > 0 {
		w.CoverID = detail.Covers[0]
	}
	return w
}

// CoverURL builds the templated cover image URL for a numeric cover
// identifier. size is one of "S", "M", "L". Returns "" when there is no cover.
func CoverURL(coverID int, size string) string {
	if coverID <= 0 {
		return ""
	}
	switch size {
	case "S", "M", "L":
	default:
		size = "M"
	}
	return fmt.Sprintf(coverURLTemplate, coverID, size)
}

func decodeDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value
	}
	return ""
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
