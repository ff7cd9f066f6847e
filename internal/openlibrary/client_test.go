package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "title:The Hunger Games author:Suzanne Collins", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"numFound": 1,
			"docs": [{
				"key": "/works/OL5717423W",
				"title": "The Hunger Games",
				"author_name": ["Suzanne Collins"],
				"subject": ["Fiction", "Dystopias"],
				"first_publish_year": 2008,
				"cover_i": 12646537
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("readingtracker-test", srv.URL, 100)
	works := c.SearchTitleAuthor(context.Background(), "The Hunger Games", "Suzanne Collins", DefaultFields, 2)

	require.Len(t, works, 1)
	assert.Equal(t, "/works/OL5717423W", works[0].Key)
	assert.Equal(t, "Suzanne Collins", works[0].Author())
	assert.Equal(t, []string{"Fiction", "Dystopias"}, works[0].Subjects)
	assert.Equal(t, 2008, works[0].FirstPublishYear)
}

func TestSearchFailsSoft(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClientWithBaseURL("readingtracker-test", srv.URL, 100)
		assert.Empty(t, c.Search(context.Background(), "anything", nil, 5))
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"docs": not json`))
		}))
		defer srv.Close()

		c := NewClientWithBaseURL("readingtracker-test", srv.URL, 100)
		assert.Empty(t, c.Search(context.Background(), "anything", nil, 5))
	})

	t.Run("unreachable host", func(t *testing.T) {
		c := NewClientWithBaseURL("readingtracker-test", "http://127.0.0.1:1", 100)
		assert.Empty(t, c.Search(context.Background(), "anything", nil, 5))
	})
}

func TestGetWork(t *testing.T) {
	t.Run("string description", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/works/OL5717423W.json", r.URL.Path)
			_, _ = w.Write([]byte(`{
				"key": "/works/OL5717423W",
				"title": "The Hunger Games",
				"subjects": ["Fiction", "Survival"],
				"covers": [12646537],
				"description": "Katniss volunteers."
			}`))
		}))
		defer srv.Close()

		c := NewClientWithBaseURL("readingtracker-test", srv.URL, 100)
		w := c.GetWork(context.Background(), "/works/OL5717423W")
		require.NotNil(t, w)
		assert.Equal(t, "Katniss volunteers.", w.Description)
		assert.Equal(t, 12646537, w.CoverID)
	})

	t.Run("object description", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"key": "/works/OL1W",
				"title": "X",
				"description": {"type": "/type/text", "value": "Long form."}
			}`))
		}))
		defer srv.Close()

		c := NewClientWithBaseURL("readingtracker-test", srv.URL, 100)
		w := c.GetWork(context.Background(), "OL1W")
		require.NotNil(t, w)
		assert.Equal(t, "Long form.", w.Description)
	})

	t.Run("absent on failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClientWithBaseURL("readingtracker-test", srv.URL, 100)
		assert.Nil(t, c.GetWork(context.Background(), "OLnopeW"))
	})
}

func TestCoverURL(t *testing.T) {
	assert.Equal(t, "https://covers.openlibrary.org/b/id/12646537-L.jpg", CoverURL(12646537, "L"))
	assert.Equal(t, "https://covers.openlibrary.org/b/id/7-M.jpg", CoverURL(7, "bogus"))
	assert.Equal(t, "", CoverURL(0, "L"))
}
