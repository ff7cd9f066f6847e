package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"readingtracker/internal/httpx"
)

// RouterConfig carries every handler the API serves plus the auth secret for
// the protected route groups.
type RouterConfig struct {
	JWTSecret string
	Ping      func(ctx context.Context) error

	Auth        *AuthHandler
	Books       *BookHandler
	Import      *ImportHandler
	Enrich      *EnrichHandler
	ReadingList *ReadingListHandler
	Reviews     *ReviewHandler
	Suggestions *SuggestionHandler
	Taxonomy    *TaxonomyHandler
	Classes     *ClassHandler
}

func methods(handlers map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.Method]; ok {
			h(w, r)
			return
		}
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	}
}

// NewRouter builds the full route table. Anonymous routes cover browsing the
// catalog; everything that writes requires a token, and /admin/* additionally
// requires the admin role.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	authed := AuthMiddleware(cfg.JWTSecret)
	admin := func(h http.HandlerFunc) http.Handler {
		return authed(AdminOnly(h))
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := cfg.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/auth/register", methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Auth.Register,
	}))
	mux.HandleFunc("/auth/login", methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Auth.Login,
	}))
	mux.Handle("/me", authed(methods(map[string]http.HandlerFunc{
		http.MethodGet: cfg.Auth.Me,
	})))

	// catalog browsing is open; /books/{id}/reviews shares the prefix
	mux.HandleFunc("/books", methods(map[string]http.HandlerFunc{
		http.MethodGet: cfg.Books.List,
	}))
	mux.HandleFunc("/books/", methods(map[string]http.HandlerFunc{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/reviews") {
				cfg.Reviews.ListByBook(w, r)
				return
			}
			cfg.Books.Get(w, r)
		},
	}))
	mux.HandleFunc("/taxonomy", methods(map[string]http.HandlerFunc{
		http.MethodGet: cfg.Taxonomy.List,
	}))

	mux.Handle("/reading-list", authed(methods(map[string]http.HandlerFunc{
		http.MethodGet:  cfg.ReadingList.List,
		http.MethodPost: cfg.ReadingList.Add,
	})))
	mux.Handle("/reading-list/read", authed(methods(map[string]http.HandlerFunc{
		http.MethodGet:  cfg.ReadingList.ListRead,
		http.MethodPost: cfg.ReadingList.MarkRead,
	})))
	mux.Handle("/reading-list/", authed(methods(map[string]http.HandlerFunc{
		http.MethodDelete: cfg.ReadingList.Remove,
	})))

	mux.Handle("/reviews", authed(methods(map[string]http.HandlerFunc{
		http.MethodGet:  cfg.Reviews.ListMine,
		http.MethodPost: cfg.Reviews.Create,
	})))

	mux.Handle("/suggestions", authed(methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Suggestions.Create,
	})))
	mux.Handle("/edit-suggestions", authed(methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Suggestions.CreateEdit,
	})))

	mux.Handle("/classes", authed(methods(map[string]http.HandlerFunc{
		http.MethodGet: cfg.Classes.List,
	})))
	mux.Handle("/classes/", authed(methods(map[string]http.HandlerFunc{
		http.MethodGet: cfg.Classes.ListBooks,
	})))
	mux.Handle("/admin/classes", admin(methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Classes.Create,
	})))
	mux.Handle("/admin/classes/", admin(methods(map[string]http.HandlerFunc{
		http.MethodGet:  cfg.Classes.Manage,
		http.MethodPost: cfg.Classes.Manage,
	})))

	mux.Handle("/admin/books", admin(methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Books.Create,
	})))
	mux.Handle("/admin/books/enrich", admin(methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Enrich.Lookup,
	})))
	mux.Handle("/admin/books/import", admin(methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Import.Upload,
	})))
	mux.Handle("/admin/books/import/sample", admin(methods(map[string]http.HandlerFunc{
		http.MethodGet: cfg.Import.Sample,
	})))
	mux.Handle("/admin/books/", admin(methods(map[string]http.HandlerFunc{
		http.MethodPut:    cfg.Books.Update,
		http.MethodDelete: cfg.Books.Delete,
	})))

	mux.Handle("/admin/suggestions", admin(methods(map[string]http.HandlerFunc{
		http.MethodGet: cfg.Suggestions.List,
	})))
	mux.Handle("/admin/suggestions/", admin(methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Suggestions.Resolve,
	})))
	mux.Handle("/admin/edit-suggestions", admin(methods(map[string]http.HandlerFunc{
		http.MethodGet: cfg.Suggestions.ListEdits,
	})))
	mux.Handle("/admin/edit-suggestions/", admin(methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Suggestions.ResolveEdit,
	})))

	mux.Handle("/admin/taxonomy/genres", admin(methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Taxonomy.CreateGenre,
	})))
	mux.Handle("/admin/taxonomy/genres/", admin(methods(map[string]http.HandlerFunc{
		http.MethodDelete: cfg.Taxonomy.DeleteGenre,
	})))
	mux.Handle("/admin/taxonomy/sub-genres", admin(methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Taxonomy.CreateSubGenre,
	})))
	mux.Handle("/admin/taxonomy/sub-genres/", admin(methods(map[string]http.HandlerFunc{
		http.MethodDelete: cfg.Taxonomy.DeleteSubGenre,
	})))
	mux.Handle("/admin/taxonomy/topics", admin(methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Taxonomy.CreateTopic,
	})))
	mux.Handle("/admin/taxonomy/topics/", admin(methods(map[string]http.HandlerFunc{
		http.MethodDelete: cfg.Taxonomy.DeleteTopic,
	})))
	mux.Handle("/admin/taxonomy/aliases", admin(methods(map[string]http.HandlerFunc{
		http.MethodPost: cfg.Taxonomy.CreateAlias,
	})))
	mux.Handle("/admin/taxonomy/aliases/", admin(methods(map[string]http.HandlerFunc{
		http.MethodDelete: cfg.Taxonomy.DeleteAlias,
	})))

	var handler http.Handler = mux
	handler = httpx.RequestSizeLimitMiddleware(10 << 20)(handler)
	handler = httpx.SecurityHeadersMiddleware(handler)
	handler = httpx.AccessLogMiddleware(handler)
	handler = httpx.RecoveryMiddleware(handler)
	handler = httpx.RequestIDMiddleware(handler)
	return handler
}
