// Package taxonomy provides read-through cached access to the genre/topic
// reference data the classifier matches against. The data itself is owned by
// the admin interface; edits there must call Invalidate so the next read
// reloads from the store.
package taxonomy

import (
	"context"
	"sync"

	"readingtracker/internal/entity"
	"readingtracker/internal/normalize"
)

type Store interface {
	ListGenres(ctx context.Context) ([]entity.Genre, error)
	ListSubGenres(ctx context.Context) ([]entity.SubGenre, error)
	ListTopics(ctx context.Context) ([]entity.Topic, error)
	ListAliases(ctx context.Context) ([]entity.GenreAlias, error)
	// CreateTopic must be idempotent: inserting an existing name is a no-op.
	CreateTopic(ctx context.Context, name string) error
}

// GenreEntry is one known genre with its sub-genre names, in store order.
type GenreEntry struct {
	Name      string
	BookType  string
	SubGenres []string
}

// Snapshot is an immutable view of the taxonomy. Lookup keys are normalized
// with the same folding the classifier applies to subject tags.
type Snapshot struct {
	genres     []GenreEntry
	byType     map[string][]GenreEntry
	typeByKey  map[string]string // normalized genre name -> book type
	topics     []string
	topicByKey map[string]string // normalized topic name -> verbatim topic
	aliases    map[string]string // normalized alternative -> canonical name
}

// GenresForType returns the known genres for bookType, or the union over both
// book types when bookType is "".
func (s *Snapshot) GenresForType(bookType string) []GenreEntry {
	if bookType == "" {
		out := make([]GenreEntry, 0, len(s.genres))
		out = append(out, s.byType[entity.BookTypeFiction]...)
		out = append(out, s.byType[entity.BookTypeNonFiction]...)
		return out
	}
	return s.byType[bookType]
}

// TypeOfGenre returns the owning book type for a genre name, or "" if the
// genre is unknown.
func (s *Snapshot) TypeOfGenre(name string) string {
	return s.typeByKey[normalize.Normalize(name)]
}

// Topics returns all known topic names in store order.
func (s *Snapshot) Topics() []string {
	return s.topics
}

// TopicByKey returns the verbatim topic whose normalized form matches key.
func (s *Snapshot) TopicByKey(key string) (string, bool) {
	t, ok := s.topicByKey[key]
	return t, ok
}

// ApplyAlias maps a normalized subject tag through the alternative-name table,
// returning the normalized canonical name when a mapping exists.
func (s *Snapshot) ApplyAlias(normalizedTag string) string {
	if canonical, ok := s.aliases[normalizedTag]; ok {
		return normalize.Normalize(canonical)
	}
	return normalizedTag
}

type Service struct {
	store Store

	mu   sync.Mutex
	snap *Snapshot
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Snapshot returns the cached taxonomy view, loading it on first use.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil {
		return s.snap, nil
	}
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.snap = snap
	return snap, nil
}

// Invalidate drops the cached view. Admin handlers call this after any
// taxonomy edit.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.snap = nil
	s.mu.Unlock()
}

// RegisterTopic adds a topic chosen during interactive disambiguation. It is
// idempotent and invalidates the cache so the new topic is visible to
// subsequent classifications.
func (s *Service) RegisterTopic(ctx context.Context, name string) error {
	if err := s.store.CreateTopic(ctx, name); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

func (s *Service) load(ctx context.Context) (*Snapshot, error) {
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, err
	}
	subGenres, err := s.store.ListSubGenres(ctx)
	if err != nil {
		return nil, err
	}
	topics, err := s.store.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	aliases, err := s.store.ListAliases(ctx)
	if err != nil {
		return nil, err
	}

	subsByGenre := make(map[int64][]string)
	for _, sg := range subGenres {
		subsByGenre[sg.GenreID] = append(subsByGenre[sg.GenreID], sg.Name)
	}

	snap := &Snapshot{
		byType:     make(map[string][]GenreEntry),
		typeByKey:  make(map[string]string),
		topicByKey: make(map[string]string),
		aliases:    make(map[string]string),
	}
	for _, g := range genres {
		entry := GenreEntry{Name: g.Name, BookType: g.BookType, SubGenres: subsByGenre[g.ID]}
		snap.genres = append(snap.genres, entry)
		snap.byType[g.BookType] = append(snap.byType[g.BookType], entry)
		snap.typeByKey[normalize.Normalize(g.Name)] = g.BookType
	}
	for _, tp := range topics {
		snap.topics = append(snap.topics, tp.Name)
		snap.topicByKey[normalize.Normalize(tp.Name)] = tp.Name
	}
	for _, a := range aliases {
		snap.aliases[normalize.Normalize(a.AlternativeName)] = a.CanonicalName
	}
	return snap, nil
}
