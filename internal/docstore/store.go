// Package docstore keeps documents in memory, keyed by UUID, with a
// revision counter for optimistic updates and TTL eviction.
package docstore

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/docshuffle/internal/model"
	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrRevisionMismatch = errors.New("document revision changed")
)

// Document is a stored snapshot. Doc is immutable and safe to share.
type Document struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Source      string      `json:"source,omitempty"`
	ContentHash string      `json:"content_hash,omitempty"`
	Revision    int         `json:"revision"`
	Shuffles    int         `json:"shuffles"`
	Doc         *model.Node `json:"doc"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Summary is the listing view of a document.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source,omitempty"`
	Revision  int       `json:"revision"`
	Shuffles  int       `json:"shuffles"`
	Nodes     int       `json:"nodes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary returns the listing view of d.
func (d Document) Summary() Summary {
	nodes := 0
	model.Descendants(d.Doc, func(*model.Node, int, *model.Node, int) model.Visit {
		nodes++
		return model.Descend()
	})
	return Summary{
		ID:        d.ID,
		Title:     d.Title,
		Source:    d.Source,
		Revision:  d.Revision,
		Shuffles:  d.Shuffles,
		Nodes:     nodes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// NewDocument describes a document to store.
type NewDocument struct {
	Title       string
	Source      string
	ContentHash string
	Shuffles    int
	Doc         *model.Node
}

// Store is a thread-safe in-memory document registry with TTL eviction.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
	ttl  time.Duration
	now  func() time.Time
}

// New returns an empty store. A ttl of zero keeps documents forever.
func New(ttl time.Duration) *Store {
	return &Store{
		docs: make(map[string]*Document),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Put stores a new document at revision 1 and returns it.
func (s *Store) Put(nd NewDocument) (Document, error) {
	if nd.Doc == nil {
		return Document{}, fmt.Errorf("put %q: nil document", nd.Title)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(nd), nil
}

// PutUnique stores nd unless a document with the same non-empty content
// hash already exists, in which case that document is returned with
// existing set. The lookup and the insert happen under one lock.
func (s *Store) PutUnique(nd NewDocument) (doc Document, existing bool, err error) {
	if nd.Doc == nil {
		return Document{}, false, fmt.Errorf("put %q: nil document", nd.Title)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.findLocked(nd.ContentHash); ok {
		return d, true, nil
	}
	return s.putLocked(nd), false, nil
}

func (s *Store) putLocked(nd NewDocument) Document {
	now := s.now()
	d := &Document{
		ID:          uuid.NewString(),
		Title:       nd.Title,
		Source:      nd.Source,
		ContentHash: nd.ContentHash,
		Revision:    1,
		Shuffles:    nd.Shuffles,
		Doc:         nd.Doc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.docs[d.ID] = d
	return *d
}

// Get returns the document with id.
func (s *Store) Get(id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok {
		return Document{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return *d, nil
}

// Update replaces the document body if its revision is still rev. A
// shuffled update also bumps the shuffle counter.
func (s *Store) Update(id string, rev int, doc *model.Node, shuffled bool) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return Document{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	if d.Revision != rev {
		return Document{}, fmt.Errorf("update %s at revision %d, now %d: %w", id, rev, d.Revision, ErrRevisionMismatch)
	}
	d.Doc = doc
	d.Revision++
	if shuffled {
		d.Shuffles++
	}
	d.UpdatedAt = s.now()
	return *d, nil
}

// FindByHash returns a document created from content with the given hash.
func (s *Store) FindByHash(hash string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(hash)
}

func (s *Store) findLocked(hash string) (Document, bool) {
	if hash == "" {
		return Document{}, false
	}
	for _, d := range s.docs {
		if d.ContentHash == hash {
			return *d, true
		}
	}
	return Document{}, false
}

// List returns summaries ordered by creation time.
func (s *Store) List() []Summary {
	s.mu.RLock()
	docs := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, *d)
	}
	s.mu.RUnlock()

	slices.SortFunc(docs, func(a, b Document) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	out := make([]Summary, len(docs))
	for i, d := range docs {
		out[i] = d.Summary()
	}
	return out
}

// Delete removes the document with id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	delete(s.docs, id)
	return nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Cleanup removes documents not updated within the TTL and returns how
// many were removed.
func (s *Store) Cleanup() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, d := range s.docs {
		if now.Sub(d.UpdatedAt) > s.ttl {
			delete(s.docs, id)
			removed++
		}
	}
	return removed
}
