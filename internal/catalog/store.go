package catalog

// catalog mirrors the server's book collection in memory. The list is
// fetched once at startup and then patched in place after each
// server-confirmed mutation; local state is never updated optimistically.

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/MatthewBrawders/Tome/internal/models"
)

// Lister is the slice of the REST client the store needs.
type Lister interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
}

type Store struct {
	mu     sync.Mutex
	lister Lister
	log    zerolog.Logger

	books  []models.Book
	loaded bool
	// epoch marks the owning UI lifetime of an in-flight load; a result
	// carrying an older epoch is discarded on arrival. Cancellation by
	// flag: the request itself is not aborted.
	epoch uint64
}

func NewStore(lister Lister, log zerolog.Logger) *Store {
	return &Store{lister: lister, log: log}
}

// LoadAll fetches the full collection. Repeated or concurrent calls are not
// coalesced; each call starts its own fetch and only the freshest one may
// apply its result.
func (s *Store) LoadAll(ctx context.Context) error {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	books, err := s.lister.ListBooks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.log.Debug().Msg("discarding stale book list")
		return nil
	}
	if err != nil {
		return err
	}
	s.books = books
	s.loaded = true
	return nil
}

// Invalidate marks any in-flight load stale, the unmount analog.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.epoch++
	s.mu.Unlock()
}

// Books returns a copy of the mirror in insertion order.
func (s *Store) Books() []models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Loaded reports whether an initial LoadAll has completed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// ApplyCreated appends a server-acknowledged new book to the end of the
// list.
func (s *Store) ApplyCreated(book models.Book) {
	book.Normalize()
	s.mu.Lock()
	s.books = append(s.books, book)
	s.mu.Unlock()
}

// ApplyUpdated replaces the entry matching id with the server's updated
// record, keeping its position. When the response carries no identifier the
// stored one is retained.
func (s *Store) ApplyUpdated(id string, updated models.Book) {
	updated.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].Key() == id {
			if updated.Key() == "" {
				updated.ID = s.books[i].Key()
			}
			s.books[i] = updated
			return
		}
	}
}

// ApplyRemoved drops the entry matching id.
func (s *Store) ApplyRemoved(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.books[:0]
	for _, b := range s.books {
		if b.Key() != id {
			kept = append(kept, b)
		}
	}
	s.books = kept
}
