package thread

// thread drives the detail pane: which book is selected, its record, and
// its comment thread. Selecting the current book again deselects it and
// clears everything locally. Responses that arrive after the selection has
// moved on are discarded, never applied.

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/MatthewBrawders/Tome/internal/apierr"
	"github.com/MatthewBrawders/Tome/internal/models"
)

// timestampLayout matches the browser's toLocaleString rendering; the
// timestamp is formatted on the client, the server stores it verbatim.
const timestampLayout = "1/2/2006, 3:04:05 PM"

// API is the slice of the REST client the loader needs.
type API interface {
	GetBook(ctx context.Context, id string) (models.Book, error)
	ListComments(ctx context.Context, bookID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error)
}

// Sessions supplies the logged-in identity for comment authorship.
type Sessions interface {
	Current() string
}

type Loader struct {
	mu       sync.Mutex
	api      API
	sessions Sessions
	log      zerolog.Logger
	now      func() time.Time

	epoch      uint64
	selectedID string
	book       *models.Book
	comments   []models.Comment
}

func NewLoader(api API, sessions Sessions, log zerolog.Logger) *Loader {
	return &Loader{api: api, sessions: sessions, log: log, now: time.Now}
}

// Selected returns the currently selected identifier, empty when nothing is
// selected.
func (l *Loader) Selected() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selectedID
}

// Book returns the loaded detail record, nil while nothing is loaded.
func (l *Loader) Book() *models.Book {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.book == nil {
		return nil
	}
	b := *l.book
	return &b
}

// Comments returns a copy of the thread, newest posted first.
func (l *Loader) Comments() []models.Comment {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Comment, len(l.comments))
	copy(out, l.comments)
	return out
}

// Select loads the detail and comment thread for id. Selecting the already
// selected id clears the pane without any network call. A response for a
// superseded selection is dropped on arrival.
func (l *Loader) Select(ctx context.Context, id string) (*models.Book, []models.Comment, error) {
	l.mu.Lock()
	l.epoch++
	if l.selectedID == id && id != "" {
		l.selectedID = ""
		l.book = nil
		l.comments = nil
		l.mu.Unlock()
		return nil, nil, nil
	}
	epoch := l.epoch
	l.selectedID = id
	l.book = nil
	l.comments = nil
	l.mu.Unlock()

	book, err := l.api.GetBook(ctx, id)

	l.mu.Lock()
	if l.epoch != epoch {
		l.mu.Unlock()
		l.log.Debug().Str("id", id).Msg("discarding stale detail")
		return nil, nil, nil
	}
	if err != nil {
		// Error surfaces to the caller, comments stay empty.
		l.mu.Unlock()
		return nil, nil, err
	}
	l.book = &book
	l.mu.Unlock()

	bid := book.Key()
	if bid == "" {
		bid = id
	}
	if bid == "" {
		return &book, nil, apierr.Validation("Book ID missing.")
	}

	comments, err := l.api.ListComments(ctx, bid)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.epoch != epoch {
		l.log.Debug().Str("id", id).Msg("discarding stale comments")
		return nil, nil, nil
	}
	if err != nil {
		return &book, nil, err
	}
	l.comments = comments
	return &book, comments, nil
}

// PostComment submits a comment on the selected book and prepends the
// created record to the local thread. Requires a logged-in session and a
// non-empty trimmed text; both checks fail locally before any request.
func (l *Loader) PostComment(ctx context.Context, text string) (models.Comment, error) {
	username := l.sessions.Current()
	if username == "" {
		return models.Comment{}, apierr.Validation("You must be logged in to comment.")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, apierr.Validation("Comment text is required.")
	}

	l.mu.Lock()
	epoch := l.epoch
	bid := l.selectedID
	if l.book != nil && l.book.Key() != "" {
		bid = l.book.Key()
	}
	l.mu.Unlock()
	if bid == "" {
		return models.Comment{}, apierr.Validation("Book ID missing.")
	}

	created, err := l.api.CreateComment(ctx, models.Comment{
		Username:    username,
		BookID:      bid,
		Comment:     text,
		DateAndTime: l.now().Format(timestampLayout),
	})
	if err != nil {
		return models.Comment{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// Newest first, and only if the selection has not moved on meanwhile.
	if l.epoch == epoch {
		l.comments = append([]models.Comment{created}, l.comments...)
	}
	return created, nil
}
