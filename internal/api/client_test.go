package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatthewBrawders/Tome/internal/apierr"
	"github.com/MatthewBrawders/Tome/internal/apitest"
	"github.com/MatthewBrawders/Tome/internal/models"

	"github.com/gin-gonic/gin"
)

func newClient(t *testing.T, srv *apitest.Server, cookies CookieSource) *Client {
	t.Helper()
	return New(srv.URL, 5*time.Second, cookies, zerolog.Nop())
}

type staticCookies struct{ c *http.Cookie }

func (s staticCookies) Cookie() *http.Cookie { return s.c }

func TestPing(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	assert.NoError(t, newClient(t, srv, nil).Ping(context.Background()))
}

func TestListBooksNormalizesIdentifierAliases(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.SeedBook(gin.H{"_id": "64ff01", "title": "Dune"})
	srv.SeedBook(gin.H{"book_id": "legacy-7", "title": "Emma"})

	books, err := newClient(t, srv, nil).ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "64ff01", books[0].ID)
	assert.Equal(t, "legacy-7", books[1].ID)
}

func TestGetBookSurfacesDetailMessage(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	_, err := newClient(t, srv, nil).GetBook(context.Background(), "missing")
	var httpErr *apierr.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Book not found", httpErr.Message)
}

func TestCreateBookNormalizesResponse(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	created, err := newClient(t, srv, nil).CreateBook(context.Background(), models.BookDraft{
		Title:    models.OptString("Hyperion"),
		Username: models.OptString("paul"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Hyperion", created.Title)
}

func TestUpdateBookFallsBackToPutOn405(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.RejectPatch = true
	id := srv.SeedBook(gin.H{"id": "1", "title": "Old", "author": "A"})

	client := newClient(t, srv, nil)
	updated, err := client.UpdateBook(context.Background(), id, models.BookDraft{
		Title: models.OptString("New"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	// Null draft fields must not clobber stored values.
	assert.Equal(t, "A", updated.Author)
	// One rejected PATCH plus the PUT retry.
	assert.Equal(t, int64(2), srv.Requests())
}

func TestUpdateBookNon405ErrorIsNotRetried(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	_, err := newClient(t, srv, nil).UpdateBook(context.Background(), "missing", models.BookDraft{})
	var httpErr *apierr.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, int64(1), srv.Requests())
}

func TestDeleteBook(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	id := srv.SeedBook(gin.H{"id": "1", "title": "Dune"})

	client := newClient(t, srv, nil)
	require.NoError(t, client.DeleteBook(context.Background(), id))

	books, err := client.ListBooks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestCommentsRoundTrip(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	client := newClient(t, srv, nil)
	posted := models.Comment{
		Username:    "paul",
		BookID:      "7",
		Comment:     "Loved it",
		DateAndTime: "1/2/2026, 3:04:05 PM",
	}
	created, err := client.CreateComment(context.Background(), posted)
	require.NoError(t, err)
	assert.Equal(t, posted, created)

	thread, err := client.ListComments(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "Loved it", thread[0].Comment)
}

func TestLoginFailureUsesServerDetail(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	_, err := newClient(t, srv, nil).Login(context.Background(), models.Credentials{
		Username: "nobody", Password: "wrongpass1",
	})
	var httpErr *apierr.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Invalid username or password", httpErr.Message)
}

func TestUnreachableHostIsNetworkError(t *testing.T) {
	client := New("http://127.0.0.1:1", 200*time.Millisecond, nil, zerolog.Nop())
	err := client.Ping(context.Background())

	var netErr *apierr.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.NotNil(t, errors.Unwrap(netErr))
}

func TestSessionCookieIsAttached(t *testing.T) {
	var got string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("tome_user"); err == nil {
			got = c.Value
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	client := New(backend.URL, time.Second, staticCookies{&http.Cookie{Name: "tome_user", Value: "paul"}}, zerolog.Nop())
	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, "paul", got)
}
