package api

// client.go is the REST client for the Tome API. One method per endpoint,
// JSON in and out, and every failure mapped onto the apierr taxonomy:
// transport problems become NetworkError, non-2xx responses become HTTPError
// with the server's `detail` message when the body carries one.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/MatthewBrawders/Tome/internal/apierr"
	"github.com/MatthewBrawders/Tome/internal/models"
)

// CookieSource supplies the session cookie attached to every request, nil
// when logged out. The session store implements it.
type CookieSource interface {
	Cookie() *http.Cookie
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cookies    CookieSource
	log        zerolog.Logger
}

func New(baseURL string, timeout time.Duration, cookies CookieSource, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cookies: cookies,
		log:     log,
	}
}

// detailBody is the error envelope the API uses for failures.
type detailBody struct {
	Detail string `json:"detail"`
}

// do performs one request. body may be nil; out may be nil for operations
// without a response payload. fallback names the operation in errors when
// the server gives no detail.
func (c *Client) do(ctx context.Context, method, path string, body, out any, fallback string) error {
	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		buf = bytes.NewBuffer(data)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if c.cookies != nil {
		if cookie := c.cookies.Cookie(); cookie != nil {
			req.AddCookie(cookie)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.Network(fallback, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var detail detailBody
		// A non-JSON or empty error body is fine; the fallback covers it.
		_ = json.NewDecoder(resp.Body).Decode(&detail)
		return apierr.HTTP(resp.StatusCode, detail.Detail, fallback)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// Ping checks that the API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ping", nil, nil, "Ping failed")
}

// ListBooks fetches the full catalog.
func (c *Client) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, &books, "List fetch failed"); err != nil {
		return nil, err
	}
	for i := range books {
		books[i].Normalize()
	}
	return books, nil
}

// GetBook fetches one book by identifier.
func (c *Client) GetBook(ctx context.Context, id string) (models.Book, error) {
	var book models.Book
	err := c.do(ctx, http.MethodGet, "/books/"+url.PathEscape(id), nil, &book, "Detail fetch failed")
	if err != nil {
		return models.Book{}, err
	}
	book.Normalize()
	return book, nil
}

// CreateBook submits a new catalog entry. Blank draft fields go out as null.
func (c *Client) CreateBook(ctx context.Context, draft models.BookDraft) (models.Book, error) {
	var book models.Book
	err := c.do(ctx, http.MethodPost, "/books", draft, &book, "Create failed")
	if err != nil {
		return models.Book{}, err
	}
	book.Normalize()
	return book, nil
}

// UpdateBook patches a book. Some deployments reject PATCH with 405, in
// which case the same payload is retried as PUT.
func (c *Client) UpdateBook(ctx context.Context, id string, draft models.BookDraft) (models.Book, error) {
	var book models.Book
	path := "/books/" + url.PathEscape(id)
	err := c.do(ctx, http.MethodPatch, path, draft, &book, "Save failed")
	var httpErr *apierr.HTTPError
	if errors.As(err, &httpErr) && httpErr.Status == http.StatusMethodNotAllowed {
		err = c.do(ctx, http.MethodPut, path, draft, &book, "Save failed")
	}
	if err != nil {
		return models.Book{}, err
	}
	book.Normalize()
	return book, nil
}

// DeleteBook removes a book by identifier.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), nil, nil, "Delete failed")
}

// ListComments fetches the comment thread for one book.
func (c *Client) ListComments(ctx context.Context, bookID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, http.MethodGet, "/comments/by-book/"+url.PathEscape(bookID), nil, &comments, "Comments fetch failed")
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment posts a comment and returns the stored record.
func (c *Client) CreateComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	var created models.Comment
	err := c.do(ctx, http.MethodPost, "/comments", comment, &created, "Create comment failed")
	if err != nil {
		return models.Comment{}, err
	}
	return created, nil
}

// Login authenticates against the profile API.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.Profile, error) {
	var profile models.Profile
	err := c.do(ctx, http.MethodPost, "/profiles/login", creds, &profile, "Login failed")
	if err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// CreateProfile registers a new profile.
func (c *Client) CreateProfile(ctx context.Context, creds models.Credentials) (models.Profile, error) {
	var profile models.Profile
	err := c.do(ctx, http.MethodPost, "/profiles", creds, &profile, "Signup failed")
	if err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}
