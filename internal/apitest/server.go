package apitest

// apitest runs an in-memory Tome API on a httptest server for package
// tests: books, comments and profiles, with the same status codes and
// {"detail": ...} error envelope as the real backend. Books are stored as
// loose maps so tests can seed records under any of the aliased identifier
// fields.

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/MatthewBrawders/Tome/internal/models"
)

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	books    []gin.H
	comments map[string][]models.Comment
	profiles map[string]string
	nextID   int

	requests atomic.Int64

	// RejectPatch makes PATCH /books/{id} answer 405, to exercise the
	// client's PUT fallback.
	RejectPatch bool

	// Optional gates: when non-nil the matching handler blocks until the
	// channel is closed, letting tests race a response against a newer
	// UI transition.
	ListGate   chan struct{}
	DetailGate chan struct{}
}

func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		comments: make(map[string][]models.Comment),
		profiles: make(map[string]string),
		nextID:   1,
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		s.requests.Add(1)
		c.Next()
	})

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/books", s.listBooks)
	r.GET("/books/:id", s.getBook)
	r.POST("/books", s.createBook)
	r.PATCH("/books/:id", s.updateBook)
	r.PUT("/books/:id", s.updateBook)
	r.DELETE("/books/:id", s.deleteBook)

	r.GET("/comments/by-book/:bookID", s.listComments)
	r.POST("/comments", s.createComment)

	r.POST("/profiles/login", s.login)
	r.POST("/profiles", s.createProfile)

	s.Server = httptest.NewServer(r)
	return s
}

// Requests reports how many requests reached the server, across all
// endpoints. Validation-failure tests assert this stays zero.
func (s *Server) Requests() int64 { return s.requests.Load() }

// SeedBook stores a book record verbatim and returns its resolved
// identifier.
func (s *Server) SeedBook(book gin.H) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = append(s.books, book)
	return bookKey(book)
}

// SeedProfile registers a username/password pair.
func (s *Server) SeedProfile(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[username] = password
}

// SeedComments installs the thread for a book.
func (s *Server) SeedComments(bookID string, comments []models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[bookID] = comments
}

// CommentsFor returns the stored thread for assertions.
func (s *Server) CommentsFor(bookID string) []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Comment(nil), s.comments[bookID]...)
}

// bookKey resolves the identifier of a stored record, trying the same
// aliases the client does.
func bookKey(book gin.H) string {
	for _, k := range []string{"id", "_id", "book_id"} {
		if v, ok := book[k]; ok && v != nil {
			if str := strings.TrimSpace(fmt.Sprint(v)); str != "" {
				return str
			}
		}
	}
	return ""
}

func wait(gate chan struct{}) {
	if gate != nil {
		<-gate
	}
}

func (s *Server) listBooks(c *gin.Context) {
	wait(s.ListGate)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.books
	if out == nil {
		out = []gin.H{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) findLocked(id string) int {
	for i, b := range s.books {
		if bookKey(b) == id {
			return i
		}
	}
	return -1
}

func (s *Server) getBook(c *gin.Context) {
	wait(s.DetailGate)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findLocked(c.Param("id")); i >= 0 {
		c.JSON(http.StatusOK, s.books[i])
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "Book not found"})
}

func (s *Server) createBook(c *gin.Context) {
	var payload gin.H
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if bookKey(payload) == "" {
		payload["id"] = strconv.Itoa(s.nextID)
		s.nextID++
	}
	s.books = append(s.books, payload)
	c.JSON(http.StatusCreated, payload)
}

func (s *Server) updateBook(c *gin.Context) {
	if s.RejectPatch && c.Request.Method == http.MethodPatch {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method Not Allowed"})
		return
	}
	var payload gin.H
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findLocked(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Book not found"})
		return
	}
	// Null fields are ignored, like the real backend's exclude_none.
	for k, v := range payload {
		if v != nil {
			s.books[i][k] = v
		}
	}
	c.JSON(http.StatusOK, s.books[i])
}

func (s *Server) deleteBook(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findLocked(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Book not found"})
		return
	}
	s.books = append(s.books[:i], s.books[i+1:]...)
	c.Status(http.StatusNoContent)
}

func (s *Server) listComments(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.comments[c.Param("bookID")]
	if out == nil {
		out = []models.Comment{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createComment(c *gin.Context) {
	var comment models.Comment
	if err := c.ShouldBindJSON(&comment); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[comment.BookID] = append(s.comments[comment.BookID], comment)
	c.JSON(http.StatusCreated, comment)
}

func (s *Server) login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if pass, ok := s.profiles[creds.Username]; !ok || pass != creds.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid username or password"})
		return
	}
	c.JSON(http.StatusOK, models.Profile{Username: creds.Username})
}

func (s *Server) createProfile(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[creds.Username]; exists {
		c.JSON(http.StatusConflict, gin.H{"detail": "Username already exists"})
		return
	}
	s.profiles[creds.Username] = creds.Password
	c.JSON(http.StatusCreated, models.Profile{Username: creds.Username})
}
