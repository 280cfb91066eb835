package models

// models holds the payload records exchanged with the Tome API. Optional
// fields are pointers so that a blank submission serializes as explicit null,
// which is what the API expects on create and update.

import "strings"

// Book is a catalog entry as the API returns it. The identifier may arrive
// under any of the aliased fields id, _id or book_id depending on which
// ingress produced the record; always go through Key.
type Book struct {
	ID       string `json:"id,omitempty"`
	MongoID  string `json:"_id,omitempty"`
	BookID   string `json:"book_id,omitempty"`
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Year     *int   `json:"year,omitempty"`
	Image    string `json:"image,omitempty"`
	Review   string `json:"review,omitempty"`
	Username string `json:"username,omitempty"`
	Views    int    `json:"views,omitempty"`
}

// Key resolves the book identifier: first present, non-empty candidate in
// the order id, _id, book_id. This is the only place that ordering lives.
func (b *Book) Key() string {
	for _, c := range []string{b.ID, b.MongoID, b.BookID} {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}

// Normalize copies the resolved identifier into ID. Applied at every API
// ingress point (list, get, create and update responses) so downstream code
// sees a canonical record while Key keeps tolerating the aliases.
func (b *Book) Normalize() {
	b.ID = b.Key()
}

// HasYear reports whether the record carries a publication year at all.
// Absent years are unconstrained for filtering and sort as zero.
func (b *Book) HasYear() bool { return b.Year != nil }

// YearOrZero returns the year with absent treated as zero.
func (b *Book) YearOrZero() int {
	if b.Year == nil {
		return 0
	}
	return *b.Year
}

// BookDraft is the create/update payload. Blank fields go over the wire as
// null, never as empty strings, so no omitempty here.
type BookDraft struct {
	Title    *string `json:"title"`
	Author   *string `json:"author"`
	Genre    *string `json:"genre"`
	Year     *int    `json:"year"`
	Image    *string `json:"image"`
	Review   *string `json:"review"`
	Username *string `json:"username"`
}

// Comment is a single thread entry. BookID is always the string form of the
// book identifier and DateAndTime is formatted on the client before posting.
type Comment struct {
	Username    string `json:"username"`
	BookID      string `json:"book_id"`
	Comment     string `json:"comment"`
	DateAndTime string `json:"date_and_time"`
}

// Profile is what the profile endpoints return: the username and nothing
// else.
type Profile struct {
	Username string `json:"username"`
}

// Credentials is the body for login and profile creation.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// OptString maps a form value to its wire form: blank becomes null.
func OptString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// OptInt maps a numeric form value to its wire form: zero means the field
// was left blank and becomes null.
func OptInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
