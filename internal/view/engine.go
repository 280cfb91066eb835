package view

// view computes the visible book list from the full catalog: a pure function
// of (books, criteria, sort key, recommend flag). Identical inputs always
// produce the identical ordered output; ties keep their original relative
// order.

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/MatthewBrawders/Tome/internal/models"
)

// CoverFilter is the cover-presence tri-state.
type CoverFilter int

const (
	CoverAny CoverFilter = iota
	CoverYes
	CoverNo
)

// ParseCoverFilter maps the user-facing any/yes/no values.
func ParseCoverFilter(s string) (CoverFilter, error) {
	switch s {
	case "", "any":
		return CoverAny, nil
	case "yes":
		return CoverYes, nil
	case "no":
		return CoverNo, nil
	}
	return CoverAny, fmt.Errorf("invalid cover filter %q (use any, yes or no)", s)
}

// SortKey selects the view ordering. SortNone keeps insertion order.
type SortKey int

const (
	SortNone SortKey = iota
	SortTitleAsc
	SortTitleDesc
	SortYearAsc
	SortYearDesc
)

// ParseSortKey maps the user-facing sort values.
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "":
		return SortNone, nil
	case "title-asc":
		return SortTitleAsc, nil
	case "title-desc":
		return SortTitleDesc, nil
	case "year-asc":
		return SortYearAsc, nil
	case "year-desc":
		return SortYearDesc, nil
	}
	return SortNone, fmt.Errorf("invalid sort key %q", s)
}

// Criteria is a record of independent predicates. An empty text predicate
// always passes; a nil year bound means unbounded on that side.
type Criteria struct {
	Query   string
	Author  string
	Genre   string
	Owner   string
	YearMin *int
	YearMax *int
	Cover   CoverFilter
}

// Compute filters and orders books. recommend overrides the sort key and
// ranks by descending view count, absent counts treated as zero.
func Compute(books []models.Book, c Criteria, key SortKey, recommend bool) []models.Book {
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if matches(&b, &c) {
			out = append(out, b)
		}
	}

	if recommend {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Views > out[j].Views
		})
		return out
	}

	switch key {
	case SortTitleAsc, SortTitleDesc:
		// Locale-aware comparison on lowercased titles, the closest
		// equivalent of the browser's localeCompare.
		col := collate.New(language.Und)
		asc := key == SortTitleAsc
		sort.SliceStable(out, func(i, j int) bool {
			cmp := col.CompareString(lower(out[i].Title), lower(out[j].Title))
			if asc {
				return cmp < 0
			}
			return cmp > 0
		})
	case SortYearAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].YearOrZero() < out[j].YearOrZero()
		})
	case SortYearDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].YearOrZero() > out[j].YearOrZero()
		})
	}
	return out
}

func lower(s string) string { return strings.ToLower(s) }

func matches(b *models.Book, c *Criteria) bool {
	title := lower(b.Title)
	author := lower(b.Author)
	genre := lower(b.Genre)
	owner := lower(b.Username)
	review := lower(b.Review)

	if q := lower(c.Query); q != "" {
		if !strings.Contains(title, q) && !strings.Contains(author, q) &&
			!strings.Contains(review, q) && !strings.Contains(owner, q) {
			return false
		}
	}
	if a := lower(c.Author); a != "" && !strings.Contains(author, a) {
		return false
	}
	if g := lower(c.Genre); g != "" && !strings.Contains(genre, g) {
		return false
	}
	if o := lower(c.Owner); o != "" && !strings.Contains(owner, o) {
		return false
	}

	// A book with no year is unconstrained by the range.
	if b.HasYear() {
		y := *b.Year
		if c.YearMin != nil && y < *c.YearMin {
			return false
		}
		if c.YearMax != nil && y > *c.YearMax {
			return false
		}
	}

	switch c.Cover {
	case CoverYes:
		if b.Image == "" {
			return false
		}
	case CoverNo:
		if b.Image != "" {
			return false
		}
	}
	return true
}
