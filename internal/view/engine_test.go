package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatthewBrawders/Tome/internal/models"
)

func yr(n int) *int { return &n }

func fixture() []models.Book {
	return []models.Book{
		{ID: "1", Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: yr(1965), Image: "https://img/dune.jpg", Review: "A desert epic", Username: "paul", Views: 10},
		{ID: "2", Title: "Emma", Author: "Jane Austen", Genre: "Romance", Year: yr(1815), Review: "Matchmaking gone wrong", Username: "jane.doe", Views: 3},
		{ID: "3", Title: "Untitled Draft", Genre: "Mystery", Views: 7},
		{ID: "4", Title: "Hyperion", Author: "Dan Simmons", Genre: "Sci-Fi", Year: yr(1995), Image: "https://img/hyperion.jpg", Username: "paul", Views: 5},
	}
}

func TestComputeDefaultCriteriaReturnsInputOrder(t *testing.T) {
	books := fixture()
	got := Compute(books, Criteria{}, SortNone, false)
	assert.Equal(t, books, got)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	books := fixture()
	Compute(books, Criteria{}, SortTitleDesc, false)
	assert.Equal(t, fixture(), books)
}

func TestComputeYearRangeKeepsBooksWithoutYear(t *testing.T) {
	got := Compute(fixture(), Criteria{YearMin: yr(1990), YearMax: yr(2000)}, SortNone, false)
	require.Len(t, got, 2)
	// The draft has no year and is unconstrained; Hyperion is in range.
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "4", got[1].ID)
}

func TestComputeYearRangeOpenBounds(t *testing.T) {
	got := Compute(fixture(), Criteria{YearMin: yr(1900)}, SortNone, false)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"1", "3", "4"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestComputeFreeTextQueryCoversOwnerAndReview(t *testing.T) {
	got := Compute(fixture(), Criteria{Query: "matchmaking"}, SortNone, false)
	require.Len(t, got, 1)
	assert.Equal(t, "Emma", got[0].Title)

	got = Compute(fixture(), Criteria{Query: "PAUL"}, SortNone, false)
	assert.Len(t, got, 2)
}

func TestComputeFieldFiltersAreSubstrings(t *testing.T) {
	got := Compute(fixture(), Criteria{Author: "austen"}, SortNone, false)
	require.Len(t, got, 1)
	assert.Equal(t, "Emma", got[0].Title)

	got = Compute(fixture(), Criteria{Genre: "sci"}, SortNone, false)
	assert.Len(t, got, 2)

	got = Compute(fixture(), Criteria{Owner: "jane"}, SortNone, false)
	assert.Len(t, got, 1)
}

func TestComputeCoverFilter(t *testing.T) {
	withCover := Compute(fixture(), Criteria{Cover: CoverYes}, SortNone, false)
	require.Len(t, withCover, 2)
	for _, b := range withCover {
		assert.NotEmpty(t, b.Image)
	}

	withoutCover := Compute(fixture(), Criteria{Cover: CoverNo}, SortNone, false)
	require.Len(t, withoutCover, 2)
	for _, b := range withoutCover {
		assert.Empty(t, b.Image)
	}
}

func TestComputeRecommendOverridesSortKey(t *testing.T) {
	got := Compute(fixture(), Criteria{}, SortTitleAsc, true)
	require.Len(t, got, 4)
	views := []int{got[0].Views, got[1].Views, got[2].Views, got[3].Views}
	assert.Equal(t, []int{10, 7, 5, 3}, views)
}

func TestComputeTitleSort(t *testing.T) {
	asc := Compute(fixture(), Criteria{}, SortTitleAsc, false)
	assert.Equal(t, "Dune", asc[0].Title)
	assert.Equal(t, "Untitled Draft", asc[3].Title)

	desc := Compute(fixture(), Criteria{}, SortTitleDesc, false)
	assert.Equal(t, "Untitled Draft", desc[0].Title)
	assert.Equal(t, "Dune", desc[3].Title)
}

func TestComputeTitleSortIsStable(t *testing.T) {
	books := []models.Book{
		{ID: "a", Title: "Same"},
		{ID: "b", Title: "Same"},
		{ID: "c", Title: "Same"},
	}
	got := Compute(books, Criteria{}, SortTitleAsc, false)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestComputeYearSortTreatsMissingAsZero(t *testing.T) {
	asc := Compute(fixture(), Criteria{}, SortYearAsc, false)
	assert.Equal(t, "3", asc[0].ID) // no year sorts first ascending

	desc := Compute(fixture(), Criteria{}, SortYearDesc, false)
	assert.Equal(t, "4", desc[0].ID)
	assert.Equal(t, "3", desc[3].ID)
}

func TestComputeIsDeterministic(t *testing.T) {
	c := Criteria{Query: "e", Cover: CoverAny}
	first := Compute(fixture(), c, SortTitleAsc, false)
	second := Compute(fixture(), c, SortTitleAsc, false)
	assert.Equal(t, first, second)
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("title-desc")
	require.NoError(t, err)
	assert.Equal(t, SortTitleDesc, key)

	key, err = ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortNone, key)

	_, err = ParseSortKey("alphabetical")
	assert.Error(t, err)
}

func TestParseCoverFilter(t *testing.T) {
	f, err := ParseCoverFilter("no")
	require.NoError(t, err)
	assert.Equal(t, CoverNo, f)

	_, err = ParseCoverFilter("maybe")
	assert.Error(t, err)
}
