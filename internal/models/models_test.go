package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookKeyAliasOrder(t *testing.T) {
	b := Book{ID: "canonical", MongoID: "mongo", BookID: "legacy"}
	assert.Equal(t, "canonical", b.Key())

	b = Book{MongoID: "mongo", BookID: "legacy"}
	assert.Equal(t, "mongo", b.Key())

	b = Book{BookID: "legacy"}
	assert.Equal(t, "legacy", b.Key())

	b = Book{}
	assert.Equal(t, "", b.Key())
}

func TestBookKeySkipsBlankCandidates(t *testing.T) {
	b := Book{ID: "   ", MongoID: "mongo"}
	assert.Equal(t, "mongo", b.Key())
}

func TestBookNormalize(t *testing.T) {
	b := Book{MongoID: "64ff01", Title: "Dune"}
	b.Normalize()
	assert.Equal(t, "64ff01", b.ID)
	// The alias survives; only ID is canonicalized.
	assert.Equal(t, "64ff01", b.MongoID)
}

func TestBookYearHelpers(t *testing.T) {
	y := 1965
	with := Book{Year: &y}
	without := Book{}

	assert.True(t, with.HasYear())
	assert.Equal(t, 1965, with.YearOrZero())
	assert.False(t, without.HasYear())
	assert.Equal(t, 0, without.YearOrZero())
}

func TestBookDraftBlankFieldsMarshalAsNull(t *testing.T) {
	draft := BookDraft{Title: OptString("Dune"), Year: OptInt(0)}
	raw, err := json.Marshal(draft)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, `"Dune"`, string(decoded["title"]))
	assert.Equal(t, "null", string(decoded["author"]))
	assert.Equal(t, "null", string(decoded["year"]))
}

func TestOptString(t *testing.T) {
	assert.Nil(t, OptString(""))
	require.NotNil(t, OptString("x"))
	assert.Equal(t, "x", *OptString("x"))
}

func TestOptInt(t *testing.T) {
	assert.Nil(t, OptInt(0))
	require.NotNil(t, OptInt(1999))
	assert.Equal(t, 1999, *OptInt(1999))
}
