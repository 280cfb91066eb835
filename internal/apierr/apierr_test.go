package apierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidation(t *testing.T) {
	err := Validation("field %s is bad", "title")
	assert.EqualError(t, err, "field title is bad")
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsValidation(errors.New("plain")))
	assert.False(t, IsValidation(nil))
}

func TestHTTPDetailWinsOverFallback(t *testing.T) {
	err := HTTP(404, "Book not found", "Detail fetch failed")
	assert.EqualError(t, err, "Book not found")
	assert.Equal(t, 404, err.Status)
}

func TestHTTPFallbackEmbedsStatus(t *testing.T) {
	err := HTTP(500, "", "Save failed")
	assert.EqualError(t, err, "Save failed: 500")
}

func TestNetworkWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Network("List fetch failed", cause)
	assert.EqualError(t, err, "List fetch failed: connection refused")
	require.ErrorIs(t, err, cause)

	var netErr *NetworkError
	require.ErrorAs(t, error(err), &netErr)
	assert.Equal(t, "List fetch failed", netErr.Op)
}
