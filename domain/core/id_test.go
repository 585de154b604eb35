package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUploadIDIsParseable(t *testing.T) {
	id := NewUploadID()
	parsed, err := ParseUploadID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestNewIDsAreUnique(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestParseUploadIDRejectsGarbage(t *testing.T) {
	_, err := ParseUploadID("  ")
	assert.Error(t, err)
	_, err = ParseUploadID("not-a-uuid")
	assert.Error(t, err)
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrSessionNotFound))
	assert.True(t, IsNotFoundError(NewNotFoundError("upload", "x")))
	assert.True(t, IsInputError(NewMissingColumnError("sn")))
	assert.True(t, errors.Is(NewInvalidValueError("blanketid", 3, "x"), ErrInvalidValue))
	assert.False(t, IsInputError(ErrStalePanel))
}
