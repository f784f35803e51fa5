package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDSet(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	t.Run("zero value is empty", func(t *testing.T) {
		var s IDSet
		assert.Equal(t, 0, s.Len())
		assert.False(t, s.Contains(a))
		assert.False(t, s.Remove(a))
		assert.Empty(t, s.IDs())
	})

	t.Run("add keeps insertion order and rejects duplicates", func(t *testing.T) {
		var s IDSet
		assert.True(t, s.Add(a))
		assert.True(t, s.Add(b))
		assert.False(t, s.Add(a))
		assert.True(t, s.Add(c))

		assert.Equal(t, []uuid.UUID{a, b, c}, s.IDs())
	})

	t.Run("remove preserves order of the rest", func(t *testing.T) {
		s := NewIDSet(a, b, c)
		assert.True(t, s.Remove(b))
		assert.False(t, s.Remove(b))
		assert.False(t, s.Contains(b))
		assert.Equal(t, []uuid.UUID{a, c}, s.IDs())
	})

	t.Run("add then remove restores the original members", func(t *testing.T) {
		s := NewIDSet(a, b)
		before := s.IDs()
		s.Add(c)
		s.Remove(c)
		assert.Equal(t, before, s.IDs())
	})

	t.Run("constructor drops duplicates", func(t *testing.T) {
		s := NewIDSet(a, a, b, a)
		assert.Equal(t, []uuid.UUID{a, b}, s.IDs())
	})

	t.Run("IDs returns a copy", func(t *testing.T) {
		s := NewIDSet(a)
		ids := s.IDs()
		ids[0] = b
		assert.True(t, s.Contains(a))
		assert.Equal(t, a, s.IDs()[0])
	})
}

func TestIDSetJSON(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	empty, err := json.Marshal(IDSet{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(empty))

	data, err := json.Marshal(NewIDSet(a, b))
	require.NoError(t, err)

	var decoded IDSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []uuid.UUID{a, b}, decoded.IDs())
	assert.True(t, decoded.Contains(b))
}
