package id

import (
	"sort"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	t.Parallel()

	ids := make([]string, 100)
	for i := range ids {
		ids[i] = New()
	}
	assert.True(t, sort.StringsAreSorted(ids))
	assert.Len(t, ids[0], 26)
}

func TestAtEmbedsTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 10, 7, 0, 0, 123e6, time.UTC)
	id, err := ulid.ParseStrict(At(at))
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), id.Time())

	assert.Less(t, At(at), At(at.Add(time.Millisecond)))
}
