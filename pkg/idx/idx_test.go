package idx

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewIsUniqueAndOrdered(t *testing.T) {
	t.Parallel()

	a := New()
	b := New()

	require.NotEqual(t, a, b)
	require.Less(t, a.String(), b.String())
}

func TestParse(t *testing.T) {
	t.Parallel()

	id := New()
	parsed, err := Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	_, err = Parse("")
	require.ErrorIs(t, err, ErrInvalid)

	_, err = Parse("not-a-ulid")
	require.ErrorIs(t, err, ErrInvalid)
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	id := NewAt(at)
	require.Equal(t, at, id.Time())

	require.True(t, Zero.IsZero())
	require.True(t, Zero.Time().IsZero())
}

func TestConcurrentGeneration(t *testing.T) {
	t.Parallel()

	const n = 200
	var wg sync.WaitGroup
	ids := make([]ID, n)

	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = New()
		}()
	}
	wg.Wait()

	seen := make(map[ID]struct{}, n)
	for _, id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
