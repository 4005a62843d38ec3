package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManagerSetGet(t *testing.T) {
	m := NewManager[string](time.Minute)
	require.NoError(t, m.SetWithExpiration("a", "1", time.Minute))

	v, err := m.GetValue("a")
	require.NoError(t, err)
	require.Equal(t, "1", v)

	v, err = m.GetValue("missing")
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestManagerExpiration(t *testing.T) {
	m := NewManager[string](time.Minute)
	require.NoError(t, m.SetWithExpiration("a", "1", 20*time.Millisecond))
	time.Sleep(50 * time.Millisecond)
	v, err := m.GetValue("a")
	require.NoError(t, err)
	require.Empty(t, v)
}
