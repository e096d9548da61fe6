package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_EnforcesPerUserCap(t *testing.T) {
	h := New(2)

	r1, err := h.Acquire("u1")
	require.NoError(t, err)
	_, err = h.Acquire("u1")
	require.NoError(t, err)

	_, err = h.Acquire("u1")
	assert.ErrorIs(t, err, ErrTooManyConnections)

	_, err = h.Acquire("u2")
	assert.NoError(t, err)
	assert.Equal(t, 2, h.Online())
	assert.Equal(t, 3, h.Total())

	r1()
	r1()
	assert.Equal(t, 1, h.Count("u1"))

	_, err = h.Acquire("u1")
	assert.NoError(t, err)
}

func TestNew_DefaultCap(t *testing.T) {
	h := New(0)
	for i := 0; i < DefaultMaxConnsPerUser; i++ {
		_, err := h.Acquire("u1")
		require.NoError(t, err)
	}
	_, err := h.Acquire("u1")
	assert.ErrorIs(t, err, ErrTooManyConnections)
}
