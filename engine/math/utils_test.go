package math

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	require.Equal(t, 5, Clamp(5, 0, 10))
	require.Equal(t, 0, Clamp(-3, 0, 10))
	require.Equal(t, 10, Clamp(42, 0, 10))

	require.Equal(t, uint32(100), Clamp(uint32(50), 100, 1000))
	require.Equal(t, uint32(1000), Clamp(uint32(2000), 100, 1000))

	require.Equal(t, 0.25, Clamp(0.25, 0.0, 1.0))
	require.Equal(t, "b", Clamp("a", "b", "d"))
}
