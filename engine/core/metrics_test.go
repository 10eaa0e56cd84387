package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetricsFrameTimeRollingAverage(t *testing.T) {
	m := NewMetrics()

	// 10ms per frame for a full averaging window.
	for i := uint8(0); i < frameAvgCount; i++ {
		m.Update(0.010)
	}
	require.InDelta(t, 10.0, m.FrameTime(), 0.001)
	require.Equal(t, uint64(frameAvgCount), m.Frame())
}

func TestMetricsFPSAfterOneSecond(t *testing.T) {
	m := NewMetrics()

	// 50 frames of 20ms each cross the one second accumulator twice over,
	// the fps snapshot lands one frame after the crossing.
	for i := 0; i < 51; i++ {
		m.Update(0.020)
	}
	require.InDelta(t, 50.0, m.FPS(), 1.0)
}

func TestMetricsZeroBeforeFirstWindow(t *testing.T) {
	m := NewMetrics()
	m.Update(0.016)
	require.Equal(t, 0.0, m.FrameTime())
	require.Equal(t, 0.0, m.FPS())
	require.Equal(t, uint64(1), m.Frame())
}
