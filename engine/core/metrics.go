package core

const frameAvgCount uint8 = 30

// Metrics accumulates per-frame timings for FPS and average frame-time
// reporting in the run loop.
type Metrics struct {
	frameAvgCounter    uint8
	msTimes            [frameAvgCount]float64
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
	totalFrames        uint64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Update folds one frame's elapsed time (seconds) into the rolling averages.
func (m *Metrics) Update(frameElapsedTime float64) {
	frameMS := frameElapsedTime * 1000.0
	m.msTimes[m.frameAvgCounter] = frameMS
	if m.frameAvgCounter == frameAvgCount-1 {
		m.msAvg = 0
		for i := uint8(0); i < frameAvgCount; i++ {
			m.msAvg += m.msTimes[i]
		}
		m.msAvg /= float64(frameAvgCount)
	}
	m.frameAvgCounter++
	m.frameAvgCounter %= frameAvgCount

	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}

	m.frames++
	m.totalFrames++
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

func (m *Metrics) FrameTime() float64 {
	return m.msAvg
}

// Frame returns the number of frames folded in since startup.
func (m *Metrics) Frame() uint64 {
	return m.totalFrames
}
