package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerTracksAllocations(t *testing.T) {
	m := NewManager(nil)

	m.TrackAllocation(1, 100, "a")
	m.TrackAllocation(2, 50, "b")
	m.TrackDeallocation(1, "a")

	stats := m.GetStats()
	assert.Equal(t, int64(150), stats.TotalAllocated)
	assert.Equal(t, int64(100), stats.TotalReleased)
	assert.Equal(t, int64(1), stats.ActiveMats)
	assert.Equal(t, int64(50), stats.InUse())
	assert.Equal(t, int64(150), stats.PeakBytes)
}

func TestManagerIgnoresUnknownRelease(t *testing.T) {
	m := NewManager(nil)
	m.TrackDeallocation(7, "ghost")

	assert.Zero(t, m.GetStats().ActiveMats)
	m.Shutdown()
}
