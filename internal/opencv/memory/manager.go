package memory

import (
	"sync"

	"filter-bench/internal/logger"
)

// Manager tracks native OpenCV allocations made through safe.Mat so the
// status bar can report them and leaks show up in the debug log.
type Manager struct {
	mu          sync.RWMutex
	allocations map[uint64]allocationRecord
	stats       Stats
	logger      logger.Logger
}

type allocationRecord struct {
	size int64
	tag  string
}

type Stats struct {
	TotalAllocated int64
	TotalReleased  int64
	ActiveMats     int64
	PeakBytes      int64
}

// InUse is the number of native bytes currently held.
func (s Stats) InUse() int64 {
	return s.TotalAllocated - s.TotalReleased
}

func NewManager(log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		allocations: make(map[uint64]allocationRecord),
		logger:      log,
	}
}

func (m *Manager) TrackAllocation(id uint64, size int64, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.allocations[id] = allocationRecord{size: size, tag: tag}
	m.stats.TotalAllocated += size
	m.stats.ActiveMats++
	if inUse := m.stats.InUse(); inUse > m.stats.PeakBytes {
		m.stats.PeakBytes = inUse
	}
}

func (m *Manager) TrackDeallocation(id uint64, tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.allocations[id]
	if !ok {
		m.logger.Warning("MemoryManager", "release of untracked Mat", map[string]interface{}{
			"id":  id,
			"tag": tag,
		})
		return
	}

	delete(m.allocations, id)
	m.stats.TotalReleased += record.size
	m.stats.ActiveMats--
}

func (m *Manager) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// InUse is the number of native bytes currently held by live Mats.
func (m *Manager) InUse() int64 {
	return m.GetStats().InUse()
}

// Shutdown logs any Mats still alive. They are released by their finalizers.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.allocations) == 0 {
		return
	}

	tags := make(map[string]int)
	for _, record := range m.allocations {
		tags[record.tag]++
	}
	m.logger.Warning("MemoryManager", "Mats still alive at shutdown", map[string]interface{}{
		"count": len(m.allocations),
		"tags":  tags,
	})
}
