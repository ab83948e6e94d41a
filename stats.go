package sysarena

// Stats is a snapshot of a manager's table and operation counters.
//
// Note on semantics:
//   - BytesReserved: size of the backing buffer
//   - BytesUsed: bytes handed out by active arenas
//   - BytesFree: unused tail bytes across active arenas
//   - LargestFree: the largest single allocation that can currently succeed
type Stats struct {
	Slots         int
	ActiveSlots   int
	BytesReserved uint64
	BytesUsed     uint64
	BytesFree     uint64
	LargestFree   uint64
	TotalAllocs   uint64 // Historical: successful allocations
	TotalFrees    uint64 // Historical: arenas freed
	TotalSplits   uint64 // Historical: successful splits
	TotalMerges   uint64 // Historical: slot pairs coalesced
}

// Stats returns the current manager statistics.
func (m *Manager) Stats() Stats {
	st := Stats{
		Slots:         len(m.slots),
		BytesReserved: m.size,
		TotalAllocs:   m.allocs,
		TotalFrees:    m.frees,
		TotalSplits:   m.splits,
		TotalMerges:   m.merges,
	}
	for i := range m.slots {
		s := &m.slots[i]
		if !s.active {
			continue
		}
		st.ActiveSlots++
		st.BytesUsed += s.used
		st.BytesFree += s.Remaining()
		if s.Remaining() > st.LargestFree {
			st.LargestFree = s.Remaining()
		}
	}
	return st
}

// Usage returns the share of the backing buffer handed out, in percent.
func (s Stats) Usage() float64 {
	if s.BytesReserved == 0 {
		return 0
	}
	return float64(s.BytesUsed) / float64(s.BytesReserved) * 100
}
