package sysarena

import (
	"fmt"
	"strings"

	"github.com/hupe1980/sysarena/internal/conv"
)

// Manager carves one backing buffer into a fixed table of arenas.
//
// The table is kept in ascending base order and every slot that holds bytes
// precedes the empty templates, so that slot i and slot i+1 are the only
// coalescing candidates for each other.
//
// A Manager is not safe for concurrent use; wrap it in a Locked to share it.
// It must be initialized with New or Init before use.
type Manager struct {
	slots   []Arena // caller-owned table
	backing []byte  // caller-owned buffer
	size    uint64
	hint    int

	allocs uint64
	frees  uint64
	splits uint64
	merges uint64

	logger   *Logger
	metrics  MetricsCollector
	acquirer MemoryAcquirer
}

// New creates a Manager over backing using slots as its arena table.
// Both are borrowed and must outlive the Manager.
func New(backing []byte, slots []Arena, opts ...Option) (*Manager, error) {
	m := &Manager{}
	if err := m.Init(backing, slots, opts...); err != nil {
		return nil, err
	}
	return m, nil
}

// Init initializes m in place, for managers that live in static storage.
//
// Slot 0 becomes the genesis arena spanning all of backing; every other slot
// is reset. Bytes still held by a previous table are returned to its memory
// acquirer first. On error m is left untouched.
func (m *Manager) Init(backing []byte, slots []Arena, opts ...Option) error {
	if backing == nil {
		return fmt.Errorf("%w: nil backing buffer", ErrInvalidArgument)
	}
	if len(slots) < 1 {
		return fmt.Errorf("%w: slot table needs at least one slot", ErrInvalidArgument)
	}
	size, err := conv.IntToUint64(len(backing))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	genesis := Arena{contiguous: true}
	if err := genesis.Init(backing, 0, size); err != nil {
		return err
	}

	m.releaseAll()

	o := applyOptions(opts)
	*m = Manager{
		slots:    slots,
		backing:  backing,
		size:     size,
		logger:   o.logger,
		metrics:  o.metrics,
		acquirer: o.acquirer,
	}

	slots[0] = genesis
	for i := 1; i < len(slots); i++ {
		slots[i].Reset()
	}
	return nil
}

// Allocate hands out size bytes from the first arena with enough tail space.
//
// The arena that served the previous allocation is tried first. Allocate never
// splits; it fails with ErrOutOfMemory when no single arena fits the request.
func (m *Manager) Allocate(size uint64) (Addr, error) {
	addr, slot, err := m.allocate(size)
	m.metrics.RecordAllocate(size, err)
	m.logger.LogAllocate(size, addr, slot, err)
	return addr, err
}

// AllocateBytes is Allocate returning the allocated bytes as a slice.
// The slice has len and cap equal to size and aliases the backing buffer.
func (m *Manager) AllocateBytes(size uint64) ([]byte, error) {
	addr, err := m.Allocate(size)
	if err != nil {
		return nil, err
	}
	return m.slots[m.hint].Bytes(addr, size)
}

func (m *Manager) allocate(size uint64) (Addr, int, error) {
	if size == 0 {
		return 0, -1, opError("allocate", -1, 0, size, ErrInvalidSize)
	}

	idx := m.findFit(size)
	if idx < 0 {
		return 0, -1, opError("allocate", -1, 0, size, ErrOutOfMemory)
	}
	if err := m.acquire(size); err != nil {
		return 0, -1, opError("allocate", idx, 0, size, fmt.Errorf("%w: %w", ErrOutOfMemory, err))
	}

	addr, err := m.slots[idx].Allocate(size)
	if err != nil {
		m.release(size)
		return 0, -1, opError("allocate", idx, 0, size, err)
	}

	m.hint = idx
	m.allocs++
	return addr, idx, nil
}

// findFit returns the slot to serve size bytes from, or -1.
func (m *Manager) findFit(size uint64) int {
	if m.hint >= 0 && m.hint < len(m.slots) {
		if s := &m.slots[m.hint]; s.active && s.Remaining() >= size {
			return m.hint
		}
	}
	for i := range m.slots {
		if s := &m.slots[i]; s.active && s.Remaining() >= size {
			return i
		}
	}
	return -1
}

// Split carves a new arena of exactly size bytes off the unused tail of the
// arena at index and returns its base, which is the source's End() minus size.
//
// The carve takes the high end of the tail, so the source keeps its base and
// every byte it already handed out. The new arena is placed right after the
// source in the table. Fails with ErrOutOfSpace if the tail is too short or
// nothing of the source would remain, and with ErrTableFull if no inactive
// slot is left.
func (m *Manager) Split(index int, size uint64) (Addr, error) {
	addr, err := m.split(index, size)
	m.metrics.RecordSplit(size, err)
	m.logger.LogSplit(index, size, addr, err)
	return addr, err
}

func (m *Manager) split(index int, size uint64) (Addr, error) {
	fail := func(err error) (Addr, error) {
		return 0, opError("split", index, 0, size, err)
	}

	if size == 0 {
		return fail(ErrInvalidSize)
	}
	if index < 0 || index >= len(m.slots) {
		return fail(ErrInvalidIndex)
	}
	src := &m.slots[index]
	if !src.active {
		return fail(ErrNotActive)
	}
	if src.Remaining() < size || size == src.capacity {
		return fail(fmt.Errorf("%w: %d bytes of tail, %d requested", ErrOutOfSpace, src.Remaining(), size))
	}
	free := m.firstInactive()
	if free < 0 {
		return fail(ErrTableFull)
	}

	carved := Arena{contiguous: true}
	if err := carved.Init(m.backing, src.End()-Addr(size), size); err != nil {
		return fail(err)
	}

	src.capacity -= size
	src.contiguous = false
	src.reclaimed = false
	m.insertAfter(index, free, carved)
	m.splits++
	return carved.base, nil
}

// firstInactive returns the lowest inactive slot, or -1.
func (m *Manager) firstInactive() int {
	for i := range m.slots {
		if !m.slots[i].active {
			return i
		}
	}
	return -1
}

// insertAfter places a directly after the slot at index, shifting the
// entries up to the inactive slot free by one position. Templates trail
// every live region, so free is always above index.
func (m *Manager) insertAfter(index, free int, a Arena) {
	pos := index + 1
	copy(m.slots[pos+1:free+1], m.slots[pos:free])
	if m.hint >= pos && m.hint < free {
		m.hint++
	}
	m.slots[pos] = a
}

// Free reclaims the whole arena that addr belongs to and coalesces free
// neighbors. Every other allocation from that arena is invalidated too.
func (m *Manager) Free(addr Addr) error {
	reclaimed, err := m.free(addr)
	m.metrics.RecordFree(reclaimed, err)
	m.logger.LogFree(addr, reclaimed, err)
	return err
}

func (m *Manager) free(addr Addr) (uint64, error) {
	idx := m.owner(addr)
	if idx < 0 {
		return 0, opError("free", -1, addr, 0, ErrNotFound)
	}

	s := &m.slots[idx]
	reclaimed := s.used
	m.release(reclaimed)
	s.FreeAll()
	s.contiguous = true
	s.reclaimed = true
	m.frees++

	m.Defragment()
	return reclaimed, nil
}

// owner returns the active slot whose range holds addr, or -1.
func (m *Manager) owner(addr Addr) int {
	for i := range m.slots {
		if s := &m.slots[i]; s.active && s.Contains(addr) {
			return i
		}
	}
	return -1
}

// Defragment coalesces table-adjacent free arenas whose ranges touch.
//
// Only arenas handed back through Free take part; an empty arena the caller
// split off and still owns is left alone. Merged-away slots are compacted out
// of the table, and the surviving free regions are re-armed as active empty
// arenas that stay reclaimed.
func (m *Manager) Defragment() {
	merges := m.defragment()
	m.metrics.RecordDefragment(merges)
	m.logger.LogDefragment(merges, m.ActiveCount())
}

func (m *Manager) defragment() int {
	for i := range m.slots {
		if s := &m.slots[i]; s.active && s.reclaimed && s.contiguous && s.used == 0 && s.capacity > 0 {
			s.FreeAll()
		}
	}

	// A merge only grows slot i, so no pair to the left of i becomes
	// mergeable; re-examining i after every merge reaches the fixed point.
	// Each step either advances i or removes a slot.
	merges := 0
	for i := 0; i+1 < len(m.slots); {
		if !m.mergeable(i) {
			i++
			continue
		}
		m.slots[i].capacity += m.slots[i+1].capacity
		m.removeSlot(i + 1)
		merges++
	}

	for i := range m.slots {
		if s := &m.slots[i]; !s.active && s.capacity > 0 {
			s.active = true
			s.used = 0
		}
	}

	m.merges += uint64(merges) //nolint:gosec // merges <= len(m.slots)
	return merges
}

// mergeable reports whether slot i+1 can be folded into slot i.
func (m *Manager) mergeable(i int) bool {
	a, b := &m.slots[i], &m.slots[i+1]
	if a.active || b.active || !a.contiguous || !b.contiguous {
		return false
	}
	if a.capacity == 0 || b.capacity == 0 {
		return false
	}
	end, err := conv.AddUint64(uint64(a.base), a.capacity)
	if err != nil || Addr(end) != b.base {
		return false
	}
	_, err = conv.AddUint64(a.capacity, b.capacity)
	return err == nil
}

// removeSlot deletes slot j, shifts later entries left and resets the last slot.
func (m *Manager) removeSlot(j int) {
	copy(m.slots[j:], m.slots[j+1:])
	m.slots[len(m.slots)-1].Reset()

	switch {
	case m.hint == j:
		m.hint = j - 1 // absorbed by j-1
	case m.hint > j:
		m.hint--
	}
}

// IsFullyMerged reports whether the table is back to its post-initialization
// shape: one active arena spanning the whole backing buffer.
func (m *Manager) IsFullyMerged() bool {
	found := -1
	for i := range m.slots {
		if !m.slots[i].active {
			continue
		}
		if found >= 0 {
			return false
		}
		found = i
	}
	return found >= 0 && m.slots[found].base == 0 && m.slots[found].capacity == m.size
}

// Bytes returns a view of n already allocated bytes starting at addr.
func (m *Manager) Bytes(addr Addr, n uint64) ([]byte, error) {
	idx := m.owner(addr)
	if idx < 0 {
		return nil, opError("bytes", -1, addr, n, ErrNotFound)
	}
	b, err := m.slots[idx].Bytes(addr, n)
	if err != nil {
		return nil, opError("bytes", idx, addr, n, err)
	}
	return b, nil
}

// Slot returns a copy of the arena at index.
func (m *Manager) Slot(index int) (Arena, error) {
	if index < 0 || index >= len(m.slots) {
		return Arena{}, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	return m.slots[index], nil
}

// Slots returns a copy of the whole table.
func (m *Manager) Slots() []Arena {
	out := make([]Arena, len(m.slots))
	copy(out, m.slots)
	return out
}

// Len returns the slot table capacity.
func (m *Manager) Len() int { return len(m.slots) }

// Size returns the backing buffer size in bytes.
func (m *Manager) Size() uint64 { return m.size }

// Hint returns the slot consulted first by the next Allocate.
func (m *Manager) Hint() int { return m.hint }

// ActiveCount returns the number of active slots.
func (m *Manager) ActiveCount() int {
	n := 0
	for i := range m.slots {
		if m.slots[i].active {
			n++
		}
	}
	return n
}

func (m *Manager) acquire(size uint64) error {
	if m.acquirer == nil {
		return nil
	}
	n, err := conv.Uint64ToInt64(size)
	if err != nil {
		return err
	}
	return m.acquirer.AcquireMemory(n)
}

func (m *Manager) release(size uint64) {
	if m.acquirer == nil || size == 0 {
		return
	}
	if n, err := conv.Uint64ToInt64(size); err == nil {
		m.acquirer.ReleaseMemory(n)
	}
}

// releaseAll returns every byte still handed out to the acquirer.
func (m *Manager) releaseAll() {
	for i := range m.slots {
		m.release(m.slots[i].used)
	}
}

func (m *Manager) String() string {
	var sb strings.Builder
	st := m.Stats()
	fmt.Fprintf(&sb, "Manager{slots: %d/%d, size: %d, used: %d, hint: %d}",
		st.ActiveSlots, st.Slots, st.BytesReserved, st.BytesUsed, m.hint)
	for i := range m.slots {
		if m.slots[i].capacity == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n  [%d] %s", i, m.slots[i].String())
	}
	return sb.String()
}
