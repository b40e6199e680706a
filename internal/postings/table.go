package postings

import (
	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/qfind/internal/trigram"
)

// openTable is an open-addressed hash table from trigram.Trigram to
// *entry, using quadratic probing and geometric-doubling growth once the
// load factor exceeds 0.7. It replaces a plain Go map as the per-shard
// trigram table the way the teacher's TrigramBucket replaces one, giving
// the shard predictable probe-sequence behavior instead of map's
// unspecified iteration/growth strategy.
type openTable struct {
	slots []tableSlot
	count int
}

type tableSlot struct {
	state slotState
	key   trigram.Trigram
	value *entry
}

type slotState uint8

const (
	slotEmpty slotState = iota
	slotUsed
	slotTombstone
)

const (
	initialTableCap = 16
	maxLoadFactor   = 0.7
)

func newOpenTable() *openTable {
	return &openTable{slots: make([]tableSlot, initialTableCap)}
}

func hashTrigram(t trigram.Trigram) uint64 {
	b := t.Bytes()
	return xxhash.Sum64(b[:])
}

func (t *openTable) probe(key trigram.Trigram, slots []tableSlot) (idx int, found bool) {
	mask := uint64(len(slots) - 1)
	h := hashTrigram(key)
	firstTombstone := -1

	for i := uint64(0); i < uint64(len(slots)); i++ {
		pos := (h + (i*(i+1))/2) & mask
		s := &slots[pos]
		switch s.state {
		case slotEmpty:
			if firstTombstone >= 0 {
				return firstTombstone, false
			}
			return int(pos), false
		case slotTombstone:
			if firstTombstone < 0 {
				firstTombstone = int(pos)
			}
		case slotUsed:
			if s.key == key {
				return int(pos), true
			}
		}
	}
	if firstTombstone >= 0 {
		return firstTombstone, false
	}
	return -1, false
}

func (t *openTable) grow() {
	newSlots := make([]tableSlot, len(t.slots)*2)
	old := t.slots
	t.slots = newSlots
	t.count = 0
	for _, s := range old {
		if s.state == slotUsed {
			t.insert(s.key, s.value)
		}
	}
}

func (t *openTable) insert(key trigram.Trigram, value *entry) {
	if float64(t.count+1) > maxLoadFactor*float64(len(t.slots)) {
		t.grow()
	}
	idx, found := t.probe(key, t.slots)
	if idx < 0 {
		t.grow()
		idx, found = t.probe(key, t.slots)
	}
	if !found {
		t.count++
	}
	t.slots[idx] = tableSlot{state: slotUsed, key: key, value: value}
}

func (t *openTable) get(key trigram.Trigram) (*entry, bool) {
	idx, found := t.probe(key, t.slots)
	if !found || idx < 0 {
		return nil, false
	}
	return t.slots[idx].value, true
}

func (t *openTable) getOrCreate(key trigram.Trigram) *entry {
	if e, ok := t.get(key); ok {
		return e
	}
	e := newEntry()
	t.insert(key, e)
	return e
}

func (t *openTable) delete(key trigram.Trigram) {
	idx, found := t.probe(key, t.slots)
	if !found {
		return
	}
	t.slots[idx].state = slotTombstone
	t.slots[idx].value = nil
	t.count--
}

func (t *openTable) forEach(fn func(trigram.Trigram, *entry)) {
	for _, s := range t.slots {
		if s.state == slotUsed {
			fn(s.key, s.value)
		}
	}
}
