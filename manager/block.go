package manager

// A Handle identifies an allocated block. Handles are assigned monotonically
// starting from 1 and are never reused, even after the block is freed, so a
// stale handle can never silently address another caller's block.
type Handle uint64

// A block is an allocated region of the managed memory. Blocks are owned by
// the manager's block table. Callers only ever hold a Handle.
type block struct {
	start   int
	size    int
	payload []byte
}

func newBlock(start, size int) *block {
	return &block{
		start:   start,
		size:    size,
		payload: make([]byte, size),
	}
}

// clone copies the block with a new start offset. The payload content is
// copied verbatim.
func (b *block) clone(start int) *block {
	nb := newBlock(start, b.size)
	copy(nb.payload, b.payload)
	return nb
}

// A BlockInfo describes one live block in the block table. It is a copy and
// does not alias the manager's internal state.
type BlockInfo struct {
	Handle Handle `json:"handle"`
	Start  int    `json:"start"`
	Size   int    `json:"size"`
}
