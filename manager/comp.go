package manager

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sarchlab/memsim/hooking"
	"github.com/sarchlab/memsim/idgen"
	"github.com/sarchlab/memsim/tracing"
)

// A Comp is a memory manager. It simulates a fixed-size linear memory region
// under explicit allocation control: callers request contiguous blocks,
// receive opaque handles, and may read, write, free, or trigger
// defragmentation.
//
// A single lock guards the whole manager state. Every operation holds the
// lock for its full duration, so operations are fully serialized. Failed
// operations never modify the manager state.
type Comp struct {
	hooking.HookableBase

	name    string
	taskIDs idgen.Generator

	lock       sync.Mutex
	capacity   int
	blocks     map[Handle]*block
	nextHandle Handle
}

// Name returns the name of the manager.
func (c *Comp) Name() string {
	return c.name
}

// Capacity returns the total size of the managed region.
func (c *Comp) Capacity() int {
	return c.capacity
}

// Allocate reserves a contiguous block of the given size and returns its
// handle. The block is found with a first-fit scan from offset 0 and its
// payload starts zero-filled.
func (c *Comp) Allocate(size int) (Handle, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	taskID := c.traceStart("alloc", fmt.Sprintf("alloc %d", size))
	defer c.traceEnd(taskID)

	if size < 1 || size > c.capacity {
		return 0, fmt.Errorf("%w: allocation size must be in [1, %d], got %d",
			ErrInvalidArgument, c.capacity, size)
	}

	start, ok := c.firstFit(size)
	if !ok {
		return 0, fmt.Errorf(
			"%w: no contiguous run of %d bytes, defragmenting may help",
			ErrOutOfMemory, size)
	}

	handle := c.nextHandle
	c.nextHandle++
	c.blocks[handle] = newBlock(start, size)

	return handle, nil
}

// firstFit returns the lowest offset where a free run of the given size
// starts. The occupancy is derived from the live block table.
func (c *Comp) firstFit(size int) (int, bool) {
	occupied := c.occupancy()

	for i := 0; i+size <= c.capacity; i++ {
		fits := true
		for j := i; j < i+size; j++ {
			if occupied[j] {
				fits = false
				i = j // resume the scan after the blocking byte
				break
			}
		}

		if fits {
			return i, true
		}
	}

	return 0, false
}

func (c *Comp) occupancy() []bool {
	occupied := make([]bool, c.capacity)
	for _, b := range c.blocks {
		for i := b.start; i < b.start+b.size; i++ {
			occupied[i] = true
		}
	}
	return occupied
}

// Free releases the block addressed by the handle. The handle is removed from
// the block table and is never handed out again. Freeing an unknown or
// already-freed handle fails with ErrUnknownHandle.
func (c *Comp) Free(handle Handle) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	taskID := c.traceStart("free", fmt.Sprintf("free %d", handle))
	defer c.traceEnd(taskID)

	if _, ok := c.blocks[handle]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, handle)
	}

	delete(c.blocks, handle)

	return nil
}

// Defragment relocates all live blocks to the front of the region, packed
// contiguously in ascending order of their current start offsets. Handles and
// payload contents are preserved. Afterwards, all free space is one trailing
// run.
func (c *Comp) Defragment() {
	c.lock.Lock()
	defer c.lock.Unlock()

	taskID := c.traceStart("defrag", "defragment")
	defer c.traceEnd(taskID)

	handles := make([]Handle, 0, len(c.blocks))
	for h := range c.blocks {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool {
		return c.blocks[handles[i]].start < c.blocks[handles[j]].start
	})

	newBlocks := make(map[Handle]*block, len(c.blocks))
	cursor := 0
	for _, h := range handles {
		b := c.blocks[h]
		newBlocks[h] = b.clone(cursor)
		c.traceStep(taskID, "relocate",
			fmt.Sprintf("block %d: %d -> %d", h, b.start, cursor))
		cursor += b.size
	}

	c.blocks = newBlocks
}

// Write copies data into the block at the given offset. Bytes of the block
// outside the written range are untouched. A zero-length write with a valid
// handle and offset is a no-op.
func (c *Comp) Write(handle Handle, offset int, data []byte) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	taskID := c.traceStart("write",
		fmt.Sprintf("write %d+%d@%d", offset, len(data), handle))
	defer c.traceEnd(taskID)

	b, ok := c.blocks[handle]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, handle)
	}

	if offset < 0 || offset >= b.size {
		return fmt.Errorf("%w: offset %d not in [0, %d)",
			ErrOutOfBounds, offset, b.size)
	}

	if len(data) > b.size-offset {
		return fmt.Errorf("%w: %d bytes do not fit in the %d bytes after offset %d",
			ErrCapacityExceeded, len(data), b.size-offset, offset)
	}

	copy(b.payload[offset:], data)

	return nil
}

// Read returns a copy of length bytes of the block starting at the given
// offset. The returned slice does not alias the block payload.
func (c *Comp) Read(handle Handle, offset, length int) ([]byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	taskID := c.traceStart("read",
		fmt.Sprintf("read %d+%d@%d", offset, length, handle))
	defer c.traceEnd(taskID)

	b, ok := c.blocks[handle]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, handle)
	}

	if length < 1 {
		return nil, fmt.Errorf("%w: read length must be positive, got %d",
			ErrInvalidArgument, length)
	}

	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative, got %d",
			ErrOutOfBounds, offset)
	}

	// Compared in subtracted form so a huge offset cannot overflow.
	if offset >= b.size || length > b.size-offset {
		return nil, fmt.Errorf("%w: range %d+%d not in [0, %d)",
			ErrOutOfBounds, offset, length, b.size)
	}

	data := make([]byte, length)
	copy(data, b.payload[offset:offset+length])

	return data, nil
}

// Snapshot renders the occupancy of the region as a string of one symbol per
// byte: '-' for free bytes, the payload byte where one has been written, and
// 'X' for occupied but unwritten bytes.
func (c *Comp) Snapshot() string {
	c.lock.Lock()
	defer c.lock.Unlock()

	view := make([]byte, c.capacity)
	for i := range view {
		view[i] = '-'
	}

	for _, b := range c.blocks {
		for i, ch := range b.payload {
			if ch == 0 {
				ch = 'X'
			}
			view[b.start+i] = ch
		}
	}

	return string(view)
}

// Blocks lists the live blocks sorted by their start offsets.
func (c *Comp) Blocks() []BlockInfo {
	c.lock.Lock()
	defer c.lock.Unlock()

	infos := make([]BlockInfo, 0, len(c.blocks))
	for h, b := range c.blocks {
		infos = append(infos, BlockInfo{Handle: h, Start: b.start, Size: b.size})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Start < infos[j].Start
	})

	return infos
}

// Utilization returns the fraction of the region covered by live blocks.
func (c *Comp) Utilization() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	used := 0
	for _, b := range c.blocks {
		used += b.size
	}

	return float64(used) / float64(c.capacity)
}

func (c *Comp) String() string {
	return c.Snapshot()
}

// traceStart opens a trace task for one operation. Hooks run with the manager
// lock held and must not call back into the manager.
func (c *Comp) traceStart(kind, what string) string {
	if c.NumHooks() == 0 {
		return ""
	}

	taskID := c.taskIDs.Generate()
	tracing.StartTask(taskID, "", c, kind, what)

	return taskID
}

func (c *Comp) traceStep(taskID, kind, what string) {
	if taskID == "" {
		return
	}

	tracing.StepTask(taskID, c, kind, what)
}

func (c *Comp) traceEnd(taskID string) {
	if taskID == "" {
		return
	}

	tracing.EndTask(taskID, c)
}
