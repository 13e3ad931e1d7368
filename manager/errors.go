package manager

import "errors"

// The error kinds that the manager operations can return. Callers are
// expected to test with errors.Is, as the returned errors carry extra context
// around these sentinels.
var (
	// ErrInvalidArgument is returned when a caller supplies a structurally
	// invalid parameter, such as a non-positive allocation size or a
	// non-positive read length.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfMemory is returned when no contiguous free run can satisfy an
	// otherwise valid allocation request. The caller can defragment and
	// retry. The manager never defragments on its own.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrUnknownHandle is returned when a handle is not in the block table,
	// either because it was never allocated or because it was already freed.
	ErrUnknownHandle = errors.New("unknown handle")

	// ErrOutOfBounds is returned when an offset or range falls outside the
	// addressed block.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrCapacityExceeded is returned when a write starts at a valid offset
	// but the data does not fit in the remaining space of the block.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)
