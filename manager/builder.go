package manager

import (
	"fmt"

	"github.com/sarchlab/memsim/idgen"
)

// Builder can build memory managers.
type Builder struct {
	capacity int
	taskIDs  idgen.Generator
}

// MakeBuilder returns a new Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		capacity: 64,
	}
}

// WithCapacity sets the total size of the managed region.
func (b Builder) WithCapacity(capacity int) Builder {
	b.capacity = capacity
	return b
}

// WithTaskIDGenerator sets the generator used for trace task IDs. By default,
// a sequential generator is used so that traces are deterministic.
func (b Builder) WithTaskIDGenerator(g idgen.Generator) Builder {
	b.taskIDs = g
	return b
}

// Build builds a new Comp with the given name. It fails if the configured
// capacity is not positive.
func (b Builder) Build(name string) (*Comp, error) {
	if b.capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d",
			ErrInvalidArgument, b.capacity)
	}

	taskIDs := b.taskIDs
	if taskIDs == nil {
		taskIDs = idgen.NewSequential()
	}

	return &Comp{
		name:       name,
		taskIDs:    taskIDs,
		capacity:   b.capacity,
		blocks:     make(map[Handle]*block),
		nextHandle: 1,
	}, nil
}
