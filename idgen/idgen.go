// Package idgen provides ID generators for trace tasks.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// Generator can generate IDs.
type Generator interface {
	// Generate an ID
	Generate() string
}

// NewSequential returns a generator whose first emitted ID is "1". Sequential
// IDs keep traces deterministic and reproducible across runs.
func NewSequential() Generator {
	return &sequentialGenerator{}
}

// NewXID returns a generator producing globally unique xid strings. The IDs
// are not deterministic, but remain unique when multiple managers are traced
// into the same backend.
func NewXID() Generator {
	return xidGenerator{}
}

type sequentialGenerator struct {
	next uint64
}

func (g *sequentialGenerator) Generate() string {
	return strconv.FormatUint(atomic.AddUint64(&g.next, 1), 10)
}

type xidGenerator struct{}

func (xidGenerator) Generate() string {
	return xid.New().String()
}
