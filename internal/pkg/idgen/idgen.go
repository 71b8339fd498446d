// Package idgen generates identifiers for kingdoms, buildings and queue entries
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mock/mock.go -package=idgenmock github.com/KirkDiggler/kingdom-api/internal/pkg/idgen Generator

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

// UUIDGenerator produces random UUIDs, optionally prefixed ("bld_<uuid>")
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a UUID generator
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate returns a new UUID based ID
func (g *UUIDGenerator) Generate() string {
	id := uuid.NewString()
	if g.prefix == "" {
		return id
	}
	return g.prefix + "_" + id
}

// SequentialGenerator produces predictable IDs for tests ("q_1", "q_2", ...)
type SequentialGenerator struct {
	prefix  string
	counter atomic.Uint64
}

// NewSequential creates a sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate returns the next ID in sequence
func (g *SequentialGenerator) Generate() string {
	n := g.counter.Add(1)
	if g.prefix == "" {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s_%d", g.prefix, n)
}
