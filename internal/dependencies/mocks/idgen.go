package mocks

import (
	"fmt"
	"sync"

	"github.com/hankerbiao/Registration-System/internal/dependencies/idgen"
)

// SequenceIDs is a mock Generator returning prefix-1, prefix-2, ...
type SequenceIDs struct {
	Prefix string

	mu   sync.Mutex
	next int
}

// Ensure SequenceIDs implements Generator
var _ idgen.Generator = (*SequenceIDs)(nil)

// NewSequenceIDs creates a SequenceIDs with the given prefix
func NewSequenceIDs(prefix string) *SequenceIDs {
	return &SequenceIDs{Prefix: prefix}
}

// NewID returns the next identifier in the sequence
func (g *SequenceIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.Prefix, g.next)
}
