package core

import (
	"sync"

	"github.com/ethlayer/chaindb/core/types"
)

// MemoryQueue is a simple in-process BlockQueue backed by a slice,
// used by the sync orchestrator's tests and the demo tool. A real
// deployment's queue lives upstream of the chain database, fed by
// whatever verifies blocks before they are queued.
type MemoryQueue struct {
	mu      sync.Mutex
	pending []VerifiedBlock
	held    map[types.Hash]VerifiedBlock
	bad     map[types.Hash]struct{}
}

// NewMemoryQueue returns an empty queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		held: make(map[types.Hash]VerifiedBlock),
		bad:  make(map[types.Hash]struct{}),
	}
}

// Push adds a verified block to the back of the queue.
func (q *MemoryQueue) Push(b VerifiedBlock) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, b)
}

// DequeueVerified removes up to max blocks from the front of the
// queue, holding them until the caller releases them via Requeue or
// MarkBad. Nothing else removes a held entry: a block that imports
// successfully stays in the held set.
func (q *MemoryQueue) DequeueVerified(max int) []VerifiedBlock {
	q.mu.Lock()
	defer q.mu.Unlock()
	if max > len(q.pending) {
		max = len(q.pending)
	}
	out := q.pending[:max]
	q.pending = q.pending[max:]
	for _, b := range out {
		q.held[b.Block.Hash()] = b
	}
	return out
}

// Requeue returns a previously dequeued block to the front of the
// queue, used after a Transient import error.
func (q *MemoryQueue) Requeue(hash types.Hash) {
	q.mu.Lock()
	defer q.mu.Unlock()
	b, ok := q.held[hash]
	if !ok {
		return
	}
	delete(q.held, hash)
	q.pending = append([]VerifiedBlock{b}, q.pending...)
}

// MarkBad discards a previously dequeued block permanently.
func (q *MemoryQueue) MarkBad(hash types.Hash) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.held, hash)
	q.bad[hash] = struct{}{}
}

func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
