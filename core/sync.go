package core

import "time"

// defaultSyncBudget is the soft wall-clock budget a single Drain call
// honors before returning early.
const defaultSyncBudget = time.Second

// Sync drains a BlockQueue through a Chain's import engine under a
// soft time budget, aggregating the routes of every import it makes
// and reporting bad blocks without aborting the batch.
type Sync struct {
	chain  *Chain
	queue  BlockQueue
	budget time.Duration
}

// NewSync wires a sync orchestrator around chain and queue, using the
// default one-second soft budget.
func NewSync(chain *Chain, queue BlockQueue) *Sync {
	return &Sync{chain: chain, queue: queue, budget: defaultSyncBudget}
}

// SetBudget overrides the default soft time budget.
func (s *Sync) SetBudget(d time.Duration) { s.budget = d }

// Drain imports up to max verified blocks, or runs until the soft
// time budget elapses, whichever comes first. It returns the union of
// every successful import's route, whether the queue still has work
// left, and how many blocks were actually imported.
func (s *Sync) Drain(max int) (*ImportRoute, bool, int) {
	deadline := time.Now().Add(s.budget)
	aggregate := &ImportRoute{}
	imported := 0

	for imported < max {
		if time.Now().After(deadline) {
			break
		}
		batch := s.queue.DequeueVerified(1)
		if len(batch) == 0 {
			break
		}
		vb := batch[0]

		route, err := s.chain.Import(vb.Block, false)
		if err != nil {
			if err.Kind.Transient() {
				s.queue.Requeue(vb.Block.Hash())
				// A transient error is almost always time-based; retrying
				// the same head immediately within this call would spin.
				break
			}
			s.queue.MarkBad(vb.Block.Hash())
			continue
		}

		aggregate.Dead = append(aggregate.Dead, route.Dead...)
		aggregate.Live = append(aggregate.Live, route.Live...)
		aggregate.ImportedTxHashes = append(aggregate.ImportedTxHashes, route.ImportedTxHashes...)
		imported++
	}

	return aggregate, s.queue.Len() > 0, imported
}
