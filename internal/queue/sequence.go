package queue

import "sync/atomic"

// Sequencer hands out the global, monotonically increasing event sequence
// the store uses for last-write-wins.
type Sequencer struct{ n atomic.Uint64 }

// Next returns the next sequence number, starting at 1.
func (s *Sequencer) Next() uint64 { return s.n.Add(1) }
