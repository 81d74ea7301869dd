// Package store keeps the option catalog of every product in memory.
package store

import (
	"slices"
	"sync"

	"github.com/fairyhunter13/product-option-service/internal/model"
)

// productState tracks the highest applied sequence per entity so that events
// for the same option set or selection apply last-write-wins by sequence.
// Removed entities keep their sequence as a tombstone.
//
// setBorn and selBorn hold the sequence that created each live entity.
// Option sets and selections are kept ordered by it, so catalog order follows
// submission order however workers interleave. Seeded entities are born at 0.
type productState struct {
	c         model.Catalog
	headerSeq uint64
	setSeq    map[string]uint64
	selSeq    map[string]uint64
	setBorn   map[string]uint64
	selBorn   map[string]uint64
}

func newProductState(productID string) *productState {
	return &productState{
		c:       model.Catalog{ProductID: productID, OptionSets: []model.OptionSet{}, Selections: []model.Selection{}},
		setSeq:  make(map[string]uint64),
		selSeq:  make(map[string]uint64),
		setBorn: make(map[string]uint64),
		selBorn: make(map[string]uint64),
	}
}

type Store struct {
	mu sync.RWMutex
	m  map[string]*productState
}

func New() *Store {
	return &Store{m: make(map[string]*productState)}
}

// Get returns a deep copy of the product's catalog, taken under one read
// lock so option sets and selections are mutually consistent.
func (s *Store) Get(id string) (model.Catalog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.m[id]
	if !ok {
		return model.Catalog{}, false
	}
	return st.c.Clone(), true
}

// ProductIDs returns the known product IDs in ascending order.
func (s *Store) ProductIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.m))
	for id := range s.m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Put replaces a product's catalog wholesale, e.g. from a seed file. Later
// events with any positive sequence apply on top of it.
func (s *Store) Put(c model.Catalog) {
	if c.ProductID == "" {
		return
	}
	st := newProductState(c.ProductID)
	c = c.Clone()
	st.c.Name = c.Name
	st.c.BaseSKU = c.BaseSKU
	if c.OptionSets != nil {
		st.c.OptionSets = c.OptionSets
	}
	if c.Selections != nil {
		st.c.Selections = c.Selections
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[c.ProductID] = st
}

// Apply applies ev and reports whether it changed state. Events older than
// the last applied event for the same entity are dropped.
func (s *Store) Apply(ev model.Event) bool {
	if ev.ProductID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[ev.ProductID]
	if !ok {
		st = newProductState(ev.ProductID)
		s.m[ev.ProductID] = st
	}
	switch ev.Type {
	case model.EventProduct:
		if ev.Sequence <= st.headerSeq {
			return false
		}
		st.c.Name = ev.Name
		st.c.BaseSKU = ev.BaseSKU
		st.headerSeq = ev.Sequence
	case model.EventOptionSetUpserted:
		if ev.OptionSet == nil || ev.Sequence <= st.setSeq[ev.OptionSet.ID] {
			return false
		}
		st.c.OptionSets = upsertOrdered(st.c.OptionSets, ev.OptionSet.Clone(), optionSetID, st.setBorn, ev.Sequence)
		st.setSeq[ev.OptionSet.ID] = ev.Sequence
	case model.EventOptionSetRemoved:
		if ev.Sequence <= st.setSeq[ev.OptionSetID] {
			return false
		}
		st.c.OptionSets = slices.DeleteFunc(st.c.OptionSets, func(set model.OptionSet) bool { return set.ID == ev.OptionSetID })
		st.setSeq[ev.OptionSetID] = ev.Sequence
		delete(st.setBorn, ev.OptionSetID)
	case model.EventSelectionUpserted:
		if ev.Selection == nil || ev.Sequence <= st.selSeq[ev.Selection.ID] {
			return false
		}
		st.c.Selections = upsertOrdered(st.c.Selections, ev.Selection.Clone(), selectionID, st.selBorn, ev.Sequence)
		st.selSeq[ev.Selection.ID] = ev.Sequence
	case model.EventSelectionRemoved:
		if ev.Sequence <= st.selSeq[ev.SelectionID] {
			return false
		}
		st.c.Selections = slices.DeleteFunc(st.c.Selections, func(sel model.Selection) bool { return sel.ID == ev.SelectionID })
		st.selSeq[ev.SelectionID] = ev.Sequence
		delete(st.selBorn, ev.SelectionID)
	default:
		return false
	}
	return true
}

func optionSetID(set model.OptionSet) string { return set.ID }
func selectionID(sel model.Selection) string { return sel.ID }

// upsertOrdered replaces the entity with v's ID in place, or inserts v after
// every entity born at or before seq.
func upsertOrdered[T any](list []T, v T, id func(T) string, born map[string]uint64, seq uint64) []T {
	key := id(v)
	if i := slices.IndexFunc(list, func(x T) bool { return id(x) == key }); i >= 0 {
		list[i] = v
		return list
	}
	born[key] = seq
	i := slices.IndexFunc(list, func(x T) bool { return born[id(x)] > seq })
	if i < 0 {
		return append(list, v)
	}
	return slices.Insert(list, i, v)
}
