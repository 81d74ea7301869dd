package optionmodel

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/fairyhunter13/product-option-service/internal/model"
)

// Selection is a selection whose option references have been resolved.
type Selection struct {
	ID      string
	Options []model.Option
}

// Tree maps an option name to its node at one depth of the nesting.
type Tree map[string]*Node

// Node carries the metadata of the option it is keyed by. Its slot holds
// either a subtree (Children) or, when a selection ends at this option, that
// selection's ID. An empty slot has neither.
type Node struct {
	HasInput        bool
	OptionID        string
	PriceAdjustment model.Money
	SKUExtension    string

	Children    Tree
	SelectionID string
}

// IsLeaf reports whether the node's slot holds a selection ID.
func (n *Node) IsLeaf() bool { return n.SelectionID != "" }

func (n *Node) slotEmpty() bool { return n.Children == nil && n.SelectionID == "" }

type nodeJSON struct {
	Children        any         `json:"children"`
	HasInput        bool        `json:"x_has_user_input"`
	OptionID        string      `json:"option_id"`
	PriceAdjustment model.Money `json:"price_adjustment"`
	SKUExtension    *string     `json:"sku_extension"`
}

// MarshalJSON writes children as either the child object or the leaf
// selection ID. An absent SKU extension is written as null.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		HasInput:        n.HasInput,
		OptionID:        n.OptionID,
		PriceAdjustment: n.PriceAdjustment,
	}
	if n.SKUExtension != "" {
		ext := n.SKUExtension
		out.SKUExtension = &ext
	}
	switch {
	case n.IsLeaf():
		out.Children = n.SelectionID
	case n.Children != nil:
		out.Children = n.Children
	}
	return json.Marshal(out)
}

// BuildNesting folds selections into a tree. setNames maps option set IDs to
// their display names; each selection's options are visited sorted by that
// name, ties broken by option set ID and then option ID.
//
// Every node a selection passes through takes that option's metadata, so
// the last selection to touch a node wins. The slot of a node is written
// once: the first selection to end at an option claims it with its ID, and
// the first selection to continue past it claims it with a subtree. A later
// selection that must continue past a node already claimed by a leaf fails
// with ErrInternalConsistency; a later selection that ends at a node already
// holding a subtree leaves no leaf of its own.
func BuildNesting(setNames map[string]string, selections []Selection) (Tree, error) {
	root := Tree{}
	for _, sel := range selections {
		if sel.ID == "" {
			return nil, fmt.Errorf("%w: selection without an ID", ErrInvalidInput)
		}
		path, err := sortedPath(setNames, sel)
		if err != nil {
			return nil, err
		}
		level := root
		for i, opt := range path {
			node, ok := level[opt.Name]
			if !ok {
				node = &Node{}
				level[opt.Name] = node
			}
			node.HasInput = opt.HasInput
			node.OptionID = opt.ID
			node.PriceAdjustment = opt.PriceAdjustment
			node.SKUExtension = opt.SKUExtension

			if i == len(path)-1 {
				if node.slotEmpty() {
					node.SelectionID = sel.ID
				}
				break
			}
			if node.slotEmpty() {
				node.Children = Tree{}
			}
			if node.Children == nil {
				return nil, fmt.Errorf("%w: selection %q continues past option %q, which already ends selection %q",
					ErrInternalConsistency, sel.ID, opt.Name, node.SelectionID)
			}
			level = node.Children
		}
	}
	return root, nil
}

// sortedPath returns a sorted copy of the selection's options.
func sortedPath(setNames map[string]string, sel Selection) ([]model.Option, error) {
	for _, o := range sel.Options {
		if _, ok := setNames[o.OptionSetID]; !ok {
			return nil, fmt.Errorf("%w: selection %q references option %q of unknown option set %q",
				ErrInvalidInput, sel.ID, o.ID, o.OptionSetID)
		}
	}
	path := slices.Clone(sel.Options)
	slices.SortStableFunc(path, func(a, b model.Option) int {
		return cmp.Or(
			cmp.Compare(setNames[a.OptionSetID], setNames[b.OptionSetID]),
			cmp.Compare(a.OptionSetID, b.OptionSetID),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return path, nil
}

// LeafIDs returns the selection IDs stored as leaves anywhere in t.
func (t Tree) LeafIDs() []string {
	var ids []string
	var walk func(Tree)
	walk = func(level Tree) {
		for _, n := range level {
			if n.IsLeaf() {
				ids = append(ids, n.SelectionID)
				continue
			}
			walk(n.Children)
		}
	}
	walk(t)
	slices.Sort(ids)
	return ids
}
