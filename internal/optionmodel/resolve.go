package optionmodel

import (
	"fmt"

	"github.com/fairyhunter13/product-option-service/internal/model"
)

// Resolved is a checked catalog snapshot ready for BuildMatrix and
// BuildNesting.
type Resolved struct {
	ProductID string
	BaseSKU   string
	// SetNames maps option set IDs to their display names.
	SetNames map[string]string
	// OptionSets keeps catalog order, with every option linked to its set.
	OptionSets []model.OptionSet
	Selections []Selection
}

// Resolve checks a catalog snapshot and prepares the inputs of BuildMatrix
// and BuildNesting.
//
// It fails with ErrInvalidInput when a required field is missing, when IDs
// repeat, when an option claims a different set than the one holding it,
// when a selection references an unknown option, or when a selection picks
// two options from the same set.
func Resolve(c model.Catalog) (Resolved, error) {
	if err := model.ValidateStruct(c); err != nil {
		return Resolved{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	setNames := make(map[string]string, len(c.OptionSets))
	options := make(map[string]model.Option)
	sets := make([]model.OptionSet, 0, len(c.OptionSets))
	for _, set := range c.OptionSets {
		set = set.Clone()
		if _, dup := setNames[set.ID]; dup {
			return Resolved{}, fmt.Errorf("%w: duplicate option set %q", ErrInvalidInput, set.ID)
		}
		setNames[set.ID] = set.Name
		for i, o := range set.Options {
			if o.OptionSetID != "" && o.OptionSetID != set.ID {
				return Resolved{}, fmt.Errorf("%w: option %q is held by set %q but claims set %q",
					ErrInvalidInput, o.ID, set.ID, o.OptionSetID)
			}
			if _, dup := options[o.ID]; dup {
				return Resolved{}, fmt.Errorf("%w: duplicate option %q", ErrInvalidInput, o.ID)
			}
			o.OptionSetID = set.ID
			set.Options[i] = o
			options[o.ID] = o
		}
		sets = append(sets, set)
	}

	seen := make(map[string]struct{}, len(c.Selections))
	selections := make([]Selection, 0, len(c.Selections))
	for _, s := range c.Selections {
		if _, dup := seen[s.ID]; dup {
			return Resolved{}, fmt.Errorf("%w: duplicate selection %q", ErrInvalidInput, s.ID)
		}
		seen[s.ID] = struct{}{}
		resolved := Selection{ID: s.ID, Options: make([]model.Option, 0, len(s.OptionIDs))}
		chosen := make(map[string]string, len(s.OptionIDs))
		for _, id := range s.OptionIDs {
			o, ok := options[id]
			if !ok {
				return Resolved{}, fmt.Errorf("%w: selection %q references unknown option %q", ErrInvalidInput, s.ID, id)
			}
			if prev, taken := chosen[o.OptionSetID]; taken {
				return Resolved{}, fmt.Errorf("%w: selection %q picks both %q and %q from option set %q",
					ErrInvalidInput, s.ID, prev, id, setNames[o.OptionSetID])
			}
			chosen[o.OptionSetID] = id
			resolved.Options = append(resolved.Options, o)
		}
		selections = append(selections, resolved)
	}
	return Resolved{
		ProductID:  c.ProductID,
		BaseSKU:    c.BaseSKU,
		SetNames:   setNames,
		OptionSets: sets,
		Selections: selections,
	}, nil
}
