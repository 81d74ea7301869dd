// Package model defines domain types used by the service.
package model

// Option is one discrete value of an OptionSet, e.g. "Blue" in "Color".
type Option struct {
	ID              string `json:"id" yaml:"id" validate:"required"`
	Name            string `json:"name" yaml:"name" validate:"required"`
	OptionSetID     string `json:"option_set_id" yaml:"option_set_id"`
	HasInput        bool   `json:"has_input" yaml:"has_input"`
	PriceAdjustment Money  `json:"price_adjustment" yaml:"price_adjustment"`
	SKUExtension    string `json:"sku_extension,omitempty" yaml:"sku_extension,omitempty"`
}

// OptionSet is a named axis of product configuration with ordered options.
type OptionSet struct {
	ID      string   `json:"id" yaml:"id" validate:"required"`
	Name    string   `json:"name" yaml:"name" validate:"required"`
	Options []Option `json:"options" yaml:"options" validate:"dive"`
}

// Selection is a concrete, possibly partial, choice of options that was
// sold or made orderable. OptionIDs is treated as an unordered set.
type Selection struct {
	ID        string   `json:"id" yaml:"id" validate:"required"`
	OptionIDs []string `json:"option_ids" yaml:"option_ids" validate:"dive,required"`
}

// Catalog is the option state of a single product.
type Catalog struct {
	ProductID  string      `json:"product_id" yaml:"product_id" validate:"required"`
	Name       string      `json:"name,omitempty" yaml:"name,omitempty"`
	BaseSKU    string      `json:"base_sku,omitempty" yaml:"base_sku,omitempty"`
	OptionSets []OptionSet `json:"option_sets" yaml:"option_sets" validate:"dive"`
	Selections []Selection `json:"selections" yaml:"selections" validate:"dive"`
}

// Clone returns a deep copy of c.
func (c Catalog) Clone() Catalog {
	out := c
	out.OptionSets = make([]OptionSet, len(c.OptionSets))
	for i, set := range c.OptionSets {
		out.OptionSets[i] = set.Clone()
	}
	out.Selections = make([]Selection, len(c.Selections))
	for i, sel := range c.Selections {
		out.Selections[i] = sel.Clone()
	}
	return out
}

// Clone returns a deep copy of s.
func (s OptionSet) Clone() OptionSet {
	out := s
	out.Options = append([]Option(nil), s.Options...)
	return out
}

// Clone returns a deep copy of s.
func (s Selection) Clone() Selection {
	out := s
	out.OptionIDs = append([]string(nil), s.OptionIDs...)
	return out
}
