package optionmodel

import (
	"fmt"
	"math"

	"github.com/fairyhunter13/product-option-service/internal/model"
)

// Tuple is one combination of options: one option per option set, in the
// order the sets were given.
type Tuple []model.Option

// BuildMatrix returns every combination that picks exactly one option from
// each set. The first set varies slowest: for [A1,A2] and [B1,B2] the result
// is (A1,B1),(A1,B2),(A2,B1),(A2,B2).
//
// An empty sets slice, or any set without options, yields an empty matrix.
func BuildMatrix(sets []model.OptionSet) []Tuple {
	if len(sets) == 0 {
		return []Tuple{}
	}
	for _, set := range sets {
		if len(set.Options) == 0 {
			return []Tuple{}
		}
	}
	return expand(sets)
}

// expand fixes each option of sets[0] and appends every combination of the
// remaining sets after it.
func expand(sets []model.OptionSet) []Tuple {
	head := sets[0].Options
	if len(sets) == 1 {
		out := make([]Tuple, 0, len(head))
		for _, o := range head {
			out = append(out, Tuple{o})
		}
		return out
	}
	rest := expand(sets[1:])
	out := make([]Tuple, 0, len(head)*len(rest))
	for _, o := range head {
		for _, tail := range rest {
			t := make(Tuple, 0, len(tail)+1)
			t = append(t, o)
			t = append(t, tail...)
			out = append(out, t)
		}
	}
	return out
}

// Combinations returns len(BuildMatrix(sets)) without building the matrix.
func Combinations(sets []model.OptionSet) (int, error) {
	if len(sets) == 0 {
		return 0, nil
	}
	n := 1
	for _, set := range sets {
		k := len(set.Options)
		if k == 0 {
			return 0, nil
		}
		if n > math.MaxInt/k {
			return 0, fmt.Errorf("%w: combination count overflows at option set %q", ErrMatrixTooLarge, set.Name)
		}
		n *= k
	}
	return n, nil
}

// SKU joins base with the SKU extension of each option in t.
func (t Tuple) SKU(base string) string {
	sku := base
	for _, o := range t {
		sku += o.SKUExtension
	}
	return sku
}

// PriceAdjustment sums the price adjustments of t.
func (t Tuple) PriceAdjustment() model.Money {
	var sum model.Money
	for _, o := range t {
		sum += o.PriceAdjustment
	}
	return sum
}

// RequiresInput reports whether any option in t needs free-text input.
func (t Tuple) RequiresInput() bool {
	for _, o := range t {
		if o.HasInput {
			return true
		}
	}
	return false
}
