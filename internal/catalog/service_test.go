package catalog

import (
	"context"
	"testing"

	"github.com/fairyhunter13/product-option-service/internal/model"
	"github.com/fairyhunter13/product-option-service/internal/optionmodel"
	"github.com/fairyhunter13/product-option-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore() *store.Store {
	st := store.New()
	st.Put(model.Catalog{
		ProductID: "tee",
		BaseSKU:   "TEE",
		OptionSets: []model.OptionSet{
			{ID: "color", Name: "Color", Options: []model.Option{
				{ID: "blue", Name: "Blue", SKUExtension: "-BL", PriceAdjustment: 100},
				{ID: "red", Name: "Red", SKUExtension: "-RD"},
			}},
			{ID: "pattern", Name: "Pattern", Options: []model.Option{
				{ID: "plaid", Name: "Plaid", SKUExtension: "-PL", HasInput: true},
				{ID: "striped", Name: "Striped", SKUExtension: "-ST", PriceAdjustment: 50},
			}},
		},
		Selections: []model.Selection{
			{ID: "s1", OptionIDs: []string{"blue", "plaid"}},
			{ID: "s2", OptionIDs: []string{"striped", "blue"}},
		},
	})
	return st
}

func TestServiceMatrix(t *testing.T) {
	svc := NewService(seededStore(), 100)
	m, err := svc.Matrix(context.Background(), "tee", "")
	require.NoError(t, err)
	assert.Equal(t, 4, m.Total)
	require.Len(t, m.Combinations, 4)

	first := m.Combinations[0]
	assert.Equal(t, "TEE-BL-PL", first.SKU)
	assert.Equal(t, model.Money(100), first.PriceAdjustment)
	assert.True(t, first.RequiresInput)
	require.Len(t, first.Options, 2)
	assert.Equal(t, "Color", first.Options[0].OptionSetName)
	assert.Equal(t, "Pattern", first.Options[1].OptionSetName)

	last := m.Combinations[3]
	assert.Equal(t, "TEE-RD-ST", last.SKU)
	assert.Equal(t, model.Money(50), last.PriceAdjustment)
}

func TestServiceMatrixFilter(t *testing.T) {
	svc := NewService(seededStore(), 100)
	m, err := svc.Matrix(context.Background(), "tee", `options.Pattern == "Striped"`)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 2, m.Count)
	for _, c := range m.Combinations {
		assert.Equal(t, "Striped", c.Options[1].Name)
	}

	_, err = svc.Matrix(context.Background(), "tee", `options.Pattern ==`)
	assert.Equal(t, "invalid_filter", ErrorCode(err))
}

func TestServiceMatrixBound(t *testing.T) {
	svc := NewService(seededStore(), 3)
	_, err := svc.Matrix(context.Background(), "tee", "")
	require.ErrorIs(t, err, optionmodel.ErrMatrixTooLarge)
	assert.Equal(t, "matrix_too_large", ErrorCode(err))

	unbounded := NewService(seededStore(), 0)
	_, err = unbounded.Matrix(context.Background(), "tee", "")
	require.NoError(t, err)
}

func TestServiceNesting(t *testing.T) {
	svc := NewService(seededStore(), 100)
	tree, err := svc.Nesting(context.Background(), "tee")
	require.NoError(t, err)
	require.Contains(t, tree, "Blue")
	assert.Equal(t, "s1", tree["Blue"].Children["Plaid"].SelectionID)
	assert.Equal(t, "s2", tree["Blue"].Children["Striped"].SelectionID)
}

func TestServiceErrors(t *testing.T) {
	st := seededStore()
	svc := NewService(st, 100)

	_, err := svc.Nesting(context.Background(), "missing")
	require.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, "not_found", ErrorCode(err))

	st.Apply(model.Event{ProductID: "tee", Type: model.EventSelectionUpserted, Sequence: 1,
		Selection: &model.Selection{ID: "bad", OptionIDs: []string{"blue", "red"}}})
	_, err = svc.Nesting(context.Background(), "tee")
	require.ErrorIs(t, err, optionmodel.ErrInvalidInput)
	assert.Equal(t, "invalid_catalog", ErrorCode(err))
}

func TestServiceNestingConsistencyError(t *testing.T) {
	st := store.New()
	st.Put(model.Catalog{
		ProductID: "p",
		OptionSets: []model.OptionSet{
			{ID: "color", Name: "Color", Options: []model.Option{{ID: "blue", Name: "Blue"}}},
			{ID: "pattern", Name: "Pattern", Options: []model.Option{{ID: "plaid", Name: "Plaid"}}},
		},
		Selections: []model.Selection{
			{ID: "short", OptionIDs: []string{"blue"}},
			{ID: "long", OptionIDs: []string{"blue", "plaid"}},
		},
	})
	_, err := NewService(st, 0).Nesting(context.Background(), "p")
	require.ErrorIs(t, err, optionmodel.ErrInternalConsistency)
	assert.Equal(t, "internal_consistency", ErrorCode(err))
}
