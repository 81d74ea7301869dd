package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventEnsureDefaultsAssignsIDs(t *testing.T) {
	ev := Event{
		ProductID: "p1",
		Type:      EventOptionSetUpserted,
		OptionSet: &OptionSet{Name: "Color", Options: []Option{{Name: "Blue"}, {ID: "red", Name: "Red"}}},
	}
	ev.EnsureDefaults()
	require.NotEmpty(t, ev.OptionSet.ID)
	require.NotEmpty(t, ev.OptionSet.Options[0].ID)
	assert.Equal(t, "red", ev.OptionSet.Options[1].ID)
	for _, o := range ev.OptionSet.Options {
		assert.Equal(t, ev.OptionSet.ID, o.OptionSetID)
	}
	require.NoError(t, ev.Validate())
}

func TestEventValidate(t *testing.T) {
	cases := []struct {
		name string
		ev   Event
		ok   bool
	}{
		{"product", Event{ProductID: "p", Type: EventProduct, Name: "Shirt"}, true},
		{"missing_product_id", Event{Type: EventProduct}, false},
		{"unknown_type", Event{ProductID: "p", Type: "bogus"}, false},
		{"option_set_missing_payload", Event{ProductID: "p", Type: EventOptionSetUpserted}, false},
		{"option_set_missing_name", Event{ProductID: "p", Type: EventOptionSetUpserted, OptionSet: &OptionSet{ID: "s"}}, false},
		{"option_set_removed_missing_id", Event{ProductID: "p", Type: EventOptionSetRemoved}, false},
		{"option_set_removed", Event{ProductID: "p", Type: EventOptionSetRemoved, OptionSetID: "s"}, true},
		{"selection_missing_payload", Event{ProductID: "p", Type: EventSelectionUpserted}, false},
		{"selection_blank_option", Event{ProductID: "p", Type: EventSelectionUpserted, Selection: &Selection{ID: "x", OptionIDs: []string{""}}}, false},
		{"selection", Event{ProductID: "p", Type: EventSelectionUpserted, Selection: &Selection{ID: "x", OptionIDs: []string{"a"}}}, true},
		{"selection_removed_missing_id", Event{ProductID: "p", Type: EventSelectionRemoved}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.ev.Validate()
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidEvent)
		})
	}
}

func TestCatalogCloneIsDeep(t *testing.T) {
	c := Catalog{
		ProductID:  "p",
		OptionSets: []OptionSet{{ID: "s", Name: "Color", Options: []Option{{ID: "o", Name: "Blue"}}}},
		Selections: []Selection{{ID: "x", OptionIDs: []string{"o"}}},
	}
	cp := c.Clone()
	cp.OptionSets[0].Options[0].Name = "Red"
	cp.Selections[0].OptionIDs[0] = "z"
	assert.Equal(t, "Blue", c.OptionSets[0].Options[0].Name)
	assert.Equal(t, "o", c.Selections[0].OptionIDs[0])
}
