package optionmodel

import "github.com/fairyhunter13/product-option-service/internal/model"

func opt(set, id string) model.Option {
	return model.Option{ID: id, Name: id, OptionSetID: set}
}

func optionSet(id string, optionIDs ...string) model.OptionSet {
	s := model.OptionSet{ID: id, Name: id, Options: []model.Option{}}
	for _, o := range optionIDs {
		s.Options = append(s.Options, opt(id, o))
	}
	return s
}

func names(t Tuple) []string {
	out := make([]string, 0, len(t))
	for _, o := range t {
		out = append(out, o.Name)
	}
	return out
}

// shirt is a two-axis catalog: Color {Blue, Red} and Pattern {Plaid, Striped}.
func shirt() (map[string]string, map[string]model.Option) {
	setNames := map[string]string{"set-pattern": "Pattern", "set-color": "Color"}
	opts := map[string]model.Option{
		"Blue":    {ID: "o-blue", Name: "Blue", OptionSetID: "set-color", PriceAdjustment: 100, SKUExtension: "-BL"},
		"Red":     {ID: "o-red", Name: "Red", OptionSetID: "set-color", PriceAdjustment: 150, SKUExtension: "-RD"},
		"Plaid":   {ID: "o-plaid", Name: "Plaid", OptionSetID: "set-pattern", HasInput: true},
		"Striped": {ID: "o-striped", Name: "Striped", OptionSetID: "set-pattern", PriceAdjustment: -25},
	}
	return setNames, opts
}
