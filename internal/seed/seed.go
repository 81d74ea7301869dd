// Package seed loads product catalogs from YAML files.
//
// A seed file lists products with their option sets and selections:
//
//	products:
//	  - product_id: tee
//	    base_sku: TEE
//	    option_sets:
//	      - id: color
//	        name: Color
//	        options:
//	          - {id: blue, name: Blue, price_adjustment: "1.00", sku_extension: -BL}
//	    selections:
//	      - {id: s1, option_ids: [blue]}
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fairyhunter13/product-option-service/internal/model"
	"gopkg.in/yaml.v3"
)

// File is the document layout of a seed file.
type File struct {
	Products []model.Catalog `yaml:"products"`
}

// Decode reads a seed document from r. Unknown keys are rejected, and
// options without an option_set_id are linked to the set holding them.
func Decode(r io.Reader) ([]model.Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Products))
	for i := range f.Products {
		c := &f.Products[i]
		if err := model.ValidateStruct(c); err != nil {
			return nil, fmt.Errorf("seed product %d: %w", i, err)
		}
		if _, dup := seen[c.ProductID]; dup {
			return nil, fmt.Errorf("seed product %d: duplicate product_id %q", i, c.ProductID)
		}
		seen[c.ProductID] = struct{}{}
		for j := range c.OptionSets {
			set := &c.OptionSets[j]
			for k := range set.Options {
				if set.Options[k].OptionSetID == "" {
					set.Options[k].OptionSetID = set.ID
				}
			}
		}
	}
	return f.Products, nil
}

// LoadFile reads and decodes the seed file at path.
func LoadFile(path string) ([]model.Catalog, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}

// Putter receives decoded catalogs.
type Putter interface {
	Put(c model.Catalog)
}

// LoadInto decodes the seed file at path and stores every product in dst.
// It returns the number of products loaded.
func LoadInto(dst Putter, path string) (int, error) {
	catalogs, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	for _, c := range catalogs {
		dst.Put(c)
	}
	return len(catalogs), nil
}
