// Package catalog serves the derived option views of a product from a
// consistent snapshot of its catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fairyhunter13/product-option-service/internal/model"
	"github.com/fairyhunter13/product-option-service/internal/obs"
	"github.com/fairyhunter13/product-option-service/internal/optionmodel"
)

// ErrProductNotFound is returned for products the source does not know.
var ErrProductNotFound = errors.New("product not found")

// Source supplies catalog snapshots. Get must return a copy that is safe to
// read without further locking.
type Source interface {
	Get(productID string) (model.Catalog, bool)
}

// Service builds option matrices and nestings on demand; nothing is cached.
type Service struct {
	src             Source
	maxCombinations int
}

// NewService returns a Service reading from src. maxCombinations bounds the
// matrix size; 0 disables the bound, matching MATRIX_MAX_COMBINATIONS.
func NewService(src Source, maxCombinations int) *Service {
	return &Service{src: src, maxCombinations: maxCombinations}
}

// OptionRef identifies one option of a combination.
type OptionRef struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	OptionSetID   string `json:"option_set_id"`
	OptionSetName string `json:"option_set_name"`
}

// Combination is one row of the option matrix with its derived SKU and price.
type Combination struct {
	Options         []OptionRef `json:"options"`
	SKU             string      `json:"sku"`
	PriceAdjustment model.Money `json:"price_adjustment"`
	RequiresInput   bool        `json:"requires_input"`
}

// Matrix is the option matrix of a product.
type Matrix struct {
	ProductID    string        `json:"product_id"`
	Total        int           `json:"total"`
	Count        int           `json:"count"`
	Combinations []Combination `json:"combinations"`
}

func (s *Service) resolve(productID string) (optionmodel.Resolved, error) {
	c, ok := s.src.Get(productID)
	if !ok {
		return optionmodel.Resolved{}, fmt.Errorf("%w: %q", ErrProductNotFound, productID)
	}
	return optionmodel.Resolve(c)
}

// Matrix returns every option combination of the product, optionally
// narrowed by a filter expression (see optionmodel.Filter). Total counts the
// combinations before filtering.
func (s *Service) Matrix(ctx context.Context, productID, where string) (m Matrix, err error) {
	start := time.Now()
	defer func() { observe(ctx, "matrix", productID, start, err) }()

	r, err := s.resolve(productID)
	if err != nil {
		return Matrix{}, err
	}
	var filter *optionmodel.Filter
	if where != "" {
		if filter, err = optionmodel.CompileFilter(where); err != nil {
			return Matrix{}, err
		}
	}
	total, err := optionmodel.Combinations(r.OptionSets)
	if err != nil {
		return Matrix{}, err
	}
	if s.maxCombinations > 0 && total > s.maxCombinations {
		return Matrix{}, fmt.Errorf("%w: %d combinations exceeds limit %d", optionmodel.ErrMatrixTooLarge, total, s.maxCombinations)
	}
	tuples := optionmodel.BuildMatrix(r.OptionSets)
	obs.MatrixSize.Observe(float64(len(tuples)))
	if filter != nil {
		if tuples, err = filter.Apply(r.SetNames, r.BaseSKU, tuples); err != nil {
			return Matrix{}, err
		}
	}
	m = Matrix{
		ProductID:    productID,
		Total:        total,
		Count:        len(tuples),
		Combinations: make([]Combination, 0, len(tuples)),
	}
	for _, t := range tuples {
		m.Combinations = append(m.Combinations, combination(r, t))
	}
	return m, nil
}

func combination(r optionmodel.Resolved, t optionmodel.Tuple) Combination {
	refs := make([]OptionRef, 0, len(t))
	for _, o := range t {
		refs = append(refs, OptionRef{
			ID:            o.ID,
			Name:          o.Name,
			OptionSetID:   o.OptionSetID,
			OptionSetName: r.SetNames[o.OptionSetID],
		})
	}
	return Combination{
		Options:         refs,
		SKU:             t.SKU(r.BaseSKU),
		PriceAdjustment: t.PriceAdjustment(),
		RequiresInput:   t.RequiresInput(),
	}
}

// Nesting returns the tree of the product's existing selections.
func (s *Service) Nesting(ctx context.Context, productID string) (tree optionmodel.Tree, err error) {
	start := time.Now()
	defer func() { observe(ctx, "nesting", productID, start, err) }()

	r, err := s.resolve(productID)
	if err != nil {
		return nil, err
	}
	return optionmodel.BuildNesting(r.SetNames, r.Selections)
}

// ErrorCode maps view errors to the snake_case codes used in API errors and
// metric labels.
func ErrorCode(err error) string {
	var fe *optionmodel.FilterError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrProductNotFound):
		return "not_found"
	case errors.As(err, &fe):
		return "invalid_filter"
	case errors.Is(err, optionmodel.ErrMatrixTooLarge):
		return "matrix_too_large"
	case errors.Is(err, optionmodel.ErrInvalidInput):
		return "invalid_catalog"
	case errors.Is(err, optionmodel.ErrInternalConsistency):
		return "internal_consistency"
	default:
		return "internal_error"
	}
}

func observe(ctx context.Context, view, productID string, start time.Time, err error) {
	code := ErrorCode(err)
	obs.ViewBuilds.WithLabelValues(view, code).Inc()
	obs.ViewDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	switch code {
	case "ok", "not_found":
	case "internal_consistency", "internal_error":
		obs.Logger.ErrorContext(ctx, view+"_failed", "product_id", productID, "error", err)
	default:
		obs.Logger.WarnContext(ctx, view+"_rejected", "product_id", productID, "reason", code, "error", err)
	}
}
