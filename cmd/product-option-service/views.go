package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fairyhunter13/product-option-service/internal/catalog"
	"github.com/fairyhunter13/product-option-service/internal/config"
	"github.com/fairyhunter13/product-option-service/internal/obs"
	"github.com/fairyhunter13/product-option-service/internal/seed"
	"github.com/fairyhunter13/product-option-service/internal/store"
	"github.com/spf13/cobra"
)

// loadViews builds a view service over the catalog file without starting
// the event pipeline.
func loadViews(path string) (*catalog.Service, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	obs.InitLogger("error")
	st := store.New()
	if _, err := seed.LoadInto(st, path); err != nil {
		return nil, err
	}
	return catalog.NewService(st, cfg.MatrixMaxCombinations), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runMatrix(cmd *cobra.Command, _ []string) error {
	views, err := loadViews(catalogPath)
	if err != nil {
		return err
	}
	m, err := views.Matrix(cmd.Context(), productID, where)
	if err != nil {
		return fmt.Errorf("%s: %w", catalog.ErrorCode(err), err)
	}
	return printJSON(cmd.OutOrStdout(), m)
}

func runNesting(cmd *cobra.Command, _ []string) error {
	views, err := loadViews(catalogPath)
	if err != nil {
		return err
	}
	tree, err := views.Nesting(cmd.Context(), productID)
	if err != nil {
		return fmt.Errorf("%s: %w", catalog.ErrorCode(err), err)
	}
	return printJSON(cmd.OutOrStdout(), tree)
}
