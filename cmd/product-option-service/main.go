// Package main is the product-option-service binary: the HTTP service plus
// offline matrix and nesting commands over a catalog file.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	catalogPath string
	productID   string
	where       string

	rootCmd = &cobra.Command{
		Use:   "product-option-service",
		Short: "Builds option matrices and selection nestings for product catalogs",
		// bare invocation keeps the container entrypoint behaviour of serving
		RunE:         runServe,
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service (configured through environment variables)",
		RunE:  runServe,
	}

	matrixCmd = &cobra.Command{
		Use:   "matrix",
		Short: "Print the option matrix of a product from a catalog file",
		RunE:  runMatrix,
	}

	nestingCmd = &cobra.Command{
		Use:   "nesting",
		Short: "Print the selection nesting of a product from a catalog file",
		RunE:  runNesting,
	}
)

func init() {
	for _, c := range []*cobra.Command{matrixCmd, nestingCmd} {
		c.Flags().StringVarP(&catalogPath, "catalog", "c", "", "catalog YAML file")
		c.Flags().StringVarP(&productID, "product", "p", "", "product id")
		_ = c.MarkFlagRequired("catalog")
		_ = c.MarkFlagRequired("product")
	}
	matrixCmd.Flags().StringVarP(&where, "where", "w", "", "filter expression, e.g. 'options.Color == \"Red\"'")
	rootCmd.AddCommand(serveCmd, matrixCmd, nestingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
