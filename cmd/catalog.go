package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrisdamba/greengrocer/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [category]",
	Short: "Print the produce catalog as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := ""
		if len(args) == 1 {
			category = args[0]
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog.FromConfig(cfg.Catalog).List(category))
	},
}
