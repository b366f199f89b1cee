package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
	"github.com/spf13/cobra"
)

var catalogLevel string
var catalogOutput string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Lista os critérios WCAG do catálogo em uso",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := cfg.LoadCatalog()
		if err != nil {
			return err
		}
		criteria := filterLevel(catalog.Criteria(), model.Level(strings.ToUpper(catalogLevel)))

		w := cmd.OutOrStdout()
		if strings.ToLower(catalogOutput) == "json" {
			encoded, err := json.MarshalIndent(criteria, "", "  ")
			if err != nil {
				return fmt.Errorf("gerar JSON: %w", err)
			}
			fmt.Fprintln(w, string(encoded))
			return nil
		}

		fmt.Fprintf(w, "WCAG %s: %d critérios (A %d, AA %d, AAA %d)\n", catalog.Version(), catalog.Len(),
			catalog.Count(model.LevelA), catalog.Count(model.LevelAA), catalog.Count(model.LevelAAA))
		for _, c := range criteria {
			fmt.Fprintf(w, "  %-7s %-3s %s\n", c.ID, c.Level, c.Title)
		}
		return nil
	},
}

func filterLevel(cs []wcag.Criterion, level model.Level) []wcag.Criterion {
	if level == "" {
		return cs
	}
	out := []wcag.Criterion{}
	for _, c := range cs {
		if c.Level == level {
			out = append(out, c)
		}
	}
	return out
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogLevel, "level", "l", "", "Filtra por nível (A, AA, AAA)")
	catalogCmd.Flags().StringVarP(&catalogOutput, "output", "o", "text", "Formato da saída (json, text)")
	rootCmd.AddCommand(catalogCmd)
}
