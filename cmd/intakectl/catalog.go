package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kokos-intake/internal/intake/catalog"
)

var questionsYAML bool

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the catalog questions by group",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		if questionsYAML {
			data, err := catalog.Marshal(cat)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		printCatalog(cmd.OutOrStdout(), cat)
		return nil
	},
}

var validateCatalogCmd = &cobra.Command{
	Use:   "validate-catalog <file>",
	Short: "Check a catalog YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf(
			"%s: %d questions in %d groups", args[0], cat.Len(), len(cat.Groups()))))
		return nil
	},
}

func init() {
	questionsCmd.Flags().BoolVar(&questionsYAML, "yaml", false, "print the catalog as YAML")
}

func printCatalog(w io.Writer, cat *catalog.Catalog) {
	for _, g := range cat.Groups() {
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s %s", g.Icon, g.Label)))
		for i := g.From; i <= g.To; i++ {
			q := cat.Question(i)
			fmt.Fprintf(w, "  %2d. [%s] %s%s\n", i+1, q.Input.Kind(), q.Label, flags(q))
			if q.Conditional == nil {
				continue
			}
			for _, f := range q.Conditional.FollowUps {
				fmt.Fprintf(w, "        ↳ [%s] %s\n", f.Input.Kind(), f.Label)
			}
		}
	}
}

func flags(q catalog.Question) string {
	var out []string
	if q.Required {
		out = append(out, "required")
	}
	if q.Skippable {
		out = append(out, "skippable")
	}
	if len(out) == 0 {
		return ""
	}
	return groupStyle.Render(" (" + strings.Join(out, ", ") + ")")
}
