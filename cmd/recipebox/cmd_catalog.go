package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/catalog"
	"github.com/hammamikhairi/recipebox/internal/display"
	"github.com/hammamikhairi/recipebox/internal/export"
)

// filterFlags are shared by list and export.
type filterFlags struct {
	search  string
	cuisine string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "match name, ingredient or tag (case-insensitive)")
	cmd.Flags().StringVarP(&f.cuisine, "cuisine", "c", "", "exact cuisine, empty for all")
}

// loadCatalog checks the session, fetches the collection and applies ff.
func loadCatalog(cmd *cobra.Command, a *app, ff filterFlags) (*catalog.Controller, catalog.View, error) {
	console := display.NewConsole(cmd.OutOrStdout(), a.log)
	if err := requireSession(cmd, a.gate(console, console)); err != nil {
		return nil, catalog.View{}, err
	}

	ctl := a.catalog()
	if v, err := ctl.Load(cmd.Context()); err != nil {
		ctl.Close()
		return nil, v, err
	}
	return ctl, ctl.ApplyFilters(ff.search, ff.cuisine), nil
}

func newListCmd(gf *globalFlags) *cobra.Command {
	var (
		ff       filterFlags
		pages    int
		cuisines bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the filtered catalog, one page at a time",
		Long: `Print the recipe catalog. Filters work as in the interactive browser;
--pages N shows as many recipes as pressing "show more" N-1 times.

Example:
  recipebox list --search saffron --cuisine Italian`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, gf)
			if err != nil {
				return err
			}
			defer a.Close()

			ctl, v, err := loadCatalog(cmd, a, ff)
			if err != nil {
				if v.Error != "" {
					fmt.Fprintln(cmd.OutOrStdout(), display.RecipeTable(v))
				}
				return err
			}
			defer ctl.Close()

			out := cmd.OutOrStdout()
			if cuisines {
				fmt.Fprintln(out, strings.Join(v.Cuisines, "\n"))
				return nil
			}

			for i := 1; i < pages; i++ {
				v = ctl.ShowMore()
			}
			fmt.Fprintln(out, display.RecipeTable(v))
			if v.ShowMore {
				fmt.Fprintf(out, "More available: --pages %d\n", pages+1)
			}
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to show")
	cmd.Flags().BoolVar(&cuisines, "cuisines", false, "print the cuisine options instead")
	return cmd
}

func newExportCmd(gf *globalFlags) *cobra.Command {
	var (
		ff     filterFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered catalog to an .xlsx or .csv file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, gf)
			if err != nil {
				return err
			}
			defer a.Close()

			ctl, _, err := loadCatalog(cmd, a, ff)
			if err != nil {
				return err
			}
			defer ctl.Close()

			recipes := ctl.Filtered()
			if err := export.File(output, recipes); err != nil {
				return err
			}
			a.log.Info("exported %d recipes to %s", len(recipes), output)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d recipes to %s\n", len(recipes), output)
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "recipes.xlsx", "output file (.xlsx or .csv)")
	return cmd
}
