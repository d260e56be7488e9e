package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/display"
	"github.com/hammamikhairi/recipebox/internal/domain"
)

func newBrowseCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Start the interactive login and catalog screens (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, gf)
		},
	}
}

func runBrowse(cmd *cobra.Command, gf *globalFlags) error {
	a, err := newApp(cmd, gf)
	if err != nil {
		return err
	}
	defer a.Close()

	ui := display.NewUI(a.log, display.WithProgramOptions(
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	))
	g := a.gate(ui, ui)
	ctl := a.catalog()
	defer ctl.Close()

	a.log.Info("starting interactive browser")
	// The catalog guard sends the user to the login screen when needed.
	return ui.Run(cmd.Context(), display.Deps{
		Gate:       g,
		Catalog:    ctl,
		Invalidate: a.recipes.Invalidate,
	}, domain.PageCatalog)
}
