// recipebox is a terminal client for the DummyJSON recipe catalog.
//
// Usage:
//
//	recipebox [browse]            interactive login + catalog
//	recipebox login -u emilys     sign in without the UI
//	recipebox list --search rice  print the filtered catalog
//	recipebox export -o out.xlsx  write the filtered catalog to a file
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every command. Values
// only override the loaded configuration when the flag was set.
type globalFlags struct {
	configPath  string
	verbose     bool
	quiet       bool
	logFile     string
	apiURL      string
	recipesFile string
	authMode    string
	storage     string
	storagePath string
}

func newRootCmd() *cobra.Command {
	var gf globalFlags

	root := &cobra.Command{
		Use:   "recipebox",
		Short: "Browse the DummyJSON recipe catalog from the terminal",
		Long: `recipebox signs you in against the DummyJSON demo API, keeps a small
session record on disk and lets you search, filter and page through the
recipe catalog.

Run without arguments to start the interactive browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, &gf)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&gf.configPath, "config", "", "config file (default ./recipebox.yaml if present)")
	pf.BoolVar(&gf.verbose, "verbose", false, "enable verbose/debug logging")
	pf.BoolVar(&gf.quiet, "quiet", false, "disable all logging")
	pf.StringVar(&gf.logFile, "log-file", "", `file to write logs to (use "stderr" to log to console)`)
	pf.StringVar(&gf.apiURL, "api-url", "", "DummyJSON base URL")
	pf.StringVar(&gf.recipesFile, "recipes-file", "", "serve recipes from a local /recipes JSON dump")
	pf.StringVar(&gf.authMode, "auth-mode", "", "login (POST /auth/login) or lookup (match /users by name)")
	pf.StringVar(&gf.storage, "storage", "", "session storage backend: file, sqlite or memory")
	pf.StringVar(&gf.storagePath, "storage-path", "", "session storage location")

	root.AddCommand(
		newBrowseCmd(&gf),
		newListCmd(&gf),
		newLoginCmd(&gf),
		newLogoutCmd(&gf),
		newWhoamiCmd(&gf),
		newExportCmd(&gf),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
