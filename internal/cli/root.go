// Package cli implements the hepctl command line tool for operating on a
// HepReader data directory without going through the HTTP API.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for hepctl.
func NewRootCmd() *cobra.Command {
	var dataPath string

	root := &cobra.Command{
		Use:   "hepctl",
		Short: "Manage a HepReader library from the command line",
		Long: `hepctl operates directly on a HepReader data directory.

It covers the maintenance tasks that are awkward over HTTP:
- Import epub and pdf files in bulk
- Save web articles as books
- List the catalog
- Search indexed pages

Stop the server before running commands that write, the search
index only allows one writer at a time.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&dataPath, "data-path", "", "Data directory (default: $DATA_PATH or ~/HepReader/data)")

	root.AddCommand(newImportCmd(&dataPath))
	root.AddCommand(newSaveURLCmd(&dataPath))
	root.AddCommand(newListCmd(&dataPath))
	root.AddCommand(newSearchCmd(&dataPath))

	return root
}
