package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsuji1/hep-reader-sub001/internal/convert"
	"github.com/tsuji1/hep-reader-sub001/internal/service"
)

func newImportCmd(dataPath *string) *cobra.Command {
	var pandocPath string
	var convertTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import epub or pdf files into the library",
		Long: `Import one or more ebook files into the library.

Examples:
  hepctl import book.epub
  hepctl import paper.pdf notes.epub
  hepctl import --pandoc-path /opt/pandoc/bin/pandoc book.epub`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(*dataPath)
			if err != nil {
				return err
			}
			defer env.Close()

			importer, err := newImporter(env, pandocPath, convertTimeout)
			if err != nil {
				return err
			}

			failed := 0
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					failed++
					continue
				}

				book, err := importer.Import(cmd.Context(), filepath.Base(path), data)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					failed++
					continue
				}

				fmt.Printf("%s  %s (%d pages)\n", book.ID, book.Title, book.TotalPages)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pandocPath, "pandoc-path", "", "Path to pandoc binary (default: auto-detect)")
	cmd.Flags().DurationVar(&convertTimeout, "convert-timeout", 2*time.Minute, "Document conversion timeout")

	return cmd
}

// newImporter builds an ImportService on the env's backends. A missing
// pandoc is not fatal here, pdf imports still work.
func newImporter(env *env, pandocPath string, timeout time.Duration) (*service.ImportService, error) {
	store, err := env.Store()
	if err != nil {
		return nil, err
	}
	contentStore, err := env.Content()
	if err != nil {
		return nil, err
	}
	index, err := env.Index()
	if err != nil {
		return nil, err
	}

	converter, err := convert.New(pandocPath, timeout, env.logger)
	if err != nil {
		env.logger.Warn("pandoc unavailable, epub import disabled", "error", err)
		converter = nil
	}

	return service.NewImportService(store, contentStore, converter, index, env.logger), nil
}
