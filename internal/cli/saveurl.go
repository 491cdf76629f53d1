package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsuji1/hep-reader-sub001/internal/extract"
	"github.com/tsuji1/hep-reader-sub001/internal/service"
)

func newSaveURLCmd(dataPath *string) *cobra.Command {
	var pageTimeout time.Duration
	var minSectionText int

	cmd := &cobra.Command{
		Use:   "save-url <url>",
		Short: "Save a web article as a book",
		Long: `Fetch a web page, extract its article content, and save it as a
paginated book with downloaded images.

Examples:
  hepctl save-url https://example.com/essay
  hepctl save-url --page-timeout 60s https://slow.example.com/post`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(*dataPath)
			if err != nil {
				return err
			}
			defer env.Close()

			store, err := env.Store()
			if err != nil {
				return err
			}
			contentStore, err := env.Content()
			if err != nil {
				return err
			}
			index, err := env.Index()
			if err != nil {
				return err
			}

			fetcher := extract.NewFetcher(extract.FetcherOptions{
				PageTimeout: pageTimeout,
			}, env.logger)
			extractor := extract.NewExtractor(fetcher, minSectionText, env.logger)
			articles := service.NewArticleService(store, contentStore, extractor, fetcher, index, env.logger)

			book, err := articles.SaveURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s  %s (%d pages)\n", book.ID, book.Title, book.TotalPages)
			return nil
		},
	}

	cmd.Flags().DurationVar(&pageTimeout, "page-timeout", 30*time.Second, "Whole-page fetch timeout")
	cmd.Flags().IntVar(&minSectionText, "min-section-text", 21, "Minimum stripped text length to keep a split section")

	return cmd
}
