package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsuji1/hep-reader-sub001/internal/search"
)

func newSearchCmd(dataPath *string) *cobra.Command {
	var bookID string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed page text",
		Long: `Run a full-text query against the page index.

Examples:
  hepctl search "quantum chromodynamics"
  hepctl search --book book-V1StGXR8_Z5jdHi6B-myT neutrino`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(*dataPath)
			if err != nil {
				return err
			}
			defer env.Close()

			index, err := env.Index()
			if err != nil {
				return err
			}

			result, err := index.Search(cmd.Context(), search.Params{
				Query:  strings.Join(args, " "),
				BookID: bookID,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if result.Total == 0 {
				fmt.Println("No matches.")
				return nil
			}

			fmt.Printf("%d matches (%dms)\n\n", result.Total, result.TookMs)
			for _, hit := range result.Hits {
				fmt.Printf("%s p.%d  %s\n", hit.BookID, hit.Page, hit.BookTitle)
				for _, fragment := range hit.Fragments {
					fmt.Printf("    %s\n", fragment)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bookID, "book", "", "Restrict the search to one book")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of hits")

	return cmd
}
