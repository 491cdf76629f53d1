package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(dataPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in the library",
		Args:  cobra.NoArgs,
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

			books, err := store.ListBooks(cmd.Context())
			if err != nil {
				return err
			}

			if len(books) == 0 {
				fmt.Println("No books in library.")
				fmt.Println("Use 'hepctl import <file>' or 'hepctl save-url <url>' to add some.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tPAGES\tLANG\tTITLE")
			for _, b := range books {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", b.ID, b.Type, b.TotalPages, b.Language, b.Title)
			}
			return w.Flush()
		},
	}

	return cmd
}
