package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pders01/narou/internal/render"
	"github.com/pders01/narou/internal/search"
)

var (
	searchLimit int
	searchScan  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over archived blog and novel entries",
	Long: `Search the entries of every archived blog and novel catalog.
Titles weigh more than summaries. Japanese text is matched by bigram.
Use --scan to search the archive directly when the index is unavailable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		return withArchiveMaybeIndexed(!searchScan, func(a *archive) error {
			var searcher search.Searcher = search.NewEngine(a.store)
			if a.index != nil {
				searcher = a.index
			}

			results, err := searcher.Search(query, searchLimit)
			if err != nil {
				return fmt.Errorf("searching %q: %w", query, err)
			}
			if opts.json {
				return render.JSON(cmd.OutOrStdout(), results)
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.SearchResults(results, theme()))
			return nil
		})
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results, 0 for all")
	searchCmd.Flags().BoolVar(&searchScan, "scan", false, "scan the archive instead of using the index")
	rootCmd.AddCommand(searchCmd)
}

func withArchiveMaybeIndexed(indexed bool, fn func(*archive) error) error {
	if indexed {
		return withArchive(fn)
	}
	return withArchiveStore(fn)
}
