package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"philcali.me/foodrecipes/internal/repository"
)

func searchCmd() *cobra.Command {
	var maxPages int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search recipes, following pages until the results run out",
		Example: `  recipes search "chicken curry"
  recipes search pizza --pages 3 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collector := &repository.Collector{}
			repo, err := newRepository(collector, nil)
			if err != nil {
				return err
			}
			if _, err := walkPages(cmd.Context(), repo, collector, args[0], maxPages); err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(collector.Recipes())
			}
			return printRecipeTable(collector.Recipes())
		},
	}
	cmd.Flags().IntVar(&maxPages, "pages", 1, "maximum number of pages to fetch, 0 for all")

	return cmd
}

// walkPages issues page 0 of query, then keeps asking for the next page
// until the search is exhausted or maxPages pages were fetched. It returns
// the number of pages requested.
func walkPages(ctx context.Context, repo *repository.RecipeRepository, collector *repository.Collector, query string, maxPages int) (int, error) {
	req := repo.Search(ctx, query, 0)
	pages, seen := 1, 0
	for {
		err := req.Wait(ctx)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			repo.Cancel()
			return pages, fmt.Errorf("searching %q: %w", query, err)
		}
		if collector.Exhausted() {
			return pages, nil
		}
		// A page that is neither short nor adds anything failed upstream.
		count := len(collector.Recipes())
		if count == seen {
			return pages, fmt.Errorf("searching %q: page %d returned no recipes", query, repo.PageNumber())
		}
		if maxPages > 0 && pages >= maxPages {
			return pages, nil
		}
		seen = count
		req = repo.SearchNextPage(ctx)
		pages++
	}
}
