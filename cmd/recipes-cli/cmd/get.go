package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"philcali.me/foodrecipes/internal/repository"
)

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Look up a single recipe with its ingredients",
		Example: `  recipes get 47746`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collector := &repository.Collector{}
			repo, err := newRepository(nil, collector)
			if err != nil {
				return err
			}
			if err := repo.SearchForRecipe(cmd.Context(), args[0]).Wait(cmd.Context()); err != nil {
				return fmt.Errorf("looking up recipe %s: %w", args[0], err)
			}
			recipe, err := collector.Recipe()
			if err != nil {
				return fmt.Errorf("looking up recipe %s: %w", args[0], err)
			}
			if jsonOutput() {
				return printJSON(recipe)
			}
			return printRecipeDetail(recipe)
		},
	}
}
