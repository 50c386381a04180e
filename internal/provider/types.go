package provider

import (
	"context"

	"philcali.me/foodrecipes/internal/data"
)

// RemoteRecipeClient is the transport to a recipe API. A returned error means
// no HTTP response was obtained; any response, whatever its status, comes
// back as a data.Response.
type RemoteRecipeClient interface {
	SearchRecipe(ctx context.Context, apiKey string, query string, page string) (*data.Response[data.RecipeSearchResponse], error)
	GetRecipe(ctx context.Context, apiKey string, recipeId string) (*data.Response[data.RecipeResponse], error)
}
