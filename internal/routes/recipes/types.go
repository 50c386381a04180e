package recipes

import (
	"philcali.me/foodrecipes/internal/data"
)

type Recipe struct {
	Id          string   `json:"recipeId"`
	Title       string   `json:"title"`
	Publisher   string   `json:"publisher"`
	Thumbnail   *string  `json:"thumbnail"`
	Source      *string  `json:"source"`
	SocialRank  float32  `json:"socialRank"`
	Ingredients []string `json:"ingredients"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func NewRecipe(recipe data.Recipe) Recipe {
	ingredients := recipe.Ingredients
	if ingredients == nil {
		ingredients = make([]string, 0)
	}
	return Recipe{
		Id:          recipe.RecipeID,
		Title:       recipe.Title,
		Publisher:   recipe.Publisher,
		Thumbnail:   optional(recipe.ImageURL),
		Source:      optional(recipe.SourceURL),
		SocialRank:  recipe.SocialRank,
		Ingredients: ingredients,
	}
}

// SearchPage holds the recipes of one page. NextToken is nil once the search
// is exhausted.
type SearchPage struct {
	Recipes   []data.Recipe
	NextToken *string
}

func NewQueryResults(page SearchPage) data.QueryResults[Recipe] {
	items := make([]Recipe, len(page.Recipes))
	for i, recipe := range page.Recipes {
		items[i] = NewRecipe(recipe)
	}
	return data.QueryResults[Recipe]{
		Items:     items,
		NextToken: page.NextToken,
	}
}
