package data

type Recipe struct {
	RecipeID    string   `json:"recipe_id"`
	Title       string   `json:"title"`
	Publisher   string   `json:"publisher"`
	ImageURL    string   `json:"image_url"`
	SourceURL   string   `json:"source_url"`
	SocialRank  float32  `json:"social_rank"`
	Ingredients []string `json:"ingredients"`
}

type RecipeSearchResponse struct {
	Count   int      `json:"count"`
	Recipes []Recipe `json:"recipes"`
}

type RecipeResponse struct {
	Recipe *Recipe `json:"recipe"`
}

// ErrorPayload is the body the recipe API sends alongside a non-200 status.
type ErrorPayload struct {
	Error string `json:"error"`
}
