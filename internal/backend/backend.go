// Package backend turns a RecipeAPIConfig into a RemoteRecipeClient.
package backend

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
	"philcali.me/foodrecipes/internal/config"
	"philcali.me/foodrecipes/internal/mealdb"
	"philcali.me/foodrecipes/internal/provider"
	"philcali.me/foodrecipes/internal/recipeapi"
)

// New builds the client for cfg.Backend. userAgent is sent by backends that
// set one.
func New(cfg config.RecipeAPIConfig, userAgent string) (provider.RemoteRecipeClient, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	switch cfg.Backend {
	case config.BackendRecipeAPI:
		opts := []recipeapi.Option{
			recipeapi.WithBaseURL(cfg.BaseURL),
			recipeapi.WithHTTPClient(httpClient),
		}
		if userAgent != "" {
			opts = append(opts, recipeapi.WithUserAgent(userAgent))
		}
		if cfg.RateLimit.PerSecond > 0 {
			opts = append(opts, recipeapi.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)))
		}
		return recipeapi.NewClient(opts...), nil
	case config.BackendMealDB:
		return &mealdb.MealAPI{
			BaseURL:  cfg.BaseURL,
			PageSize: cfg.PageSize,
			Client:   httpClient,
		}, nil
	default:
		return nil, fmt.Errorf("unknown recipe backend %q", cfg.Backend)
	}
}
