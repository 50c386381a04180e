// Package mealdb serves recipes from TheMealDB through the same remote client
// contract as the recipe API. TheMealDB does not paginate, so search results
// are cut into pages locally.
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"philcali.me/foodrecipes/internal/data"
	"philcali.me/foodrecipes/internal/exceptions"
	"philcali.me/foodrecipes/internal/metrics"
	"philcali.me/foodrecipes/internal/provider"
)

const (
	DefaultBaseURL  = "https://themealdb.com/api/json/v1"
	DefaultPageSize = 30
)

type MealAPI struct {
	BaseURL  string
	PageSize int
	Client   *http.Client
}

var _ provider.RemoteRecipeClient = (*MealAPI)(nil)

func _apiRequest(ctx context.Context, mc *MealAPI, token string, resource string, params url.Values) (int, []byte, error) {
	endpoint := fmt.Sprintf("%s/%s/%s.php?%s", strings.TrimSuffix(mc.BaseURL, "/"), url.PathEscape(token), resource, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("creating %s request: %w", resource, err)
	}
	resp, err := mc.Client.Do(req)
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues("mealdb_"+resource, "transport_error").Inc()
		return 0, nil, fmt.Errorf("executing %s request: %w", resource, err)
	}
	defer resp.Body.Close()
	metrics.RemoteRequestsTotal.WithLabelValues("mealdb_"+resource, strconv.Itoa(resp.StatusCode)).Inc()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading %s response: %w", resource, err)
	}
	return resp.StatusCode, body, nil
}

func _queryRequest(ctx context.Context, mc *MealAPI, token string, resource string, params url.Values) (int, *QueryResponse, []byte, error) {
	statusCode, body, err := _apiRequest(ctx, mc, token, resource, params)
	if err != nil {
		return 0, nil, nil, err
	}
	if statusCode != http.StatusOK {
		return statusCode, nil, body, nil
	}
	var query QueryResponse
	if err := json.Unmarshal(body, &query); err != nil {
		return 0, nil, nil, fmt.Errorf("decoding %s response: %w: %v", resource, exceptions.ErrMalformedResponse, err)
	}
	return statusCode, &query, nil, nil
}

// SearchRecipe matches meals by name and returns the zero-based page of
// PageSize results that page selects. A page past the end is empty.
func (mc *MealAPI) SearchRecipe(ctx context.Context, apiKey string, query string, page string) (*data.Response[data.RecipeSearchResponse], error) {
	pageNumber, err := strconv.Atoi(page)
	if err != nil || pageNumber < 0 {
		return nil, exceptions.InvalidInput(fmt.Sprintf("page %q is not a page number", page))
	}
	statusCode, meals, errorBody, err := _queryRequest(ctx, mc, apiKey, "search", url.Values{"s": {query}})
	if err != nil {
		return nil, err
	}
	resp := &data.Response[data.RecipeSearchResponse]{StatusCode: statusCode, ErrorBody: errorBody}
	if meals == nil {
		return resp, nil
	}
	pageSize := mc.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	recipes := make([]data.Recipe, 0, pageSize)
	// Compare page counts before multiplying so huge pages cannot overflow.
	if pages := (len(meals.Meals) + pageSize - 1) / pageSize; pageNumber < pages {
		start := pageNumber * pageSize
		end := min(start+pageSize, len(meals.Meals))
		for i := start; i < end; i++ {
			recipes = append(recipes, ToRecipe(meals.Meals[i]))
		}
	}
	resp.Body = &data.RecipeSearchResponse{
		Count:   len(recipes),
		Recipes: recipes,
	}
	return resp, nil
}

func (mc *MealAPI) GetRecipe(ctx context.Context, apiKey string, recipeId string) (*data.Response[data.RecipeResponse], error) {
	statusCode, meals, errorBody, err := _queryRequest(ctx, mc, apiKey, "lookup", url.Values{"i": {recipeId}})
	if err != nil {
		return nil, err
	}
	resp := &data.Response[data.RecipeResponse]{StatusCode: statusCode, ErrorBody: errorBody}
	if meals == nil {
		return resp, nil
	}
	resp.Body = &data.RecipeResponse{}
	if len(meals.Meals) > 0 {
		recipe := ToRecipe(meals.Meals[0])
		resp.Body.Recipe = &recipe
	}
	return resp, nil
}
