package routes_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"philcali.me/foodrecipes/internal/data"
	"philcali.me/foodrecipes/internal/logger"
	"philcali.me/foodrecipes/internal/repository"
	"philcali.me/foodrecipes/internal/routes"
	"philcali.me/foodrecipes/internal/routes/filters"
	"philcali.me/foodrecipes/internal/routes/recipes"
	"philcali.me/foodrecipes/internal/token"
)

// stubClient answers with a full page for "full", a rejection for
// "forbidden", a transport failure for "broken" and a short page for
// anything else.
type stubClient struct{}

func (stubClient) SearchRecipe(_ context.Context, _ string, query string, page string) (*data.Response[data.RecipeSearchResponse], error) {
	if query == "broken" {
		return nil, errors.New("connection reset")
	}
	if query == "forbidden" {
		return &data.Response[data.RecipeSearchResponse]{StatusCode: 403, ErrorBody: []byte(`{"error": "bad key"}`)}, nil
	}
	n := 3
	if query == "full" {
		n = repository.PageSize
	}
	items := make([]data.Recipe, n)
	for i := range items {
		items[i] = data.Recipe{RecipeID: page + "-" + strconv.Itoa(i), Title: query}
	}
	return &data.Response[data.RecipeSearchResponse]{StatusCode: 200, Body: &data.RecipeSearchResponse{Count: n, Recipes: items}}, nil
}

func (stubClient) GetRecipe(_ context.Context, _ string, recipeId string) (*data.Response[data.RecipeResponse], error) {
	if recipeId == "missing" {
		return &data.Response[data.RecipeResponse]{StatusCode: 404, ErrorBody: []byte(`{"error": "not found"}`)}, nil
	}
	return &data.Response[data.RecipeResponse]{StatusCode: 200, Body: &data.RecipeResponse{Recipe: &data.Recipe{
		RecipeID:    recipeId,
		Title:       "Best Pizza Dough Ever",
		ImageURL:    "http://img/pizza.jpg",
		Ingredients: []string{"1 cup water"},
	}}}, nil
}

var tokens = token.NewGCM([]byte("test-secret"))

func newRouter() *routes.Router {
	log := logger.Discard()
	return routes.NewRouter(log, filters.NewCorsFilter(), recipes.NewRoute(func(search repository.SearchResultListener, recipe repository.RecipeResultListener) *repository.RecipeRepository {
		return repository.NewRecipeRepository(stubClient{}, "test-key", search, recipe, repository.WithLogger(log))
	}, tokens))
}

func request(method, path string, params map[string]string) events.APIGatewayV2HTTPRequest {
	event := events.APIGatewayV2HTTPRequest{
		RawPath:               path,
		QueryStringParameters: params,
	}
	event.RequestContext.HTTP.Method = method
	event.RequestContext.HTTP.Path = path
	return event
}

func TestRouter(t *testing.T) {
	router := newRouter()

	t.Run("SearchPages", func(t *testing.T) {
		resp := router.Invoke(request("GET", "/recipes", map[string]string{"q": "full"}), context.Background())
		require.Equal(t, 200, resp.StatusCode, resp.Body)

		var results data.QueryResults[recipes.Recipe]
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &results))
		assert.Len(t, results.Items, repository.PageSize)
		assert.Equal(t, "0-0", results.Items[0].Id)
		require.NotNil(t, results.NextToken)

		page, err := tokens.Unmarshal("full", *results.NextToken)
		require.NoError(t, err)
		assert.Equal(t, 1, page)

		resp = router.Invoke(request("GET", "/recipes", map[string]string{"q": "full", "nextToken": *results.NextToken}), context.Background())
		require.Equal(t, 200, resp.StatusCode, resp.Body)
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &results))
		assert.Equal(t, "1-0", results.Items[0].Id)
	})

	t.Run("SearchLastPage", func(t *testing.T) {
		next, err := tokens.Marshal("soup", 2)
		require.NoError(t, err)
		resp := router.Invoke(request("GET", "/recipes", map[string]string{"q": "soup", "nextToken": *next}), context.Background())
		require.Equal(t, 200, resp.StatusCode, resp.Body)

		var results data.QueryResults[recipes.Recipe]
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &results))
		assert.Len(t, results.Items, 3)
		assert.Equal(t, "2-0", results.Items[0].Id)
		assert.Nil(t, results.NextToken)
	})

	t.Run("SearchRejectedUpstream", func(t *testing.T) {
		resp := router.Invoke(request("GET", "/recipes", map[string]string{"q": "forbidden"}), context.Background())
		require.Equal(t, 200, resp.StatusCode, resp.Body)

		var results data.QueryResults[recipes.Recipe]
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &results))
		assert.Empty(t, results.Items)
		assert.Nil(t, results.NextToken)
	})

	t.Run("SearchTransportFailure", func(t *testing.T) {
		resp := router.Invoke(request("GET", "/recipes", map[string]string{"q": "broken"}), context.Background())
		assert.Equal(t, 502, resp.StatusCode)
	})

	t.Run("SearchValidation", func(t *testing.T) {
		resp := router.Invoke(request("GET", "/recipes", nil), context.Background())
		assert.Equal(t, 400, resp.StatusCode)
		assert.Contains(t, resp.Body, "Need a q parameter set")

		resp = router.Invoke(request("GET", "/recipes", map[string]string{"q": "x", "nextToken": "2"}), context.Background())
		assert.Equal(t, 400, resp.StatusCode)

		other, err := tokens.Marshal("soup", 1)
		require.NoError(t, err)
		resp = router.Invoke(request("GET", "/recipes", map[string]string{"q": "x", "nextToken": *other}), context.Background())
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("GetRecipe", func(t *testing.T) {
		resp := router.Invoke(request("GET", "/recipes/35120", nil), context.Background())
		require.Equal(t, 200, resp.StatusCode, resp.Body)

		var recipe recipes.Recipe
		require.NoError(t, json.Unmarshal([]byte(resp.Body), &recipe))
		assert.Equal(t, "35120", recipe.Id)
		require.NotNil(t, recipe.Thumbnail)
		assert.Equal(t, "http://img/pizza.jpg", *recipe.Thumbnail)
		assert.Nil(t, recipe.Source)
		assert.Equal(t, []string{"1 cup water"}, recipe.Ingredients)
	})

	t.Run("GetRecipeNotFound", func(t *testing.T) {
		resp := router.Invoke(request("GET", "/recipes/missing", nil), context.Background())
		assert.Equal(t, 404, resp.StatusCode)
		assert.Contains(t, resp.Body, "not found")
	})

	t.Run("UnknownRoute", func(t *testing.T) {
		resp := router.Invoke(request("GET", "/shopping", nil), context.Background())
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		resp := router.Invoke(request("DELETE", "/recipes/1", nil), context.Background())
		assert.Equal(t, 405, resp.StatusCode)
		assert.Equal(t, "GET", resp.Headers["Allow"])
	})

	t.Run("Options", func(t *testing.T) {
		resp := router.Invoke(request("OPTIONS", "/recipes", nil), context.Background())
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "*", resp.Headers["access-control-allow-origin"])
		assert.Equal(t, "GET, OPTIONS", resp.Headers["access-control-allow-methods"])
	})
}

func TestCorsFilter_Origins(t *testing.T) {
	router := routes.NewRouter(logger.Discard(), filters.NewCorsFilter("https://recipes.example.com"))
	preflight := func(origin string) events.APIGatewayV2HTTPResponse {
		event := request("OPTIONS", "/recipes", nil)
		event.Headers = map[string]string{"origin": origin}
		return router.Invoke(event, context.Background())
	}

	resp := preflight("https://recipes.example.com")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "https://recipes.example.com", resp.Headers["access-control-allow-origin"])
	assert.Equal(t, "Origin", resp.Headers["vary"])
	assert.Equal(t, "3600", resp.Headers["access-control-max-age"])

	resp = preflight("https://evil.example.com")
	assert.Equal(t, 403, resp.StatusCode)
	assert.Empty(t, resp.Headers["access-control-allow-origin"])
}

func TestCachedRoute_MatchEvent(t *testing.T) {
	route := routes.CachedRoute{
		Method:  "GET",
		Path:    "/recipes/:id/ingredients/:index",
		Matcher: &routes.CachedMatcher{Mutex: &sync.Mutex{}},
	}

	params, ok := route.MatchEvent(request("GET", "/recipes/47746/ingredients/2", nil))
	require.True(t, ok)
	assert.Equal(t, map[string]string{"id": "47746", "index": "2"}, params)

	_, ok = route.MatchEvent(request("POST", "/recipes/47746/ingredients/2", nil))
	assert.False(t, ok)

	_, ok = route.MatchEvent(request("GET", "/recipes/47746", nil))
	assert.False(t, ok)
}
