package recipes

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/foodrecipes/internal/exceptions"
	"philcali.me/foodrecipes/internal/repository"
	"philcali.me/foodrecipes/internal/routes"
	"philcali.me/foodrecipes/internal/routes/util"
	"philcali.me/foodrecipes/internal/token"
)

// RepositoryFactory builds a repository bound to the given listeners. Every
// request gets its own repository so results never cross requests.
type RepositoryFactory func(search repository.SearchResultListener, recipe repository.RecipeResultListener) *repository.RecipeRepository

type RecipeService struct {
	newRepository RepositoryFactory
	tokens        token.PageMarshaler
}

func NewRoute(factory RepositoryFactory, tokens token.PageMarshaler) routes.Service {
	return &RecipeService{
		newRepository: factory,
		tokens:        tokens,
	}
}

func (rs *RecipeService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/recipes":     rs.SearchRecipes,
		"GET:/recipes/:id": rs.GetRecipe,
	}
}

func (rs *RecipeService) SearchRecipes(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	query, ok := event.QueryStringParameters["q"]
	if !ok {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Need a q parameter set")
	}
	var page int
	if nextToken, ok := event.QueryStringParameters["nextToken"]; ok {
		var err error
		if page, err = rs.tokens.Unmarshal(query, nextToken); err != nil {
			return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("nextToken parameter is not valid for this query.")
		}
	}
	collector := &repository.Collector{}
	repo := rs.newRepository(collector, nil)
	if err := repo.Search(ctx, query, page).Wait(ctx); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	result := SearchPage{Recipes: collector.Recipes()}
	if len(result.Recipes) == 0 && !collector.Exhausted() {
		return events.APIGatewayV2HTTPResponse{}, exceptions.Remote(502, "search returned no recipes")
	}
	if !collector.Exhausted() {
		next, err := rs.tokens.Marshal(query, page+1)
		if err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}
		result.NextToken = next
	}
	return util.JSONResponse(200, NewQueryResults(result))
}

func (rs *RecipeService) GetRecipe(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	collector := &repository.Collector{}
	repo := rs.newRepository(nil, collector)
	if err := repo.SearchForRecipe(ctx, util.RequestParam(ctx, "id")).Wait(ctx); err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	recipe, err := collector.Recipe()
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return util.JSONResponse(200, NewRecipe(*recipe))
}
