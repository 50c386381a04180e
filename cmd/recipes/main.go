package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"philcali.me/foodrecipes/internal/backend"
	"philcali.me/foodrecipes/internal/config"
	"philcali.me/foodrecipes/internal/logger"
	"philcali.me/foodrecipes/internal/repository"
	"philcali.me/foodrecipes/internal/routes"
	"philcali.me/foodrecipes/internal/routes/filters"
	"philcali.me/foodrecipes/internal/routes/recipes"
	"philcali.me/foodrecipes/internal/token"
)

type App struct {
	Router routes.Router
}

func NewApp() App {
	cfg, err := config.FromEnv()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %s", err))
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	client, err := backend.New(cfg.RecipeAPI, "foodrecipes-lambda/1.0")
	if err != nil {
		panic(fmt.Sprintf("Failed to create recipe client: %s", err))
	}
	apiKey := cfg.RecipeAPI.APIKey
	pageSize := cfg.RecipeAPI.PageSize
	router := routes.NewRouter(log, filters.NewCorsFilter(cfg.CORS.Origins...), recipes.NewRoute(
		func(search repository.SearchResultListener, recipe repository.RecipeResultListener) *repository.RecipeRepository {
			return repository.NewRecipeRepository(client, apiKey, search, recipe,
				repository.WithLogger(log),
				repository.WithPageSize(pageSize),
			)
		},
		token.NewGCM([]byte(cfg.PageTokens.Secret)),
	))
	return App{
		Router: *router,
	}
}

func (app *App) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return app.Router.Invoke(request, ctx), nil
}

func main() {
	app := NewApp()
	lambda.Start(app.HandleRequest)
}
