package repository

import "philcali.me/foodrecipes/internal/data"

// SearchResultListener receives the lifecycle of every search. Methods are
// called from the goroutine that completed the request, never concurrently
// for the same search.
type SearchResultListener interface {
	OnQueryStart()
	SetRecipes(recipes []data.Recipe)
	AppendRecipes(recipes []data.Recipe)
	OnQueryExhausted()
	OnQueryDone()
}

// RecipeResultListener receives the outcome of a single recipe lookup.
type RecipeResultListener interface {
	OnRecipeLoaded(recipe data.Recipe)
	OnError(err error)
}

type nopListener struct{}

func (nopListener) OnQueryStart() {}
func (nopListener) SetRecipes([]data.Recipe) {}
func (nopListener) AppendRecipes([]data.Recipe) {}
func (nopListener) OnQueryExhausted() {}
func (nopListener) OnQueryDone() {}
func (nopListener) OnRecipeLoaded(data.Recipe) {}
func (nopListener) OnError(error) {}
