package repository

import (
	"sync"

	"philcali.me/foodrecipes/internal/data"
)

// Collector is a listener for both search and lookup results that simply
// accumulates them. Pair it with Request.Done to use the repository
// synchronously.
type Collector struct {
	mu        sync.Mutex
	recipes   []data.Recipe
	recipe    *data.Recipe
	err       error
	exhausted bool
	queries   int
}

var (
	_ SearchResultListener = (*Collector)(nil)
	_ RecipeResultListener = (*Collector)(nil)
)

func (c *Collector) OnQueryStart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exhausted = false
}

func (c *Collector) SetRecipes(recipes []data.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recipes = append(make([]data.Recipe, 0, len(recipes)), recipes...)
}

func (c *Collector) AppendRecipes(recipes []data.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recipes = append(c.recipes, recipes...)
}

func (c *Collector) OnQueryExhausted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exhausted = true
}

func (c *Collector) OnQueryDone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries++
}

func (c *Collector) OnRecipeLoaded(recipe data.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recipe = &recipe
	c.err = nil
}

func (c *Collector) OnError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recipe = nil
	c.err = err
}

func (c *Collector) Recipes() []data.Recipe {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]data.Recipe(nil), c.recipes...)
}

// Exhausted reports whether the latest search signalled its last page.
func (c *Collector) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exhausted
}

// QueriesDone counts OnQueryDone notifications.
func (c *Collector) QueriesDone() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queries
}

// Recipe returns the last looked up recipe or the error that replaced it.
func (c *Collector) Recipe() (*data.Recipe, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recipe, c.err
}
