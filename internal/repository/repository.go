// Package repository is the data-access layer between the recipe UI and a
// remote recipe API. It tracks pagination for the current search, decides
// when a search has run out of pages, and forwards results to listeners.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"philcali.me/foodrecipes/internal/data"
	"philcali.me/foodrecipes/internal/exceptions"
	"philcali.me/foodrecipes/internal/metrics"
	"philcali.me/foodrecipes/internal/provider"
)

// PageSize is the number of recipes the API returns on every page but the
// last. A shorter page means the search is exhausted.
const PageSize = 30

type RecipeRepository struct {
	client   provider.RemoteRecipeClient
	apiKey   string
	search   SearchResultListener
	recipe   RecipeResultListener
	logger   *slog.Logger
	pageSize int
	newID    func() string

	mu         sync.Mutex
	query      string
	pageNumber int
	sequence   uint64
	inFlight   *Request
}

type Option func(*RecipeRepository)

func WithLogger(l *slog.Logger) Option {
	return func(r *RecipeRepository) {
		r.logger = l
	}
}

// WithPageSize overrides the exhaustion threshold.
func WithPageSize(size int) Option {
	return func(r *RecipeRepository) {
		r.pageSize = size
	}
}

// WithRequestIDs overrides how request handles are named in logs.
func WithRequestIDs(newID func() string) Option {
	return func(r *RecipeRepository) {
		r.newID = newID
	}
}

// NewRecipeRepository wires a repository to its transport and listeners.
// Either listener may be nil when the caller never uses that side.
func NewRecipeRepository(
	client provider.RemoteRecipeClient,
	apiKey string,
	search SearchResultListener,
	recipe RecipeResultListener,
	opts ...Option,
) *RecipeRepository {
	r := &RecipeRepository{
		client:   client,
		apiKey:   apiKey,
		search:   search,
		recipe:   recipe,
		logger:   slog.Default(),
		pageSize: PageSize,
		newID:    uuid.NewString,
	}
	if r.search == nil {
		r.search = nopListener{}
	}
	if r.recipe == nil {
		r.recipe = nopListener{}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RecipeRepository) Query() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.query
}

func (r *RecipeRepository) PageNumber() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pageNumber
}

// Search records query and pageNumber as the current search and issues the
// remote call. Page 0 replaces the listener's results, later pages append.
// A search still running from an earlier call is superseded: its completion
// is discarded without notifying the listener.
func (r *RecipeRepository) Search(ctx context.Context, query string, pageNumber int) *Request {
	r.mu.Lock()
	r.query = query
	r.pageNumber = pageNumber
	r.mu.Unlock()

	r.search.OnQueryStart()

	r.mu.Lock()
	r.sequence++
	req := newRequest(ctx, r.newID(), r.sequence)
	if r.inFlight != nil {
		r.logger.Debug("superseding search", "request_id", r.inFlight.id)
	}
	r.inFlight = req
	r.mu.Unlock()

	metrics.SearchesTotal.Inc()
	r.logger.Debug("search issued", "request_id", req.id, "query", query, "page", pageNumber)
	go r.runSearch(req, query, pageNumber)
	return req
}

// SearchNextPage repeats the current query one page further.
func (r *RecipeRepository) SearchNextPage(ctx context.Context) *Request {
	r.mu.Lock()
	query, pageNumber := r.query, r.pageNumber
	r.mu.Unlock()
	return r.Search(ctx, query, pageNumber+1)
}

// Cancel aborts the current search and reports it done. Without a search in
// flight it does nothing.
func (r *RecipeRepository) Cancel() {
	r.mu.Lock()
	req := r.inFlight
	if req == nil {
		r.mu.Unlock()
		return
	}
	req.retired = true
	r.inFlight = nil
	r.sequence++
	r.mu.Unlock()

	req.cancel()
	r.logger.Debug("search cancelled", "request_id", req.id)
	r.search.OnQueryDone()
}

// SearchForRecipe loads one recipe. It does not touch the search state and
// cannot be cancelled through Cancel.
func (r *RecipeRepository) SearchForRecipe(ctx context.Context, recipeId string) *Request {
	req := newRequest(ctx, r.newID(), 0)
	r.logger.Debug("recipe lookup issued", "request_id", req.id, "recipe_id", recipeId)
	go func() {
		defer close(req.done)
		defer req.cancel()
		resp, err := r.client.GetRecipe(req.ctx, r.apiKey, recipeId)
		r.deliverRecipe(req, recipeId, resp, err)
	}()
	return req
}

func (r *RecipeRepository) runSearch(req *Request, query string, pageNumber int) {
	defer close(req.done)
	defer req.cancel()
	resp, err := r.client.SearchRecipe(req.ctx, r.apiKey, query, strconv.Itoa(pageNumber))
	if !r.claim(req) {
		return
	}
	if err != nil {
		r.logger.Warn("search failed", "request_id", req.id, "query", query, "page", pageNumber, "err", err)
		r.search.OnQueryDone()
		return
	}
	r.deliverSearch(req, pageNumber, resp)
}

// claim reports whether req is still the current search and, if so, clears
// it as the in-flight handle.
func (r *RecipeRepository) claim(req *Request) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.sequence != r.sequence {
		reason := "superseded"
		if req.retired {
			reason = "cancelled"
		}
		metrics.SearchesDroppedTotal.WithLabelValues(reason).Inc()
		r.logger.Debug("discarding search result", "request_id", req.id, "reason", reason)
		return false
	}
	if r.inFlight == req {
		r.inFlight = nil
	}
	return true
}

func (r *RecipeRepository) deliverSearch(req *Request, pageNumber int, resp *data.Response[data.RecipeSearchResponse]) {
	if !resp.OK() {
		message, err := parseErrorBody(resp.ErrorBody)
		if err != nil {
			r.logger.Warn("search rejected", "request_id", req.id, "status", resp.StatusCode, "err", err)
		} else {
			r.logger.Warn("search rejected", "request_id", req.id, "status", resp.StatusCode, "message", message)
		}
		r.exhausted()
	}

	if resp.Body == nil || resp.Body.Recipes == nil {
		r.logger.Error("search response has no recipes", "request_id", req.id, "status", resp.StatusCode)
	} else {
		recipes := resp.Body.Recipes
		if pageNumber == 0 {
			r.search.SetRecipes(recipes)
		} else {
			r.search.AppendRecipes(slices.Clone(recipes))
		}
		if len(recipes) < r.pageSize {
			r.exhausted()
		}
		r.logger.Debug("search page loaded", "request_id", req.id, "page", pageNumber, "recipes", len(recipes))
	}

	r.search.OnQueryDone()
}

func (r *RecipeRepository) exhausted() {
	metrics.SearchesExhaustedTotal.Inc()
	r.search.OnQueryExhausted()
}

func (r *RecipeRepository) deliverRecipe(req *Request, recipeId string, resp *data.Response[data.RecipeResponse], err error) {
	if err != nil {
		r.logger.Warn("recipe lookup failed", "request_id", req.id, "recipe_id", recipeId, "err", err)
		r.recipeError(err)
		return
	}
	if !resp.OK() {
		message, perr := parseErrorBody(resp.ErrorBody)
		if perr != nil {
			r.logger.Warn("recipe lookup rejected", "request_id", req.id, "status", resp.StatusCode, "err", perr)
			r.recipeError(fmt.Errorf("%w: %w", exceptions.Remote(resp.StatusCode, ""), exceptions.ErrMalformedResponse))
			return
		}
		r.logger.Warn("recipe lookup rejected", "request_id", req.id, "status", resp.StatusCode, "message", message)
		r.recipeError(exceptions.Remote(resp.StatusCode, message))
		return
	}
	if resp.Body == nil || resp.Body.Recipe == nil {
		r.logger.Error("recipe response has no recipe", "request_id", req.id, "recipe_id", recipeId)
		r.recipeError(exceptions.ErrMissingRecipe)
		return
	}
	metrics.RecipeLookupsTotal.WithLabelValues("loaded").Inc()
	r.recipe.OnRecipeLoaded(*resp.Body.Recipe)
}

func (r *RecipeRepository) recipeError(err error) {
	metrics.RecipeLookupsTotal.WithLabelValues("error").Inc()
	r.recipe.OnError(err)
}

func parseErrorBody(body []byte) (string, error) {
	if len(body) == 0 {
		return "", errors.New("empty error body")
	}
	var payload data.ErrorPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("parsing error body: %w", err)
	}
	return payload.Error, nil
}
