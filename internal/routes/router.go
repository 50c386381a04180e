package routes

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/foodrecipes/internal/exceptions"
	"philcali.me/foodrecipes/internal/routes/filters"
)

type Route func(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error)

type Service interface {
	GetRoutes() map[string]Route
}

type paramsKey struct{}

// Params returns the path parameters the router matched for this request.
func Params(ctx context.Context) map[string]string {
	if params, ok := ctx.Value(paramsKey{}).(map[string]string); ok {
		return params
	}
	return map[string]string{}
}

type CachedMatcher struct {
	Matcher    *regexp.Regexp
	ParamNames []string
	Mutex      *sync.Mutex
}

type CachedRoute struct {
	Method  string
	Path    string
	Route   Route
	Matcher *CachedMatcher
}

var namex = regexp.MustCompile(":[^/]+")

func (cr *CachedMatcher) Refresh(path string) *regexp.Regexp {
	cr.Mutex.Lock()
	defer cr.Mutex.Unlock()
	if cr.Matcher == nil {
		regexPath := namex.ReplaceAllStringFunc(path, func(found string) string {
			cr.ParamNames = append(cr.ParamNames, found[1:])
			return "([^/]+)"
		})
		cr.Matcher = regexp.MustCompile("^" + regexPath + "$")
	}
	return cr.Matcher
}

func (cr *CachedRoute) MatchEvent(event events.APIGatewayV2HTTPRequest) (map[string]string, bool) {
	if event.RequestContext.HTTP.Method != cr.Method {
		return nil, false
	}
	return cr.MatchPath(event.RawPath)
}

// MatchPath matches the path template alone, ignoring the method.
func (cr *CachedRoute) MatchPath(path string) (map[string]string, bool) {
	if path == cr.Path {
		return map[string]string{}, true
	}
	matcher := cr.Matcher.Refresh(cr.Path)
	values := matcher.FindStringSubmatch(path)
	if values == nil {
		return nil, false
	}
	params := make(map[string]string, len(cr.Matcher.ParamNames))
	for i, p := range cr.Matcher.ParamNames {
		params[p] = values[i+1]
	}
	return params, true
}

type Router struct {
	Filters []filters.RequestFilter
	Routes  []CachedRoute
	Logger  *slog.Logger
}

func NewRouter(logger *slog.Logger, cors *filters.CorsFilter, services ...Service) *Router {
	var routes []CachedRoute
	for _, service := range services {
		for composite, route := range service.GetRoutes() {
			parts := strings.SplitN(composite, ":", 2)
			routes = append(routes, CachedRoute{
				Method: parts[0],
				Path:   parts[1],
				Route:  route,
				Matcher: &CachedMatcher{
					Mutex: &sync.Mutex{},
				},
			})
		}
	}
	return &Router{
		Routes:  routes,
		Filters: []filters.RequestFilter{cors},
		Logger:  logger,
	}
}

func translateError(err error) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]string{"message": err.Error()})
	headers := map[string]string{
		"Content-Type":   "application/json",
		"Content-Length": strconv.Itoa(len(body)),
	}
	var mna *exceptions.MethodNotAllowedError
	if errors.As(err, &mna) {
		headers["Allow"] = strings.Join(mna.Allowed, ", ")
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: exceptions.StatusCode(err),
		Body:       string(body),
		Headers:    headers,
	}
}

func (r *Router) Invoke(event events.APIGatewayV2HTTPRequest, ctx context.Context) events.APIGatewayV2HTTPResponse {
	filterContext := filters.DefaultFilterContext(event, ctx)
	for _, filter := range r.Filters {
		updatedContext, broken := filter.Filter(filterContext)
		if broken {
			return *updatedContext.Response
		}
		filterContext = updatedContext
	}
	method := filterContext.Request.RequestContext.HTTP.Method
	path := filterContext.Request.RawPath
	var allowed []string
	for _, route := range r.Routes {
		params, ok := route.MatchPath(path)
		if !ok {
			continue
		}
		if route.Method != method {
			allowed = append(allowed, route.Method)
			continue
		}
		start := time.Now()
		resp, err := route.Route(event, context.WithValue(*filterContext.Context, paramsKey{}, params))
		if err != nil {
			r.Logger.Warn("route failed", "method", method, "path", path, "err", err)
			resp = translateError(err)
		}
		r.Logger.Debug("request handled", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))
		return resp
	}
	if len(allowed) > 0 {
		return translateError(exceptions.MethodNotAllowed(method, path, allowed))
	}
	return translateError(exceptions.NotFound("route", path))
}
