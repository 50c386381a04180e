package filters

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"golang.org/x/exp/slices"
)

type FilterContext struct {
	Request  *events.APIGatewayV2HTTPRequest
	Response *events.APIGatewayV2HTTPResponse
	Context  *context.Context
}

type RequestFilter interface {
	Filter(ctx *FilterContext) (*FilterContext, bool)
}

// CorsFilter answers preflight requests without reaching a route. With a
// wildcard origin every caller is allowed; otherwise the request origin is
// echoed back only when listed.
type CorsFilter struct {
	Methods []string
	Origins []string
	Headers []string
	MaxAge  string
}

func (cf *CorsFilter) allowOrigin(origin string) (string, bool) {
	if slices.Contains(cf.Origins, "*") {
		return "*", true
	}
	if origin != "" && slices.Contains(cf.Origins, origin) {
		return origin, true
	}
	return "", false
}

func (cf *CorsFilter) Filter(ctx *FilterContext) (*FilterContext, bool) {
	if ctx.Request.RequestContext.HTTP.Method != "OPTIONS" {
		return ctx, false
	}
	headers := make(map[string]string, 6)
	headers["content-length"] = "0"
	statusCode := 403
	if allowed, ok := cf.allowOrigin(requestOrigin(ctx.Request)); ok {
		statusCode = ctx.Response.StatusCode
		headers["access-control-allow-headers"] = strings.Join(cf.Headers, ", ")
		headers["access-control-allow-methods"] = strings.Join(cf.Methods, ", ")
		headers["access-control-allow-origin"] = allowed
		if cf.MaxAge != "" {
			headers["access-control-max-age"] = cf.MaxAge
		}
		if allowed != "*" {
			headers["vary"] = "Origin"
		}
	}
	return &FilterContext{
		Request: ctx.Request,
		Context: ctx.Context,
		Response: &events.APIGatewayV2HTTPResponse{
			Headers:    headers,
			StatusCode: statusCode,
		},
	}, true
}

// API Gateway v2 lowercases header names, direct invocations may not.
func requestOrigin(request *events.APIGatewayV2HTTPRequest) string {
	if origin, ok := request.Headers["origin"]; ok {
		return origin
	}
	return request.Headers["Origin"]
}

func DefaultFilterContext(event events.APIGatewayV2HTTPRequest, ctx context.Context) *FilterContext {
	return &FilterContext{
		Request: &event,
		Response: &events.APIGatewayV2HTTPResponse{
			StatusCode: 200,
		},
		Context: &ctx,
	}
}

// NewCorsFilter allows GET from the given origins. No origins means any.
func NewCorsFilter(origins ...string) *CorsFilter {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &CorsFilter{
		Methods: []string{"GET", "OPTIONS"},
		Headers: []string{"Content-Type", "Content-Length", "Authorization"},
		Origins: origins,
		MaxAge:  "3600",
	}
}
