package util

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/foodrecipes/internal/routes"
)

func RequestParam(ctx context.Context, name string) string {
	return routes.Params(ctx)[name]
}

// JSONResponse encodes body as the response payload.
func JSONResponse(statusCode int, body any) (events.APIGatewayV2HTTPResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, fmt.Errorf("encoding response: %w", err)
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":   "application/json",
			"Content-Length": strconv.Itoa(len(payload)),
		},
		Body: string(payload),
	}, nil
}
