package util_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"philcali.me/foodrecipes/internal/routes/util"
)

func TestJSONResponse(t *testing.T) {
	resp, err := util.JSONResponse(201, map[string]string{"title": "Soup"})
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	assert.JSONEq(t, `{"title": "Soup"}`, resp.Body)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "16", resp.Headers["Content-Length"])

	_, err = util.JSONResponse(200, math.Inf(1))
	assert.ErrorContains(t, err, "encoding response")
}

func TestRequestParam(t *testing.T) {
	assert.Equal(t, "", util.RequestParam(context.Background(), "id"))
}
