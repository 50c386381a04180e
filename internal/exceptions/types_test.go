package exceptions

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	t.Run("RequestError", func(t *testing.T) {
		assert.Equal(t, 400, StatusCode(InvalidInput("bad")))
		assert.Equal(t, 404, StatusCode(NotFound("recipe", "abc")))
		assert.Equal(t, 404, StatusCode(Remote(404, "missing")))
		assert.Equal(t, 502, StatusCode(Remote(401, "bad key")))
		assert.Equal(t, 405, StatusCode(MethodNotAllowed("DELETE", "/recipes/1", []string{"GET"})))
	})

	t.Run("Wrapped", func(t *testing.T) {
		err := fmt.Errorf("loading recipe: %w", Remote(500, ""))
		assert.Equal(t, 502, StatusCode(err))
		assert.Equal(t, 502, StatusCode(fmt.Errorf("decode: %w", ErrMalformedResponse)))
	})

	t.Run("ServiceError", func(t *testing.T) {
		err := &ServiceError{StatusCode: 503, Cause: errors.New("down")}
		assert.Equal(t, 503, StatusCode(err))
		assert.Equal(t, "down", err.Error())
	})

	t.Run("Unknown", func(t *testing.T) {
		assert.Equal(t, 500, StatusCode(errors.New("boom")))
	})
}

func TestRemoteErrorMessage(t *testing.T) {
	assert.Equal(t, "recipe API responded with status 401", Remote(401, "").Error())
	assert.Equal(t, "recipe API responded with status 401: limit", Remote(401, "limit").Error())
}
