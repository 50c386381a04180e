package token_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"philcali.me/foodrecipes/internal/token"
)

func TestEncryptionMarshaler(t *testing.T) {
	marshaler := token.NewGCM([]byte("s3cret"))

	t.Run("RoundTrip", func(t *testing.T) {
		tok, err := marshaler.Marshal("pizza", 3)
		require.NoError(t, err)
		require.NotNil(t, tok)

		page, err := marshaler.Unmarshal("pizza", *tok)
		require.NoError(t, err)
		assert.Equal(t, 3, page)
	})

	t.Run("Opaque", func(t *testing.T) {
		first, err := marshaler.Marshal("pizza", 1)
		require.NoError(t, err)
		second, err := marshaler.Marshal("pizza", 1)
		require.NoError(t, err)
		assert.NotEqual(t, *first, *second)
	})

	t.Run("OtherQuery", func(t *testing.T) {
		tok, err := marshaler.Marshal("pizza", 1)
		require.NoError(t, err)
		_, err = marshaler.Unmarshal("soup", *tok)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("OtherSecret", func(t *testing.T) {
		tok, err := marshaler.Marshal("pizza", 1)
		require.NoError(t, err)
		_, err = token.NewGCM([]byte("other")).Unmarshal("pizza", *tok)
		assert.ErrorIs(t, err, token.ErrInvalidToken)
	})

	t.Run("EmptySecret", func(t *testing.T) {
		unkeyed := token.NewGCM(nil)
		_, err := unkeyed.Marshal("pizza", 1)
		assert.ErrorIs(t, err, token.ErrNoSecret)

		tok, err := marshaler.Marshal("pizza", 1)
		require.NoError(t, err)
		_, err = unkeyed.Unmarshal("pizza", *tok)
		assert.ErrorIs(t, err, token.ErrNoSecret)
	})

	t.Run("Garbage", func(t *testing.T) {
		for _, tok := range []string{
			"2",
			"!!!",
			base64.URLEncoding.EncodeToString([]byte(`{"ciphertext": "zz", "nonce": "00"}`)),
			base64.URLEncoding.EncodeToString([]byte(`{"ciphertext": "00", "nonce": "00"}`)),
		} {
			_, err := marshaler.Unmarshal("pizza", tok)
			assert.ErrorIs(t, err, token.ErrInvalidToken, tok)
		}
	})
}
