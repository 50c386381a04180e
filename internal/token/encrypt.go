package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrInvalidToken = errors.New("invalid page token")
	ErrNoSecret     = errors.New("page token secret is empty")
)

type EncryptMode func(cipher.Block) (cipher.AEAD, error)

type EncryptionTokenMarshaler struct {
	Mode   EncryptMode
	Secret []byte
}

func NewGCM(secret []byte) *EncryptionTokenMarshaler {
	return &EncryptionTokenMarshaler{
		Mode:   cipher.NewGCM,
		Secret: secret,
	}
}

var _ PageMarshaler = (*EncryptionTokenMarshaler)(nil)

type cursor struct {
	Page int `json:"page"`
}

type sealed struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

func _hash(secret []byte, query string) []byte {
	hash := sha256.New()
	hash.Write(secret)
	hash.Write([]byte(query))
	return hash.Sum(nil)
}

func _mode(em *EncryptionTokenMarshaler, query string) (cipher.AEAD, error) {
	if len(em.Secret) == 0 {
		return nil, ErrNoSecret
	}
	key, err := aes.NewCipher(_hash(em.Secret, query))
	if err != nil {
		return nil, err
	}
	return em.Mode(key)
}

func (em *EncryptionTokenMarshaler) Marshal(query string, page int) (*string, error) {
	plaintext, err := json.Marshal(cursor{Page: page})
	if err != nil {
		return nil, err
	}
	aead, err := _mode(em, query)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(sealed{
		Ciphertext: hex.EncodeToString(aead.Seal(nil, nonce, plaintext, nil)),
		Nonce:      hex.EncodeToString(nonce),
	})
	if err != nil {
		return nil, err
	}
	token := base64.URLEncoding.EncodeToString(payload)
	return &token, nil
}

func (em *EncryptionTokenMarshaler) Unmarshal(query string, token string) (int, error) {
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	var payload sealed
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	ciphertext, err := hex.DecodeString(payload.Ciphertext)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	nonce, err := hex.DecodeString(payload.Nonce)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	aead, err := _mode(em, query)
	if err != nil {
		return 0, err
	}
	if len(nonce) != aead.NonceSize() {
		return 0, fmt.Errorf("%w: bad nonce", ErrInvalidToken)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	var c cursor
	if err := json.Unmarshal(plaintext, &c); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if c.Page < 0 {
		return 0, fmt.Errorf("%w: negative page", ErrInvalidToken)
	}
	return c.Page, nil
}
