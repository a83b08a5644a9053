package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

var ErrEncryptionDisabled = errors.New("DATA_ENCRYPTION_KEY is not configured")

// Cipher seals small secrets (TOTP seeds) with AES-256-GCM.
type Cipher struct {
	key []byte
}

// NewCipher returns a Cipher for key. An empty key yields a disabled cipher.
func NewCipher(key string) (*Cipher, error) {
	if key == "" {
		return &Cipher{}, nil
	}
	if len(key) != 32 {
		return nil, errors.New("DATA_ENCRYPTION_KEY must be exactly 32 characters")
	}
	return &Cipher{key: []byte(key)}, nil
}

func (c *Cipher) Enabled() bool {
	return c != nil && len(c.key) == 32
}

// Encrypt encrypts plaintext and returns a base64 encoded nonce||ciphertext.
func (c *Cipher) Encrypt(plaintext []byte) (string, error) {
	if !c.Enabled() {
		return "", ErrEncryptionDisabled
	}

	gcm, err := c.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(cryptoText string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrEncryptionDisabled
	}

	ciphertext, err := base64.StdEncoding.DecodeString(cryptoText)
	if err != nil {
		return nil, err
	}

	gcm, err := c.gcm()
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func (c *Cipher) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
