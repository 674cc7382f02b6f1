package crypto

import (
	"encoding/base64"
	"errors"
	"os"
)

var (
	ErrMasterKeyNotSet  = errors.New("master key not set in environment")
	ErrInvalidMasterKey = errors.New("invalid master key: must be base64 of 32 bytes")
)

// ContentCipher encrypts flagged text before it reaches the database,
// so detected_content is never stored in the clear.
type ContentCipher struct {
	key []byte
}

// NewContentCipher creates a cipher with an explicit key.
func NewContentCipher(key []byte) (*ContentCipher, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKeySize
	}
	return &ContentCipher{key: key}, nil
}

// NewContentCipherFromEnv reads MASTER_KEY (base64, 32 bytes) from the environment.
func NewContentCipherFromEnv() (*ContentCipher, error) {
	masterKeyB64 := os.Getenv("MASTER_KEY")
	if masterKeyB64 == "" {
		return nil, ErrMasterKeyNotSet
	}

	masterKey, err := base64.StdEncoding.DecodeString(masterKeyB64)
	if err != nil || len(masterKey) != 32 {
		return nil, ErrInvalidMasterKey
	}

	return &ContentCipher{key: masterKey}, nil
}

// EncryptContent returns the base64 AES-GCM ciphertext of plaintext.
func (c *ContentCipher) EncryptContent(plaintext string) (string, error) {
	return Encrypt(plaintext, c.key)
}

// DecryptContent reverses EncryptContent.
func (c *ContentCipher) DecryptContent(ciphertext string) (string, error) {
	return Decrypt(ciphertext, c.key)
}
