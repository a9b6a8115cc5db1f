package services

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"hearth/config"
)

const (
	keyLength  = 32 // AES-256
	saltLength = 16
	iterations = 100000
)

// encryptedData holds the ciphertext with its salt and nonce
type encryptedData struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

func deriveKey(salt []byte) []byte {
	cfg := config.GetConfig()
	return pbkdf2.Key([]byte(cfg.ServerSecret), salt, iterations, keyLength, sha256.New)
}

// EncryptCredential encrypts the calendar provider credential with
// AES-256-GCM under a key derived from the server secret, so the
// settings row never stores it in the clear.
func EncryptCredential(plaintext []byte) ([]byte, error) {
	// Generate random salt
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	key := deriveKey(salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	encData := encryptedData{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}

	return json.Marshal(encData)
}

// DecryptCredential decrypts a credential stored by EncryptCredential
func DecryptCredential(encryptedBytes []byte) ([]byte, error) {
	var encData encryptedData
	if err := json.Unmarshal(encryptedBytes, &encData); err != nil {
		return nil, err
	}

	key := deriveKey(encData.Salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(encData.Nonce) != gcm.NonceSize() {
		return nil, errors.New("invalid nonce size")
	}

	plaintext, err := gcm.Open(nil, encData.Nonce, encData.Ciphertext, nil)
	if err != nil {
		return nil, errors.New("decryption failed - corrupted data or rotated server secret")
	}

	return plaintext, nil
}
