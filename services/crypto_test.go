package services

import (
	"bytes"
	"testing"
)

func TestCredentialRoundTrip(t *testing.T) {
	t.Setenv("HEARTH_CONFIG_DIR", t.TempDir())

	plaintext := []byte(`{"type": "service_account", "private_key": "secret"}`)

	encrypted, err := EncryptCredential(plaintext)
	if err != nil {
		t.Fatalf("EncryptCredential returned error: %v", err)
	}
	if bytes.Contains(encrypted, []byte("private_key")) {
		t.Error("ciphertext leaks plaintext")
	}

	decrypted, err := DecryptCredential(encrypted)
	if err != nil {
		t.Fatalf("DecryptCredential returned error: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round trip mismatch: got %s", decrypted)
	}
}

func TestDecryptCredentialCorrupted(t *testing.T) {
	t.Setenv("HEARTH_CONFIG_DIR", t.TempDir())

	encrypted, err := EncryptCredential([]byte("credential"))
	if err != nil {
		t.Fatalf("EncryptCredential returned error: %v", err)
	}

	encrypted[len(encrypted)-10] ^= 0xff
	if _, err := DecryptCredential(encrypted); err == nil {
		t.Error("expected error for tampered ciphertext")
	}

	if _, err := DecryptCredential([]byte("not json")); err == nil {
		t.Error("expected error for malformed blob")
	}
}
