package credential

import (
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "quill"

// Credential keys recognized by the keyring.
const (
	KeyGeminiAPIKey = "gemini_api_key"
	KeyIMAPPassword = "imap_password"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/quill/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("quill-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// GeminiAPIKey returns the Gemini API key from the system keyring,
// falling back to the GEMINI_API_KEY environment variable for headless
// setups. An empty string means no credential is configured.
func GeminiAPIKey() string {
	if key, err := Get(KeyGeminiAPIKey); err == nil && key != "" {
		return key
	}
	return os.Getenv("GEMINI_API_KEY")
}
