package wallet

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/99designs/keyring"
	"github.com/ethereum/go-ethereum/log"
)

const keychainService = "crunner"

// ErrNoSigningKey is returned when a write is requested but no private key
// is available from the environment or the keychain.
var ErrNoSigningKey = errors.New("no signing key: set CRUNNER_SETTER_SECRETKEY")

// Keystore wraps read-only OS keychain access.
type Keystore struct {
	ring keyring.Keyring
}

// NewKeystore wraps an already opened keyring.
func NewKeystore(ring keyring.Keyring) *Keystore {
	return &Keystore{ring: ring}
}

// DefaultKeystore returns a keystore backed by the OS keychain.
func DefaultKeystore() *Keystore {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
	}

	// On Linux without a GUI, fall back to file-based storage.
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		log.Debug("Keychain unavailable, trying file backend", "err", err)
		ring, err = keyring.Open(keyring.Config{
			ServiceName:     keychainService,
			AllowedBackends: []keyring.BackendType{keyring.FileBackend},
		})
		if err != nil {
			log.Debug("File keyring unavailable", "err", err)
			ring = nil
		}
	}
	return &Keystore{ring: ring}
}

// Retrieve fetches a private key by its keychain reference.
func (k *Keystore) Retrieve(ref string) (string, error) {
	if k == nil || k.ring == nil {
		return "", fmt.Errorf("keystore not available")
	}
	item, err := k.ring.Get(ref)
	if err != nil {
		return "", fmt.Errorf("keychain retrieve %q: %w", ref, err)
	}
	return normaliseHexKey(string(item.Data)), nil
}

// KeyRetriever looks up a private key by reference.
type KeyRetriever interface {
	Retrieve(ref string) (string, error)
}

// LoadSigner resolves the signing key. envKey (the value of
// CRUNNER_SETTER_SECRETKEY) wins; otherwise ref is looked up in ks.
// The keystore is only opened when needed, so newKeystore may be lazy.
func LoadSigner(envKey, ref string, newKeystore func() KeyRetriever) (*Signer, error) {
	if normaliseHexKey(envKey) != "" {
		return NewSigner(envKey)
	}
	if ref == "" || newKeystore == nil {
		return nil, ErrNoSigningKey
	}
	hexKey, err := newKeystore().Retrieve(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSigningKey, err)
	}
	if hexKey == "" {
		return nil, fmt.Errorf("%w: keychain entry %q is empty", ErrNoSigningKey, ref)
	}
	return NewSigner(hexKey)
}
