package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"os"
	"sync"
)

// MasterKeyEnv is consulted when no master key file has been configured.
const MasterKeyEnv = "LOTTO_MASTER_KEY"

var (
	masterKeyMu   sync.Mutex
	masterKey     []byte
	masterKeyPath string
)

// SetMasterKeyPath configures where to load the master key from. It must be
// called before the first WrapKey/UnwrapKey.
func SetMasterKeyPath(path string) {
	masterKeyMu.Lock()
	defer masterKeyMu.Unlock()
	masterKeyPath = path
}

// MasterKeyConfigured reports whether a persistent master key source exists.
// Without one an ephemeral key is generated and wrapped draw keys will not
// survive a restart.
func MasterKeyConfigured() bool {
	masterKeyMu.Lock()
	defer masterKeyMu.Unlock()
	return masterKeyPath != "" || os.Getenv(MasterKeyEnv) != ""
}

// loadMasterKey derives a 32-byte key from, in order:
//  1. the file at masterKeyPath
//  2. the LOTTO_MASTER_KEY environment variable
//  3. random bytes (development only)
func loadMasterKey() ([]byte, error) {
	var keyMaterial []byte

	switch {
	case masterKeyPath != "":
		data, err := os.ReadFile(masterKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read master key file: %w", err)
		}
		keyMaterial = data
	case os.Getenv(MasterKeyEnv) != "":
		keyMaterial = []byte(os.Getenv(MasterKeyEnv))
	default:
		keyMaterial = make([]byte, KeySize)
		if _, err := rand.Read(keyMaterial); err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral master key: %w", err)
		}
	}

	sum := sha256.Sum256(keyMaterial)
	return sum[:], nil
}

func getMasterKey() ([]byte, error) {
	masterKeyMu.Lock()
	defer masterKeyMu.Unlock()

	if masterKey != nil {
		return masterKey, nil
	}

	key, err := loadMasterKey()
	if err != nil {
		return nil, err
	}
	masterKey = key
	return masterKey, nil
}

// WrapKey encrypts a per-user draw key under the master key for storage.
func WrapKey(key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}

	mk, err := getMasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key: %w", err)
	}
	return seal(mk, key)
}

// UnwrapKey decrypts a key produced by WrapKey.
func UnwrapKey(wrapped []byte) ([]byte, error) {
	mk, err := getMasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key: %w", err)
	}

	key, err := open(mk, wrapped)
	if err != nil {
		return nil, err
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %w", ErrDecrypt, ErrKeySize)
	}
	return key, nil
}

// ResetMasterKeyForTesting drops the cached master key. Tests only.
func ResetMasterKeyForTesting() {
	masterKeyMu.Lock()
	defer masterKeyMu.Unlock()
	masterKey = nil
}
