package cryptox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/lotto/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestWrapUnwrapKey(t *testing.T) {
	t.Setenv(cryptox.MasterKeyEnv, "test-master-key-wrap")
	cryptox.ResetMasterKeyForTesting()
	t.Cleanup(cryptox.ResetMasterKeyForTesting)

	key, err := cryptox.GenerateKey()
	require.NoError(t, err)

	wrapped, err := cryptox.WrapKey(key)
	require.NoError(t, err)
	require.NotEqual(t, key, wrapped)

	unwrapped, err := cryptox.UnwrapKey(wrapped)
	require.NoError(t, err)
	require.Equal(t, key, unwrapped)
}

func TestUnwrapKey_DifferentMasterKeyFails(t *testing.T) {
	t.Setenv(cryptox.MasterKeyEnv, "master-key-one")
	cryptox.ResetMasterKeyForTesting()
	t.Cleanup(cryptox.ResetMasterKeyForTesting)

	key, err := cryptox.GenerateKey()
	require.NoError(t, err)
	wrapped, err := cryptox.WrapKey(key)
	require.NoError(t, err)

	t.Setenv(cryptox.MasterKeyEnv, "master-key-two")
	cryptox.ResetMasterKeyForTesting()

	_, err = cryptox.UnwrapKey(wrapped)
	require.ErrorIs(t, err, cryptox.ErrDecrypt)
}

func TestWrapKey_RejectsBadSize(t *testing.T) {
	_, err := cryptox.WrapKey([]byte("too-short"))
	require.ErrorIs(t, err, cryptox.ErrKeySize)
}

func TestMasterKeyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.key")
	require.NoError(t, os.WriteFile(path, []byte("file-based-master-key-content"), 0600))

	cryptox.ResetMasterKeyForTesting()
	cryptox.SetMasterKeyPath(path)
	t.Cleanup(func() {
		cryptox.SetMasterKeyPath("")
		cryptox.ResetMasterKeyForTesting()
	})

	require.True(t, cryptox.MasterKeyConfigured())

	key, err := cryptox.GenerateKey()
	require.NoError(t, err)
	wrapped, err := cryptox.WrapKey(key)
	require.NoError(t, err)

	unwrapped, err := cryptox.UnwrapKey(wrapped)
	require.NoError(t, err)
	require.Equal(t, key, unwrapped)
}
