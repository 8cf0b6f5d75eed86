package secret

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvSource(t *testing.T) {
	t.Run("Set", func(t *testing.T) {
		t.Setenv("TEST_WEBHOOK_URL", " https://discord.example/api/webhooks/1/tok ")

		value, err := (&EnvSource{Key: "TEST_WEBHOOK_URL"}).Resolve()
		require.NoError(t, err)
		assert.Equal(t, "https://discord.example/api/webhooks/1/tok", value)
	})

	t.Run("Unset", func(t *testing.T) {
		_, err := (&EnvSource{Key: "TEST_WEBHOOK_URL_UNSET"}).Resolve()
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFileSource(t *testing.T) {
	t.Run("Present", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "webhook.conf")
		require.NoError(t, os.WriteFile(path, []byte("https://discord.example/api/webhooks/1/tok\n"), 0600))

		value, err := (&FileSource{Path: path}).Resolve()
		require.NoError(t, err)
		assert.Equal(t, "https://discord.example/api/webhooks/1/tok", value)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := (&FileSource{Path: filepath.Join(t.TempDir(), "webhook.conf")}).Resolve()
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "webhook.conf")
		require.NoError(t, os.WriteFile(path, []byte("  \n"), 0600))

		_, err := (&FileSource{Path: path}).Resolve()
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestResolver(t *testing.T) {
	t.Run("FirstSourceWins", func(t *testing.T) {
		stateDir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(stateDir, "webhook.conf"),
			[]byte("https://from-file.example"), 0600))
		t.Setenv("TARJOUSBOT_WEBHOOK_URL", "https://from-env.example")

		value, err := NewResolver(stateDir).Resolve()
		require.NoError(t, err)
		assert.Equal(t, "https://from-env.example", value)
	})

	t.Run("FallsThroughToFile", func(t *testing.T) {
		stateDir := t.TempDir()
		require.NoError(t, os.WriteFile(
			filepath.Join(stateDir, "webhook.conf"),
			[]byte("https://from-file.example"), 0600))
		t.Setenv("TARJOUSBOT_WEBHOOK_URL", "")

		value, err := NewResolver(stateDir).Resolve()
		require.NoError(t, err)
		assert.Equal(t, "https://from-file.example", value)
	})
}
