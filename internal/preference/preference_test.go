package preference_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fluxo/internal/preference"
)

func TestStore_LastCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.yaml")

	s, err := preference.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "otros", s.LastCategory())

	require.NoError(t, s.SetLastCategory("salud"))
	assert.Equal(t, "salud", s.LastCategory())

	reopened, err := preference.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "salud", reopened.LastCategory())

	v, ok := reopened.Get(preference.KeyLastCategory)
	assert.True(t, ok)
	assert.Equal(t, "salud", v)
}

func TestOpen_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	s, err := preference.Open(path)
	require.NoError(t, err)
	assert.Equal(t, "otros", s.LastCategory())
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- [not a map"), 0o600))

	_, err := preference.Open(path)
	assert.Error(t, err)
}
