package datastore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveWritesIndentedSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	ds, err := New(path, "bot")
	require.NoError(t, err)

	require.NoError(t, ds.Save(map[string]string{"prefix": "e!", "shards": "0"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"bot\": {\n        \"prefix\": \"e!\",\n        \"shards\": \"0\"\n    }\n}\n", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must be renamed away")
}

func TestLoadReturnsSavedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	ds, err := New(path, "bot")
	require.NoError(t, err)
	require.NoError(t, ds.Save(map[string]string{"owner_id": "42"}))

	reopened, err := New(path, "bot")
	require.NoError(t, err)
	values, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"owner_id": "42"}, values)
}

func TestLoadAcceptsHandEditedDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `[{"bot": {"shards": 2, "debug_mode": true, "prefix": "!"}}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	ds, err := New(path, "bot")
	require.NoError(t, err)
	values, err := ds.Load()
	require.NoError(t, err)
	assert.Equal(t, "2", values["shards"])
	assert.Equal(t, "true", values["debug_mode"])
	assert.Equal(t, "!", values["prefix"])
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		ds, err := New(filepath.Join(dir, "absent.json"), "bot")
		require.NoError(t, err)
		_, err = ds.Load()
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
		ds, err := New(path, "bot")
		require.NoError(t, err)
		_, err = ds.Load()
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("missing section", func(t *testing.T) {
		path := filepath.Join(dir, "other.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"other": {}}`), 0644))
		ds, err := New(path, "bot")
		require.NoError(t, err)
		_, err = ds.Load()
		assert.ErrorIs(t, err, ErrNoSection)
	})
}

func TestModifiedIgnoresOwnWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	ds, err := New(path, "bot")
	require.NoError(t, err)
	require.NoError(t, ds.Save(map[string]string{"prefix": "e!"}))

	modified, err := ds.Modified()
	require.NoError(t, err)
	assert.False(t, modified)

	require.NoError(t, os.WriteFile(path, []byte(`{"bot": {"prefix": "?"}}`), 0644))
	modified, err = ds.Modified()
	require.NoError(t, err)
	assert.True(t, modified)
}

func TestBackupsAreCapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig(path, "bot")
	cfg.BackupCount = 1
	ds, err := NewWithConfig(cfg)
	require.NoError(t, err)

	require.NoError(t, ds.Save(map[string]string{"a": "1"}))
	require.NoError(t, ds.Save(map[string]string{"a": "2"}))

	backups, err := filepath.Glob(path + ".backup.*")
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}
