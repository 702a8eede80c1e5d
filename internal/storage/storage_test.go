package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreProbeRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	dbDir := filepath.Join(tmpDir, "db")
	require.NoError(t, os.MkdirAll(dbDir, 0755))

	store, err := OpenAt(dbDir)
	require.NoError(t, err)
	defer store.Close()

	const hash = uint64(0x1234567890abcdef)

	_, ok, err := store.GetProbe(hash)
	require.NoError(t, err)
	require.False(t, ok, "expected cache miss before any write")

	require.NoError(t, store.PutProbe(hash, CachedProbeResult{WDL: 2, DTZ: 17}))

	got, ok, err := store.GetProbe(hash)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, got.WDL)
	require.Equal(t, 17, got.DTZ)
	require.False(t, got.CachedAt.IsZero())
}

func TestStoreClear(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := OpenAt(tmpDir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.PutProbe(1, CachedProbeResult{WDL: 0}))
	require.NoError(t, store.Clear())

	_, ok, err := store.GetProbe(1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDataPaths(t *testing.T) {
	dataDir, err := GetDataDir()
	require.NoError(t, err)
	require.NotEmpty(t, dataDir)

	_, err = os.Stat(dataDir)
	require.NoError(t, err, "data directory should have been created")

	tbDir, err := GetTablebaseDir()
	require.NoError(t, err)
	require.NotEmpty(t, tbDir)
}
