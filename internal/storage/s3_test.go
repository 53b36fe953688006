//go:build integration

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javariai/corpus/internal/testutil"
)

func TestSnapshotStore_ArchiveAndGet(t *testing.T) {
	ctx := context.Background()
	rc := testutil.NewRustFSContainer(ctx, t)
	defer rc.Terminate(ctx)

	store, err := NewSnapshotStore(ctx, SnapshotStoreConfig{
		Endpoint:        rc.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "rustfsadmin",
		SecretAccessKey: "rustfsadmin",
		Bucket:          "corpus-snapshots",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	require.NoError(t, store.EnsureBucket(ctx))

	content := []byte("<html><body><h1>Cap Rate Basics</h1></body></html>")
	require.NoError(t, store.Archive(ctx, "src-1", "https://example.com/cap-rate", content))

	got, err := store.Get(ctx, "src-1", "https://example.com/cap-rate")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestSnapshotKey_Deterministic(t *testing.T) {
	a := SnapshotKey("src-1", "https://example.com/page")
	b := SnapshotKey("src-1", "https://example.com/page")
	c := SnapshotKey("src-1", "https://example.com/other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "snapshots/src-1/")
}
