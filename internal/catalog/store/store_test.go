package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/alcohol-tracker/internal/catalog/domain"
)

func sampleSnapshot(at time.Time) *domain.Snapshot {
	return domain.NewSnapshot([]domain.Product{
		{ProductNumber: "1234567", ProductNameBold: "Carlsberg", AlcoholPercentage: 5, Grapes: []string{}},
		{ProductNumber: "7654321", ProductNameBold: "Mariestads", ProductNameThin: "Export", AlcoholPercentage: 5.3},
	}, at)
}

func TestFileStore_RoundTripHonoursTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "systembolaget_products.json")
	s := NewFileStore(path, 24*time.Hour)

	fetched := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fetched.Add(time.Hour) }

	ctx := context.Background()
	require.NoError(t, s.Write(ctx, sampleSnapshot(fetched)))

	got, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Products, 2)
	assert.Equal(t, "Export", got.Products[1].ProductNameThin)
	assert.True(t, fetched.Equal(got.Timestamp))

	s.now = func() time.Time { return fetched.Add(24 * time.Hour) }
	_, err = s.Read(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotAbsent)
}

func TestFileStore_MissingAndEmpty(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	_, err := NewFileStore(filepath.Join(dir, "missing.json"), time.Hour).Read(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotAbsent)

	empty := NewFileStore(filepath.Join(dir, "empty.json"), time.Hour)
	require.NoError(t, empty.Write(ctx, domain.NewSnapshot(nil, time.Now())))
	_, err = empty.Read(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotAbsent)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path, time.Hour).Read(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSnapshotAbsent)
}

func TestFileStore_WriteOverwritesAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	s := NewFileStore(path, 24*time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, sampleSnapshot(time.Now())))
	require.NoError(t, s.Write(ctx, domain.NewSnapshot([]domain.Product{{ProductNumber: "1", AlcoholPercentage: 40}}, time.Now())))

	got, err := s.Read(ctx)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_WriteToMissingDirectoryFails(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "no", "such", "dir", "c.json"), time.Hour)
	assert.Error(t, s.Write(context.Background(), sampleSnapshot(time.Now())))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	s := NewRedisStore(client, time.Hour)
	s.key = "test:" + SnapshotKey
	defer client.Del(ctx, s.key)

	_, err := s.Read(ctx)
	assert.ErrorIs(t, err, domain.ErrSnapshotAbsent)

	require.NoError(t, s.Write(ctx, sampleSnapshot(time.Now())))
	got, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Products, 2)

	ttl, err := client.TTL(ctx, s.key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Minute)
}
