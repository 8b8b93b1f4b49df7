// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/file-converter/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.HistoryConfig{Path: filepath.Join(t.TempDir(), "nested", "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, types.Attempt{
		Session: "tok-1", FileName: "a.jpg", TargetFormat: "png",
		ConversionID: "c1", Outcome: types.OutcomeSucceeded,
		DownloadURL: "https://cdn.example.com/c1.png", CreatedAt: base,
	}))
	require.NoError(t, s.Record(ctx, types.Attempt{
		Session: "tok-1", FileName: "b.gif", TargetFormat: "jpg",
		Outcome: types.OutcomeFailed, Message: "Failed to upload file: upload failed: HTTP 500",
		CreatedAt: base.Add(time.Minute),
	}))
	require.NoError(t, s.Record(ctx, types.Attempt{
		Session: "tok-2", Outcome: types.OutcomeFailed,
		Message: "Please select a file and target format", CreatedAt: base.Add(2 * time.Minute),
	}))

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "tok-2", recent[0].Session)
	assert.Empty(t, recent[0].FileName)
	assert.Equal(t, "b.gif", recent[1].FileName)
	assert.Equal(t, base.Add(time.Minute), recent[1].CreatedAt)

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBySession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	first := types.Attempt{
		Session: "tok-1", FileName: "a.jpg", TargetFormat: "png", ConversionID: "c1",
		Outcome: types.OutcomeSucceeded, DownloadURL: "u1", CreatedAt: base,
	}
	require.NoError(t, s.Record(ctx, first))
	require.NoError(t, s.Record(ctx, types.Attempt{Session: "tok-2", Outcome: types.OutcomeFailed, CreatedAt: base}))
	require.NoError(t, s.Record(ctx, types.Attempt{Session: "tok-1", FileName: "b.png", Outcome: types.OutcomeFailed, CreatedAt: base.Add(time.Second)}))

	got, err := s.BySession(ctx, "tok-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	first.ID = got[0].ID
	assert.Equal(t, first, got[0])
	assert.Equal(t, "b.png", got[1].FileName)
}

func TestRecordDefaultsCreatedAt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, s.Record(ctx, types.Attempt{Session: "tok", Outcome: types.OutcomeFailed}))

	got, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].CreatedAt.After(before))
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open(types.HistoryConfig{})
	assert.Error(t, err)
}

func TestReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(types.HistoryConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), types.Attempt{Session: "tok", Outcome: types.OutcomeSucceeded}))
	require.NoError(t, s.Close())

	s, err = Open(types.HistoryConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
