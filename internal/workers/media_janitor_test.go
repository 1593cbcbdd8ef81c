package workers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"prolearn/internal/adapters/filestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRefs map[string]struct{}

func (s staticRefs) ReferencedMedia(_ context.Context, refs []string) (map[string]struct{}, error) {
	out := map[string]struct{}{}
	for _, r := range refs {
		if _, ok := s[r]; ok {
			out[r] = struct{}{}
		}
	}
	return out, nil
}

func TestMediaJanitor_SweepRemovesOldOrphansOnly(t *testing.T) {
	store, err := filestore.NewMediaStore(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()

	referenced, err := store.Store(ctx, strings.NewReader("a"), "a.png", "image/png")
	require.NoError(t, err)
	orphan, err := store.Store(ctx, strings.NewReader("b"), "b.png", "image/png")
	require.NoError(t, err)
	fresh, err := store.Store(ctx, strings.NewReader("c"), "c.png", "image/png")
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	for _, ref := range []string{referenced, orphan} {
		require.NoError(t, os.Chtimes(filepath.Join(store.Root(), ref), old, old))
	}

	j := NewMediaJanitor(store, staticRefs{referenced: {}}, time.Hour, 24*time.Hour, nil)
	j.BatchSize = 1

	removed, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	files, err := store.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{referenced, fresh}, names)
}
