package bundle

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helpers "github.com/divvun/divvun-worker-grammar/internal/testutil/testutils"
)

func startTestWatcher(t *testing.T, path string, provider *Provider) *Watcher {
	t.Helper()

	w, err := NewWatcher(path, provider)
	require.NoError(t, err)
	w.debounceTime = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	t.Cleanup(func() {
		cancel()
		stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
		defer stopCancel()
		_ = w.Stop(stopCtx)
	})
	return w
}

func TestWatcherSwapsBundleOnOverwrite(t *testing.T) {
	path := helpers.WriteBundle(t, helpers.DefaultBundleFixture())
	b, err := Load(path)
	require.NoError(t, err)
	provider := NewProvider(b)

	w := startTestWatcher(t, path, provider)

	var reloads atomic.Int32
	w.OnReload(func(*Bundle) { reloads.Add(1) })

	updated := helpers.DefaultBundleFixture()
	updated.Manifest = `name: test-grammar
language: en
version: "2.0.0"
detectors: [double-word, double-space]
`
	require.NoError(t, os.Rename(helpers.WriteBundle(t, updated), path))

	assert.Eventually(t, func() bool {
		return provider.Current().Version() == "2.0.0"
	}, 5*time.Second, 20*time.Millisecond, "provider should serve the new bundle")
	assert.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, time.Second, 20*time.Millisecond)
}

func TestWatcherKeepsOldBundleWhenReloadFails(t *testing.T) {
	path := helpers.WriteBundle(t, helpers.DefaultBundleFixture())
	b, err := Load(path)
	require.NoError(t, err)
	provider := NewProvider(b)

	w := startTestWatcher(t, path, provider)

	var reloads atomic.Int32
	w.OnReload(func(*Bundle) { reloads.Add(1) })

	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o644))

	// wait well past the debounce window for the failed reload to settle
	time.Sleep(500 * time.Millisecond)

	assert.Same(t, b, provider.Current(), "old bundle must stay active")
	assert.Equal(t, int32(0), reloads.Load())
}
