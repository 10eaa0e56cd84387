package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zschzen/Vulkan-Course/engine/core"
)

func newWatchedDir(t *testing.T) (string, *core.EventSystem, chan core.EventContext) {
	t.Helper()

	dir := t.TempDir()
	events := core.NewEventSystem()
	fired := make(chan core.EventContext, 8)
	events.Register(core.EVENT_CODE_SHADER_RELOADED, func(context core.EventContext) bool {
		fired <- context
		return true
	})

	sw, err := NewShaderWatcher(events, dir)
	require.NoError(t, err)
	t.Cleanup(func() { sw.Close() })

	return dir, events, fired
}

func TestShaderWatcherFiresOnSpvWrite(t *testing.T) {
	dir, _, fired := newWatchedDir(t)

	path := filepath.Join(dir, "vert.spv")
	require.NoError(t, os.WriteFile(path, []byte{0x03, 0x02, 0x23, 0x07}, 0o644))

	select {
	case context := <-fired:
		require.Equal(t, core.EVENT_CODE_SHADER_RELOADED, context.Type)
		require.Equal(t, path, context.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("no shader-reloaded event after writing a .spv file")
	}
}

func TestShaderWatcherIgnoresOtherFiles(t *testing.T) {
	dir, _, fired := newWatchedDir(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "shader.vert"), []byte("#version 450"), 0o644))

	select {
	case context := <-fired:
		t.Fatalf("unexpected event for a non-binary file: %+v", context)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestShaderWatcherMissingDirectory(t *testing.T) {
	events := core.NewEventSystem()
	_, err := NewShaderWatcher(events, filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestShaderWatcherCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	sw, err := NewShaderWatcher(core.NewEventSystem(), dir)
	require.NoError(t, err)

	require.NoError(t, sw.Close())
	require.NoError(t, sw.Close())
}
