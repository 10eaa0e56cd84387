package assets

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zschzen/Vulkan-Course/engine/core"
)

// debounceWindow coalesces the burst of write events a compiler produces
// while flushing a single binary.
const debounceWindow = 200 * time.Millisecond

// ShaderWatcher observes a directory of compiled shader binaries and fires a
// shader-reloaded event whenever one of them is rewritten on disk.
type ShaderWatcher struct {
	events *core.EventSystem

	mutex    sync.Mutex
	isClosed bool

	done     chan struct{}
	fsnotify *fsnotify.Watcher

	lastFired map[string]time.Time
}

func NewShaderWatcher(events *core.EventSystem, shaderDir string) (*ShaderWatcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	sw := &ShaderWatcher{
		events:    events,
		done:      make(chan struct{}),
		fsnotify:  fsWatch,
		lastFired: make(map[string]time.Time),
	}

	if err := sw.fsnotify.Add(shaderDir); err != nil {
		sw.fsnotify.Close()
		return nil, err
	}

	go sw.start()

	core.LogInfo("Watching `%s` for recompiled shaders.", shaderDir)
	return sw, nil
}

func (sw *ShaderWatcher) Close() error {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()
	if sw.isClosed {
		return nil
	}
	sw.isClosed = true
	close(sw.done)
	return nil
}

func (sw *ShaderWatcher) start() {
	for {
		select {
		case e := <-sw.fsnotify.Events:
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if strings.ToLower(filepath.Ext(e.Name)) != ".spv" {
				continue
			}
			if !sw.shouldFire(e.Name) {
				continue
			}
			core.LogDebug("Shader binary changed: %s", e.Name)
			sw.events.Fire(core.EventContext{
				Type: core.EVENT_CODE_SHADER_RELOADED,
				Data: e.Name,
			})

		case e := <-sw.fsnotify.Errors:
			core.LogError(e.Error())

		case <-sw.done:
			sw.fsnotify.Close()
			return
		}
	}
}

func (sw *ShaderWatcher) shouldFire(name string) bool {
	now := time.Now()
	if last, ok := sw.lastFired[name]; ok && now.Sub(last) < debounceWindow {
		return false
	}
	sw.lastFired[name] = now
	return true
}
