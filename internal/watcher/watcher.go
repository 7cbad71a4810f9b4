// Package watcher monitors the library root so edits made outside the
// API — a descriptions.json tweaked by hand, media copied in over SMB —
// show up without waiting for the cache TTL to lapse.
package watcher

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/reactflix/reactflix-server/internal/library"
)

// OnChange is called (debounced) when library content changes on disk.
type OnChange func(path string)

// Watcher watches the library root and every collection folder under it.
type Watcher struct {
	root     string
	callback OnChange
	watcher  *fsnotify.Watcher

	mu       sync.Mutex
	debounce map[string]*time.Timer
	stop     chan struct{}
}

func New(root string, cb OnChange) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		root:     root,
		callback: cb,
		watcher:  fw,
		debounce: make(map[string]*time.Timer),
		stop:     make(chan struct{}),
	}, nil
}

// Start adds the root and its collection folders to the watch list and
// begins processing events.
func (w *Watcher) Start() {
	go w.eventLoop()

	if err := w.watcher.Add(w.root); err != nil {
		log.Printf("[watcher] error watching %s: %v", w.root, err)
	}
	added := 1
	entries, err := os.ReadDir(w.root)
	if err != nil {
		log.Printf("[watcher] error reading library root: %v", err)
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if err := w.watcher.Add(filepath.Join(w.root, e.Name())); err == nil {
			added++
		}
	}
	log.Printf("[watcher] watching %d paths under %s", added, w.root)
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	base := filepath.Base(event.Name)

	// Descriptor writes go through a dot-prefixed temp file; skip those
	// and fire on the rename target instead.
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp") ||
		strings.HasSuffix(base, ".part") {
		return
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	// A created directory is a new collection; watch it too.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err == nil {
				log.Printf("[watcher] watching new collection %s", base)
			}
			w.fire(event.Name)
			return
		}
	}

	if !relevantFile(base) {
		return
	}
	w.fire(event.Name)
}

// fire debounces per path: bulk copies generate event storms and one
// invalidation at the end is enough.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}
	w.debounce[path] = time.AfterFunc(time.Second, func() {
		w.mu.Lock()
		delete(w.debounce, path)
		w.mu.Unlock()
		w.callback(path)
	})
}

func relevantFile(name string) bool {
	if name == library.DescriptorFile {
		return true
	}
	return library.ExtensionAllowed(name, library.VideoExtensions) ||
		library.ExtensionAllowed(name, library.PosterExtensions)
}
