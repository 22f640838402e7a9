package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Seed is the on-disk catalog bundle loaded at startup: browse categories
// plus the initial mod and server collections.
type Seed struct {
	Categories []Category `yaml:"categories"`
	Mods       []Mod      `yaml:"mods"`
	Servers    []Server   `yaml:"servers"`
}

// LoadSeed reads and validates a seed file. A seed that parses but carries
// duplicate IDs, an unknown mod category, or an unknown server type is
// rejected whole; partial loads would leave the catalog in a state no file
// on disk describes.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := seed.validate(); err != nil {
		return nil, fmt.Errorf("invalid seed %s: %w", path, err)
	}

	for i := range seed.Categories {
		seed.Categories[i].Icon = ParseCategoryIcon(string(seed.Categories[i].Icon))
	}
	return &seed, nil
}

func (s *Seed) validate() error {
	modIDs := make(map[string]struct{}, len(s.Mods))
	for _, m := range s.Mods {
		if m.ID == "" {
			return fmt.Errorf("mod %q has no id", m.Title)
		}
		if _, dup := modIDs[m.ID]; dup {
			return fmt.Errorf("duplicate mod id %q", m.ID)
		}
		modIDs[m.ID] = struct{}{}
		if !m.Category.Valid() {
			return fmt.Errorf("mod %q has unknown category %q", m.ID, m.Category)
		}
	}

	serverIDs := make(map[string]struct{}, len(s.Servers))
	for _, srv := range s.Servers {
		if srv.ID == "" {
			return fmt.Errorf("server %q has no id", srv.Name)
		}
		if _, dup := serverIDs[srv.ID]; dup {
			return fmt.Errorf("duplicate server id %q", srv.ID)
		}
		serverIDs[srv.ID] = struct{}{}
		if !srv.Type.Valid() {
			return fmt.Errorf("server %q has unknown type %q", srv.ID, srv.Type)
		}
	}
	return nil
}

// SeedWatcher reloads a seed file when it changes on disk and hands each
// successfully parsed version to the onReload callback. A version that fails
// to load is logged and dropped; the previously loaded seed stays active.
type SeedWatcher struct {
	path     string
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	onReload func(*Seed)

	mu       sync.Mutex
	debounce *time.Timer
	done     chan struct{}
}

const seedDebounce = 250 * time.Millisecond

// WatchSeed starts watching the seed file's directory. Watching the
// directory rather than the file survives the rename-and-replace write
// pattern editors and config pushers use.
func WatchSeed(path string, logger *slog.Logger, onReload func(*Seed)) (*SeedWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	sw := &SeedWatcher{
		path:     path,
		logger:   logger,
		watcher:  watcher,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go sw.watchLoop()

	logger.Info("watching seed file", "path", path)
	return sw, nil
}

func (sw *SeedWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(sw.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			sw.scheduleReload()
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Error("seed watcher error", "error", err)
		case <-sw.done:
			return
		}
	}
}

// scheduleReload coalesces the event burst a single save produces into one
// reload.
func (sw *SeedWatcher) scheduleReload() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.debounce != nil {
		sw.debounce.Stop()
	}
	sw.debounce = time.AfterFunc(seedDebounce, sw.reload)
}

func (sw *SeedWatcher) reload() {
	seed, err := LoadSeed(sw.path)
	if err != nil {
		sw.logger.Error("seed reload failed, keeping previous catalog", "path", sw.path, "error", err)
		return
	}
	sw.logger.Info("seed reloaded",
		"path", sw.path,
		"categories", len(seed.Categories),
		"mods", len(seed.Mods),
		"servers", len(seed.Servers))
	sw.onReload(seed)
}

// Close stops the watcher. Pending debounced reloads are cancelled.
func (sw *SeedWatcher) Close() error {
	sw.mu.Lock()
	if sw.debounce != nil {
		sw.debounce.Stop()
	}
	sw.mu.Unlock()

	close(sw.done)
	return sw.watcher.Close()
}
