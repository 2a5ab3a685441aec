package strategy

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"tradify/internal/logger"
)

// Preset is one named strategy label offered as an entry-form default.
type Preset struct {
	Name             string `yaml:"name"`
	Description      string `yaml:"description"`
	DefaultAssetType string `yaml:"default_asset_type"`
}

// FileConfig maps the strategies presets file.
type FileConfig struct {
	Strategies []Preset `yaml:"strategies"`
}

// ChangeListener fires after the registry reloaded.
type ChangeListener func(Snapshot)

// Snapshot is an immutable view of the loaded presets.
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	Presets  []Preset
}

// Registry loads the strategy presets file and hot-reloads it on change.
// Presets inform form defaults only; free-text strategy labels on trades
// stay valid either way.
type Registry struct {
	path string

	mu       sync.RWMutex
	snapshot Snapshot

	listenerMu sync.Mutex
	listeners  []ChangeListener
}

// LoadRegistry reads the presets file at path. A missing file is not an
// error: the registry starts empty and fills in if the file appears.
func LoadRegistry(path string) (*Registry, error) {
	r := &Registry{path: strings.TrimSpace(path)}
	if r.path == "" {
		return nil, fmt.Errorf("presets path cannot be empty")
	}
	if err := r.reload(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		logger.Warnf("strategy presets file %s missing, starting empty", r.path)
	}
	return r, nil
}

func (r *Registry) reload() error {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return err
	}
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return fmt.Errorf("parsing strategy presets failed: %w", err)
	}
	presets := make([]Preset, 0, len(cfg.Strategies))
	for _, p := range cfg.Strategies {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			continue
		}
		presets = append(presets, p)
	}

	r.mu.Lock()
	r.snapshot = Snapshot{
		Version:  r.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Presets:  presets,
	}
	snap := r.snapshot
	r.mu.Unlock()

	r.listenerMu.Lock()
	listeners := append([]ChangeListener(nil), r.listeners...)
	r.listenerMu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
	return nil
}

func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

func (r *Registry) Presets() []Preset {
	return r.Snapshot().Presets
}

// Contains reports whether name matches a preset (case-insensitive).
func (r *Registry) Contains(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	for _, p := range r.Presets() {
		if strings.ToLower(p.Name) == name {
			return true
		}
	}
	return false
}

// Validate reports whether a strategy label is acceptable on a trade. Blank
// labels always pass, and free text passes while no presets are loaded.
func (r *Registry) Validate(name string) bool {
	if strings.TrimSpace(name) == "" {
		return true
	}
	if len(r.Presets()) == 0 {
		return true
	}
	return r.Contains(name)
}

func (r *Registry) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	r.listenerMu.Lock()
	r.listeners = append(r.listeners, fn)
	r.listenerMu.Unlock()
}

// Watch re-reads the presets file whenever it changes, until ctx is done.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating presets watcher failed: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(r.path); err != nil {
		// Editors replace files; watch the directory so the path stays covered.
		logger.Debugf("watching presets file directly failed (%v), ignoring", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := r.reload(); err != nil {
				logger.Warnf("reloading strategy presets failed: %v", err)
				continue
			}
			logger.Infof("strategy presets reloaded (%d entries)", len(r.Presets()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("presets watcher error: %v", err)
		}
	}
}
