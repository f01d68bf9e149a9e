// Package viewstate remembers the last viewed project and tab between sessions.
package viewstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	keyProject   = "project"
	tabKeyPrefix = "tab."
)

// KV is the narrow storage the view state is persisted through.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Keys() ([]string, error)
}

// ViewState is the active project and the last tab of each project.
type ViewState struct {
	Project string            `yaml:"project"`
	Tabs    map[string]string `yaml:"tabs"`
}

// Tab returns the remembered tab of project.
func (v ViewState) Tab(project string) string {
	return v.Tabs[project]
}

// Load reads the view state; missing keys leave fields empty.
func Load(kv KV) (ViewState, error) {
	project, err := kv.Get(keyProject)
	if err != nil {
		return ViewState{}, fmt.Errorf("load project: %w", err)
	}
	state := ViewState{Project: project, Tabs: map[string]string{}}

	keys, err := kv.Keys()
	if err != nil {
		return ViewState{}, fmt.Errorf("list view state keys: %w", err)
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, tabKeyPrefix) {
			continue
		}
		tab, err := kv.Get(key)
		if err != nil {
			return ViewState{}, fmt.Errorf("load %s: %w", key, err)
		}
		state.Tabs[strings.TrimPrefix(key, tabKeyPrefix)] = tab
	}
	return state, nil
}

// Save writes the view state.
func Save(kv KV, state ViewState) error {
	if err := kv.Set(keyProject, state.Project); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	for project, tab := range state.Tabs {
		if err := kv.Set(tabKeyPrefix+project, tab); err != nil {
			return fmt.Errorf("save tab of %s: %w", project, err)
		}
	}
	return nil
}

// MemoryKV keeps values in memory.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryKV returns an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

func (m *MemoryKV) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Keys lists the stored keys.
func (m *MemoryKV) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys, nil
}

// FileKV persists values as a flat YAML mapping.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV stores values in the YAML file at path, created on first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

func (f *FileKV) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return values, nil
}

func (f *FileKV) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value

	raw, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode view state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create view state dir: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}

// Keys lists the stored keys.
func (f *FileKV) Keys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	return keys, nil
}
