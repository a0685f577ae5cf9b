// Package registry keeps the provider and model catalog: which providers
// exist, which models they offer, and which of those are enabled or
// selected. The catalog lives in one JSON file that is reloaded whenever
// another process replaced it.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"pkt.systems/inkline/schema"
	"pkt.systems/pslog"
)

// providerRecord is the persisted form of one provider.
type providerRecord struct {
	ID      schema.ProviderID `json:"id"`
	Name    string            `json:"name"`
	BaseURL string            `json:"base_url,omitempty"`
	Models  []modelRecord     `json:"models,omitempty"`
}

type modelRecord struct {
	ID       schema.ModelID `json:"id"`
	Enabled  bool           `json:"enabled"`
	Selected bool           `json:"selected,omitempty"`
}

func (rec providerRecord) view() schema.Provider {
	models := make([]schema.Model, 0, len(rec.Models))
	for _, m := range rec.Models {
		models = append(models, schema.Model{ID: m.ID, Enabled: m.Enabled, Selected: m.Selected})
	}
	return schema.Provider{ID: rec.ID, Name: rec.Name, BaseURL: rec.BaseURL, Models: models}
}

// Store manages provider records stored on disk.
type Store struct {
	path      string
	mu        sync.RWMutex
	providers map[schema.ProviderID]providerRecord
	fileState fileState
	log       pslog.Logger
}

// NewStore loads or seeds the provider registry.
func NewStore(path string) (*Store, error) {
	return NewStoreWithLogger(path, nil)
}

// NewStoreWithLogger loads or seeds the provider registry with logging.
func NewStoreWithLogger(path string, logger pslog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("registry file path is required")
	}
	if logger != nil {
		logger = logger.With("registry_file", path)
	}
	store := &Store{
		path:      path,
		providers: make(map[schema.ProviderID]providerRecord),
		log:       logger,
	}
	if err := store.ensureFile(seedCatalog()); err != nil {
		return nil, err
	}
	if err := store.loadFromDisk(); err != nil {
		return nil, err
	}
	return store, nil
}

// Providers returns a snapshot of all providers sorted by id.
func (s *Store) Providers() []schema.Provider {
	if err := s.refreshIfNeeded(); err != nil {
		if s.log != nil {
			s.log.Warn("registry refresh failed", "err", err)
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]schema.ProviderID, 0, len(s.providers))
	for id := range s.providers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]schema.Provider, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.providers[id].view())
	}
	return out
}

// Provider returns a snapshot of one provider.
func (s *Store) Provider(provider string) (schema.Provider, error) {
	id, err := schema.NormalizeProviderID(provider)
	if err != nil {
		return schema.Provider{}, err
	}
	if err := s.refreshIfNeeded(); err != nil {
		return schema.Provider{}, err
	}
	s.mu.RLock()
	rec, ok := s.providers[id]
	s.mu.RUnlock()
	if !ok {
		return schema.Provider{}, fmt.Errorf("%w: %s", schema.ErrProviderNotFound, id)
	}
	return rec.view(), nil
}

// AddProvider inserts a new provider record and persists the registry.
// An empty display name defaults to the provider id.
func (s *Store) AddProvider(provider, name, baseURL string) error {
	id, err := schema.NormalizeProviderID(provider)
	if err != nil {
		return err
	}
	if name == "" {
		name = string(id)
	}
	if err := s.refreshIfNeeded(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[id]; ok {
		return fmt.Errorf("%w: %s", schema.ErrProviderExists, id)
	}
	s.providers[id] = providerRecord{ID: id, Name: name, BaseURL: baseURL}
	if err := s.saveLocked(); err != nil {
		if s.log != nil {
			s.log.Warn("registry provider add failed", "provider", id, "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Info("registry provider added", "provider", id)
	}
	return nil
}

// RemoveProvider deletes a provider record.
func (s *Store) RemoveProvider(provider string) error {
	id, err := schema.NormalizeProviderID(provider)
	if err != nil {
		return err
	}
	if err := s.refreshIfNeeded(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[id]; !ok {
		return fmt.Errorf("%w: %s", schema.ErrProviderNotFound, id)
	}
	delete(s.providers, id)
	if err := s.saveLocked(); err != nil {
		if s.log != nil {
			s.log.Warn("registry provider remove failed", "provider", id, "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Info("registry provider removed", "provider", id)
	}
	return nil
}

// EnableModel marks the model as available for selection.
func (s *Store) EnableModel(provider, model string) error {
	return s.updateModel(provider, model, "registry model enabled", func(m *modelRecord) {
		m.Enabled = true
	})
}

// DisableModel hides the model. Disabling the selected model also clears
// the selection.
func (s *Store) DisableModel(provider, model string) error {
	return s.updateModel(provider, model, "registry model disabled", func(m *modelRecord) {
		m.Enabled = false
		m.Selected = false
	})
}

// SelectModel marks the model as the provider's selected model, enabling it
// if needed. Any previous selection on the provider is cleared.
func (s *Store) SelectModel(provider, model string) error {
	providerID, err := schema.NormalizeProviderID(provider)
	if err != nil {
		return err
	}
	modelID, err := schema.NormalizeModelID(model)
	if err != nil {
		return err
	}
	if err := s.refreshIfNeeded(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.providers[providerID]
	if !ok {
		return fmt.Errorf("%w: %s", schema.ErrProviderNotFound, providerID)
	}
	found := false
	for i := range rec.Models {
		if rec.Models[i].ID == modelID {
			rec.Models[i].Enabled = true
			rec.Models[i].Selected = true
			found = true
			continue
		}
		rec.Models[i].Selected = false
	}
	if !found {
		return fmt.Errorf("%w: %s", schema.ErrModelNotFound, modelID)
	}
	s.providers[providerID] = rec
	if err := s.saveLocked(); err != nil {
		if s.log != nil {
			s.log.Warn("registry model select failed", "provider", providerID, "model", modelID, "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Info("registry model selected", "provider", providerID, "model", modelID)
	}
	return nil
}

// MergeModels adds the given model ids to the provider as disabled models,
// skipping ids already present. It returns how many were added.
func (s *Store) MergeModels(provider string, ids []schema.ModelID) (int, error) {
	providerID, err := schema.NormalizeProviderID(provider)
	if err != nil {
		return 0, err
	}
	if err := s.refreshIfNeeded(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.providers[providerID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", schema.ErrProviderNotFound, providerID)
	}
	known := make(map[schema.ModelID]bool, len(rec.Models))
	for _, m := range rec.Models {
		known[m.ID] = true
	}
	added := 0
	for _, id := range ids {
		if id == "" || known[id] {
			continue
		}
		rec.Models = append(rec.Models, modelRecord{ID: id})
		known[id] = true
		added++
	}
	if added == 0 {
		return 0, nil
	}
	s.providers[providerID] = rec
	if err := s.saveLocked(); err != nil {
		if s.log != nil {
			s.log.Warn("registry model merge failed", "provider", providerID, "err", err)
		}
		return 0, err
	}
	if s.log != nil {
		s.log.Info("registry models merged", "provider", providerID, "added", added)
	}
	return added, nil
}

func (s *Store) updateModel(provider, model, message string, apply func(*modelRecord)) error {
	providerID, err := schema.NormalizeProviderID(provider)
	if err != nil {
		return err
	}
	modelID, err := schema.NormalizeModelID(model)
	if err != nil {
		return err
	}
	if err := s.refreshIfNeeded(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.providers[providerID]
	if !ok {
		return fmt.Errorf("%w: %s", schema.ErrProviderNotFound, providerID)
	}
	found := false
	for i := range rec.Models {
		if rec.Models[i].ID == modelID {
			apply(&rec.Models[i])
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", schema.ErrModelNotFound, modelID)
	}
	s.providers[providerID] = rec
	if err := s.saveLocked(); err != nil {
		if s.log != nil {
			s.log.Warn("registry model update failed", "provider", providerID, "model", modelID, "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Info(message, "provider", providerID, "model", modelID)
	}
	return nil
}

func (s *Store) ensureFile(seeds []providerRecord) error {
	if _, statErr := os.Stat(s.path); statErr == nil {
		return nil
	} else if !os.IsNotExist(statErr) {
		if s.log != nil {
			s.log.Warn("registry init failed", "err", statErr)
		}
		return statErr
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		if s.log != nil {
			s.log.Warn("registry init failed", "err", err)
		}
		return err
	}
	data, err := json.MarshalIndent(seeds, "", "  ")
	if err != nil {
		if s.log != nil {
			s.log.Warn("registry init failed", "err", err)
		}
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		if s.log != nil {
			s.log.Warn("registry init failed", "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Info("registry initialized", "providers", len(seeds))
	}
	return nil
}

func (s *Store) saveLocked() error {
	ids := make([]schema.ProviderID, 0, len(s.providers))
	for id := range s.providers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	records := make([]providerRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, s.providers[id])
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		if s.log != nil {
			s.log.Warn("registry save failed", "err", err)
		}
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		if s.log != nil {
			s.log.Warn("registry save failed", "err", err)
		}
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "registry-*.json")
	if err != nil {
		if s.log != nil {
			s.log.Warn("registry save failed", "err", err)
		}
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("registry save failed", "err", err)
		}
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("registry save failed", "err", err)
		}
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("registry save failed", "err", err)
		}
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		if s.log != nil {
			s.log.Warn("registry save failed", "err", err)
		}
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		if s.log != nil {
			s.log.Warn("registry save failed", "err", err)
		}
		return err
	}
	if info, err := os.Stat(s.path); err == nil {
		s.fileState = fileStateFromInfo(info)
	} else if s.log != nil {
		s.log.Warn("registry save failed to stat", "err", err)
	}
	if s.log != nil {
		s.log.Debug("registry save ok", "providers", len(records))
	}
	return nil
}

type fileState struct {
	modTime time.Time
	size    int64
	inode   uint64
	dev     uint64
}

func fileStateFromInfo(info os.FileInfo) fileState {
	state := fileState{
		modTime: info.ModTime(),
		size:    info.Size(),
	}
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		state.inode = stat.Ino
		state.dev = stat.Dev
	}
	return state
}

func (s fileState) equal(other fileState) bool {
	return s.size == other.size &&
		s.modTime.Equal(other.modTime) &&
		s.inode == other.inode &&
		s.dev == other.dev
}

func (s *Store) refreshIfNeeded() error {
	info, err := os.Stat(s.path)
	if err != nil {
		if s.log != nil {
			s.log.Warn("registry stat failed", "err", err)
		}
		return err
	}
	latest := fileStateFromInfo(info)
	s.mu.RLock()
	current := s.fileState
	s.mu.RUnlock()
	if current.equal(latest) {
		return nil
	}
	return s.loadFromDisk()
}

func (s *Store) loadFromDisk() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if s.log != nil {
			s.log.Warn("registry load failed", "err", err)
		}
		return err
	}
	var records []providerRecord
	if err := json.Unmarshal(data, &records); err != nil {
		if s.log != nil {
			s.log.Warn("registry load failed", "err", err)
		}
		return err
	}
	info, err := os.Stat(s.path)
	if err != nil {
		if s.log != nil {
			s.log.Warn("registry load failed", "err", err)
		}
		return err
	}
	next := make(map[schema.ProviderID]providerRecord, len(records))
	for _, rec := range records {
		id, err := schema.NormalizeProviderID(string(rec.ID))
		if err != nil {
			if s.log != nil {
				s.log.Warn("registry load failed", "provider", rec.ID, "err", err)
			}
			return err
		}
		rec.ID = id
		next[id] = rec
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers = next
	s.fileState = fileStateFromInfo(info)
	if s.log != nil {
		s.log.Debug("registry load ok", "providers", len(records))
	}
	return nil
}
