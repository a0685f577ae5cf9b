package registry

import (
	"errors"
	"path/filepath"
	"testing"

	"pkt.systems/inkline/schema"
)

func TestStoreSeedsCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.json")
	store, err := NewStoreWithLogger(path, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	providers := store.Providers()
	if len(providers) != 3 {
		t.Fatalf("expected 3 seeded providers, got %d", len(providers))
	}
	for i := 1; i < len(providers); i++ {
		if providers[i-1].ID >= providers[i].ID {
			t.Fatalf("providers not sorted: %s before %s", providers[i-1].ID, providers[i].ID)
		}
	}
	for _, p := range providers {
		if _, ok := p.SelectedModel(); !ok {
			t.Fatalf("seeded provider %s has no selected model", p.ID)
		}
	}
}

func TestStoreRejectsInvalidProviderID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.json")
	store, err := NewStoreWithLogger(path, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.AddProvider("open ai", "Open AI", ""); !errors.Is(err, schema.ErrInvalidProvider) {
		t.Fatalf("expected invalid provider error, got %v", err)
	}
}

func TestStoreProviderCRUD(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.json")
	store, err := NewStoreWithLogger(path, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.AddProvider("Groq", "", "https://api.groq.com/openai/v1"); err != nil {
		t.Fatalf("add provider: %v", err)
	}
	p, err := store.Provider("groq")
	if err != nil {
		t.Fatalf("get provider: %v", err)
	}
	if p.Name != "groq" {
		t.Fatalf("expected name to default to id, got %q", p.Name)
	}
	if p.BaseURL != "https://api.groq.com/openai/v1" {
		t.Fatalf("unexpected base url %q", p.BaseURL)
	}
	if err := store.AddProvider("groq", "Groq", ""); !errors.Is(err, schema.ErrProviderExists) {
		t.Fatalf("expected duplicate provider error, got %v", err)
	}
	if err := store.RemoveProvider("groq"); err != nil {
		t.Fatalf("remove provider: %v", err)
	}
	if err := store.RemoveProvider("groq"); !errors.Is(err, schema.ErrProviderNotFound) {
		t.Fatalf("expected missing provider error, got %v", err)
	}
}

func TestStoreModelEnableDisableSelect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.json")
	store, err := NewStoreWithLogger(path, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.DisableModel("openai", "gpt-4.1"); err != nil {
		t.Fatalf("disable model: %v", err)
	}
	p, err := store.Provider("openai")
	if err != nil {
		t.Fatalf("get provider: %v", err)
	}
	if _, ok := p.SelectedModel(); ok {
		t.Fatalf("expected selection cleared after disabling selected model")
	}

	if err := store.SelectModel("openai", "o3"); err != nil {
		t.Fatalf("select model: %v", err)
	}
	p, err = store.Provider("openai")
	if err != nil {
		t.Fatalf("get provider: %v", err)
	}
	selected, ok := p.SelectedModel()
	if !ok || selected != "o3" {
		t.Fatalf("expected o3 selected, got %q ok=%v", selected, ok)
	}
	for _, m := range p.Models {
		if m.ID == "o3" && !m.Enabled {
			t.Fatalf("expected select to enable the model")
		}
		if m.ID != "o3" && m.Selected {
			t.Fatalf("expected previous selection cleared, %s still selected", m.ID)
		}
	}

	if err := store.EnableModel("openai", "nope"); !errors.Is(err, schema.ErrModelNotFound) {
		t.Fatalf("expected missing model error, got %v", err)
	}
	if err := store.SelectModel("nope", "gpt-4.1"); !errors.Is(err, schema.ErrProviderNotFound) {
		t.Fatalf("expected missing provider error, got %v", err)
	}
}

func TestStoreMergeModels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.json")
	store, err := NewStoreWithLogger(path, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	added, err := store.MergeModels("openai", []schema.ModelID{"gpt-4.1", "gpt-5", "gpt-5"})
	if err != nil {
		t.Fatalf("merge models: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 model added, got %d", added)
	}
	p, err := store.Provider("openai")
	if err != nil {
		t.Fatalf("get provider: %v", err)
	}
	found := false
	for _, m := range p.Models {
		if m.ID == "gpt-5" {
			found = true
			if m.Enabled || m.Selected {
				t.Fatalf("expected merged model to start disabled and unselected")
			}
		}
	}
	if !found {
		t.Fatalf("merged model missing from provider")
	}
	added, err = store.MergeModels("openai", []schema.ModelID{"gpt-5"})
	if err != nil {
		t.Fatalf("merge again: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected idempotent merge, got %d added", added)
	}
}

func TestStoreReloadsProviderAdd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.json")
	writer, err := NewStoreWithLogger(path, nil)
	if err != nil {
		t.Fatalf("new store writer: %v", err)
	}
	reader, err := NewStoreWithLogger(path, nil)
	if err != nil {
		t.Fatalf("new store reader: %v", err)
	}
	if err := writer.AddProvider("fireworks", "Fireworks", "https://api.fireworks.ai/inference/v1"); err != nil {
		t.Fatalf("add provider: %v", err)
	}
	if _, err := reader.Provider("fireworks"); err != nil {
		t.Fatalf("reader should see added provider: %v", err)
	}
	if err := writer.RemoveProvider("fireworks"); err != nil {
		t.Fatalf("remove provider: %v", err)
	}
	if _, err := reader.Provider("fireworks"); !errors.Is(err, schema.ErrProviderNotFound) {
		t.Fatalf("reader should see removal, got %v", err)
	}
}

func TestStoreReloadsModelSelection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.json")
	writer, err := NewStoreWithLogger(path, nil)
	if err != nil {
		t.Fatalf("new store writer: %v", err)
	}
	reader, err := NewStoreWithLogger(path, nil)
	if err != nil {
		t.Fatalf("new store reader: %v", err)
	}
	if err := writer.SelectModel("anthropic", "claude-opus-4"); err != nil {
		t.Fatalf("select model: %v", err)
	}
	p, err := reader.Provider("anthropic")
	if err != nil {
		t.Fatalf("get provider: %v", err)
	}
	selected, ok := p.SelectedModel()
	if !ok || selected != "claude-opus-4" {
		t.Fatalf("reader should see new selection, got %q ok=%v", selected, ok)
	}
}
