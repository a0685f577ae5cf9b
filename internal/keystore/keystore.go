// Package keystore holds provider API keys encrypted at rest. Each
// credential is sealed with a per-provider data encryption key minted from
// the root key in the kryptograf bundle, so leaking one credential file
// never exposes another provider's key.
package keystore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pkt.systems/inkline/schema"
	"pkt.systems/kryptograf"
	"pkt.systems/kryptograf/keymgmt"
	"pkt.systems/pslog"
)

const (
	credentialExt    = ".enc"
	descriptorPrefix = "inkline:apikey:"
)

// Credential is the secret material stored per provider. BaseURL overrides
// the registry's base URL for this key, for gateway or proxy setups.
type Credential struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url,omitempty"`
}

// Store manages encrypted provider credentials.
type Store struct {
	bundlePath string
	dir        string
	log        pslog.Logger
}

// NewStore initializes the credential store and ensures the root key exists.
func NewStore(bundlePath, dir string) (*Store, error) {
	return NewStoreWithLogger(bundlePath, dir, nil)
}

// NewStoreWithLogger initializes the credential store with logging.
func NewStoreWithLogger(bundlePath, dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(bundlePath) == "" {
		return nil, fmt.Errorf("key bundle path is required")
	}
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("credential directory is required")
	}
	if err := EnsureBundleWithLogger(bundlePath, logger); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("key_bundle", bundlePath, "credential_dir", dir)
	}
	return &Store{bundlePath: bundlePath, dir: dir, log: logger}, nil
}

// Set stores the credential for the provider, replacing any previous one.
// Overwriting mints a fresh data encryption key so retired ciphertext can
// no longer be unsealed with a descriptor that stays in the bundle.
func (s *Store) Set(provider string, cred Credential) error {
	id, err := schema.NormalizeProviderID(provider)
	if err != nil {
		return err
	}
	if strings.TrimSpace(cred.APIKey) == "" {
		return errors.New("api key is required")
	}
	exists, err := s.credentialExists(id)
	if err != nil {
		if s.log != nil {
			s.log.Warn("credential stat failed", "provider", id, "err", err)
		}
		return err
	}
	plain, err := json.Marshal(cred)
	if err != nil {
		if s.log != nil {
			s.log.Warn("credential write failed", "provider", id, "err", err)
		}
		return err
	}
	material, root, err := s.materialFor(id, exists)
	if err != nil {
		if s.log != nil {
			s.log.Warn("credential write failed", "provider", id, "err", err)
		}
		return err
	}
	kg := kryptograf.New(root)

	tmp, err := os.CreateTemp(s.dir, "cred-*.enc")
	if err != nil {
		if s.log != nil {
			s.log.Warn("credential write failed", "provider", id, "err", err)
		}
		return err
	}
	tmpPath := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("credential write failed", "provider", id, "err", err)
		}
		return err
	}
	writer, err := kg.EncryptWriter(tmp, material)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("credential write failed", "provider", id, "err", err)
		}
		return err
	}
	if _, err := io.Copy(writer, bytes.NewReader(plain)); err != nil {
		_ = writer.Close()
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("credential write failed", "provider", id, "err", err)
		}
		return err
	}
	if err := writer.Close(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("credential write failed", "provider", id, "err", err)
		}
		return err
	}
	_ = tmp.Close()
	if err := os.Rename(tmpPath, s.credentialPath(id)); err != nil {
		_ = os.Remove(tmpPath)
		if s.log != nil {
			s.log.Warn("credential write failed", "provider", id, "err", err)
		}
		return err
	}
	if s.log != nil {
		action := "stored"
		if exists {
			action = "replaced"
		}
		s.log.Info("credential write ok", "provider", id, "action", action)
	}
	return nil
}

// Get decrypts and returns the credential for the provider.
func (s *Store) Get(provider string) (Credential, error) {
	id, err := schema.NormalizeProviderID(provider)
	if err != nil {
		return Credential{}, err
	}
	path := s.credentialPath(id)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Credential{}, fmt.Errorf("%w: %s", schema.ErrAPIKeyNotFound, id)
		}
		if s.log != nil {
			s.log.Warn("credential load failed", "provider", id, "err", err)
		}
		return Credential{}, err
	}
	material, root, err := s.materialFor(id, false)
	if err != nil {
		if s.log != nil {
			s.log.Warn("credential load failed", "provider", id, "err", err)
		}
		return Credential{}, err
	}
	kg := kryptograf.New(root)
	file, err := os.Open(path)
	if err != nil {
		if s.log != nil {
			s.log.Warn("credential load failed", "provider", id, "err", err)
		}
		return Credential{}, err
	}
	defer func() { _ = file.Close() }()
	reader, err := kg.DecryptReader(file, material)
	if err != nil {
		if s.log != nil {
			s.log.Warn("credential load failed", "provider", id, "err", err)
		}
		return Credential{}, err
	}
	defer func() { _ = reader.Close() }()
	plain, err := io.ReadAll(reader)
	if err != nil {
		if s.log != nil {
			s.log.Warn("credential load failed", "provider", id, "err", err)
		}
		return Credential{}, err
	}
	var cred Credential
	if err := json.Unmarshal(plain, &cred); err != nil {
		if s.log != nil {
			s.log.Warn("credential load failed", "provider", id, "err", err)
		}
		return Credential{}, err
	}
	if s.log != nil {
		s.log.Debug("credential load ok", "provider", id)
	}
	return cred, nil
}

// Delete removes the stored credential for the provider. Deleting a
// credential that does not exist is not an error.
func (s *Store) Delete(provider string) error {
	id, err := schema.NormalizeProviderID(provider)
	if err != nil {
		return err
	}
	path := s.credentialPath(id)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if s.log != nil {
			s.log.Warn("credential delete failed", "provider", id, "err", err)
		}
		return err
	}
	if err := os.Remove(path); err != nil {
		if s.log != nil {
			s.log.Warn("credential delete failed", "provider", id, "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Info("credential deleted", "provider", id)
	}
	return nil
}

// List returns the providers that have a stored credential, sorted by id.
func (s *Store) List() ([]schema.ProviderID, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if s.log != nil {
			s.log.Warn("credential list failed", "err", err)
		}
		return nil, err
	}
	var ids []schema.ProviderID
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), credentialExt)
		if !ok {
			continue
		}
		id, err := schema.NormalizeProviderID(name)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Store) materialFor(id schema.ProviderID, rotate bool) (keymgmt.Material, keymgmt.RootKey, error) {
	store, err := keymgmt.LoadProto(s.bundlePath)
	if err != nil {
		if s.log != nil {
			s.log.Warn("credential material load failed", "provider", id, "err", err)
		}
		return keymgmt.Material{}, keymgmt.RootKey{}, err
	}
	root, err := store.EnsureRootKey()
	if err != nil {
		if s.log != nil {
			s.log.Warn("credential material load failed", "provider", id, "err", err)
		}
		return keymgmt.Material{}, keymgmt.RootKey{}, err
	}
	descName := descriptorName(id)
	contextBytes := []byte(descName)
	var material keymgmt.Material
	if rotate {
		material, err = keymgmt.MintDEK(root, contextBytes)
		if err != nil {
			if s.log != nil {
				s.log.Warn("credential material mint failed", "provider", id, "err", err)
			}
			return keymgmt.Material{}, keymgmt.RootKey{}, err
		}
		if err := store.SetDescriptor(descName, material.Descriptor); err != nil {
			if s.log != nil {
				s.log.Warn("credential material update failed", "provider", id, "err", err)
			}
			return keymgmt.Material{}, keymgmt.RootKey{}, err
		}
	} else {
		material, err = store.EnsureDescriptor(descName, root, contextBytes)
		if err != nil {
			if s.log != nil {
				s.log.Warn("credential material ensure failed", "provider", id, "err", err)
			}
			return keymgmt.Material{}, keymgmt.RootKey{}, err
		}
	}
	if err := store.Commit(); err != nil {
		if s.log != nil {
			s.log.Warn("credential material commit failed", "provider", id, "err", err)
		}
		return keymgmt.Material{}, keymgmt.RootKey{}, err
	}
	return material, root, nil
}

func descriptorName(id schema.ProviderID) string {
	return descriptorPrefix + string(id)
}

func (s *Store) credentialPath(id schema.ProviderID) string {
	return filepath.Join(s.dir, string(id)+credentialExt)
}

func (s *Store) credentialExists(id schema.ProviderID) (bool, error) {
	info, err := os.Stat(s.credentialPath(id))
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
