package keystore

import (
	"fmt"
	"os"
	"path/filepath"

	"pkt.systems/kryptograf/keymgmt"
	"pkt.systems/pslog"
)

// EnsureBundle creates or loads the key bundle at path and ensures a root
// key exists.
func EnsureBundle(path string) error {
	return EnsureBundleWithLogger(path, nil)
}

// EnsureBundleWithLogger creates or loads the key bundle with logging.
func EnsureBundleWithLogger(path string, logger pslog.Logger) error {
	if path == "" {
		return fmt.Errorf("key bundle path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		if logger != nil {
			logger.Warn("key bundle ensure failed", "err", err)
		}
		return err
	}
	store, err := keymgmt.LoadProto(path)
	if err != nil {
		if logger != nil {
			logger.Warn("key bundle ensure failed", "err", err)
		}
		return err
	}
	if _, err := store.EnsureRootKey(); err != nil {
		if logger != nil {
			logger.Warn("key bundle ensure failed", "err", err)
		}
		return err
	}
	if err := store.Commit(); err != nil {
		if logger != nil {
			logger.Warn("key bundle ensure failed", "err", err)
		}
		return err
	}
	if logger != nil {
		logger.Info("key bundle ensure ok", "path", path)
	}
	return nil
}
